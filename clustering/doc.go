// Package clustering defines the interface for the clustering primitive
// used by window-embedding diarization: partition a set of vectors into K
// labeled groups by cosine distance with average linkage.
//
// The partitioning itself is an external collaborator; the sidecar
// sub-package talks to it over HTTP.
package clustering
