package embedding

import "github.com/skillsenselab/scribe/provider"

// NewRegistry creates a new provider registry for embedding providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
