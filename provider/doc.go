// Package provider implements a small generic provider framework for
// swappable backends. A Registry holds named factories, and a Selector
// chooses among instantiated providers at runtime.
//
// The engine's transcription and diarization backends are all providers;
// the diarization fallback policy is a PrioritySelector over them.
//
//	reg := provider.NewRegistry[MyProvider]()
//	reg.RegisterFactory("default", myFactory)
//	p, _ := reg.Create("default", cfg)
package provider
