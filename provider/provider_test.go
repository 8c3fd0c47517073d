package provider

import (
	"context"
	"testing"
)

type fakeProvider struct {
	name      string
	available bool
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return f.available }

func TestRegistry_Create_Success(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	reg.RegisterFactory("fake", func(cfg map[string]any) (*fakeProvider, error) {
		return &fakeProvider{name: "fake", available: true}, nil
	})

	p, err := reg.Create("fake", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "fake" {
		t.Errorf("expected name fake, got %s", p.Name())
	}
}

func TestRegistry_Create_Unregistered(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	if _, err := reg.Create("missing", nil); err == nil {
		t.Error("expected error for unregistered factory")
	}
}

func TestRegistry_SetGet_Instance(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	inst := &fakeProvider{name: "cached"}
	reg.Set("cached", inst)

	got, ok := reg.Get("cached")
	if !ok {
		t.Fatal("expected cached instance")
	}
	if got != inst {
		t.Error("expected same instance back")
	}
}

func TestRegistry_List_Sorted(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	factory := func(cfg map[string]any) (*fakeProvider, error) { return nil, nil }
	reg.RegisterFactory("b", factory)
	reg.RegisterFactory("a", factory)

	names := reg.List()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected sorted [a b], got %v", names)
	}
}

func TestPrioritySelector_FirstAvailable(t *testing.T) {
	providers := map[string]*fakeProvider{
		"primary":   {name: "primary", available: false},
		"secondary": {name: "secondary", available: true},
	}
	sel := &PrioritySelector[*fakeProvider]{Priority: []string{"primary", "secondary"}}

	p, err := sel.Select(context.Background(), providers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "secondary" {
		t.Errorf("expected secondary, got %s", p.Name())
	}
}

func TestPrioritySelector_NoneAvailable(t *testing.T) {
	providers := map[string]*fakeProvider{
		"primary": {name: "primary", available: false},
	}
	sel := &PrioritySelector[*fakeProvider]{Priority: []string{"primary"}}

	if _, err := sel.Select(context.Background(), providers); err == nil {
		t.Error("expected error when nothing is available")
	}
}

func TestPrioritySelector_RespectsOrder(t *testing.T) {
	providers := map[string]*fakeProvider{
		"a": {name: "a", available: true},
		"b": {name: "b", available: true},
	}
	sel := &PrioritySelector[*fakeProvider]{Priority: []string{"b", "a"}}

	p, err := sel.Select(context.Background(), providers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "b" {
		t.Errorf("expected b first, got %s", p.Name())
	}
}
