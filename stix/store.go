package stix

import (
	"encoding/json"
	"fmt"
	"os"
)

// MemoryStore holds a decoded bundle and answers queries over it. Objects
// keep their bundle order so query results are deterministic.
type MemoryStore struct {
	objects  []*Object
	byID     map[string]*Object
	bySource map[string][]*Object
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]*Object),
		bySource: make(map[string][]*Object),
	}
}

// LoadFile reads a STIX bundle file into a new store. Missing or
// malformed files are reported as errors naming the path.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	store, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return store, nil
}

// Load decodes a STIX bundle document into a new store.
func Load(data []byte) (*MemoryStore, error) {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}
	if bundle.Type != "bundle" {
		return nil, fmt.Errorf("expected bundle document, got type %q", bundle.Type)
	}
	store := NewMemoryStore()
	for i, entry := range bundle.Objects {
		obj, err := decodeObject(entry)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		store.add(obj)
	}
	return store, nil
}

// Add inserts an object built in code, deriving its raw document from the
// typed fields. Bundle-decoded objects keep their original documents.
func (s *MemoryStore) Add(obj *Object) error {
	if err := obj.syncRaw(); err != nil {
		return err
	}
	s.add(obj)
	return nil
}

func (s *MemoryStore) add(obj *Object) {
	s.objects = append(s.objects, obj)
	s.byID[obj.ID] = obj
	if obj.Type == TypeRelationship && obj.SourceRef != "" {
		s.bySource[obj.SourceRef] = append(s.bySource[obj.SourceRef], obj)
	}
}

// Len returns the number of objects in the store.
func (s *MemoryStore) Len() int {
	return len(s.objects)
}

// Get returns the object with the given STIX id.
func (s *MemoryStore) Get(id string) (*Object, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

// Query returns every object satisfying all filters, in bundle order.
func (s *MemoryStore) Query(filters []Filter) []*Object {
	var out []*Object
	for _, obj := range s.objects {
		if matchesAll(obj, filters) {
			out = append(out, obj)
		}
	}
	return out
}

func matchesAll(obj *Object, filters []Filter) bool {
	for _, f := range filters {
		if !f.Matches(obj) {
			return false
		}
	}
	return true
}

// Relationships returns the relationship objects whose source is the
// given object, in bundle order.
func (s *MemoryStore) Relationships(obj *Object) []*Object {
	return s.bySource[obj.ID]
}
