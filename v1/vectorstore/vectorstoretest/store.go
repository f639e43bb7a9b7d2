// Package vectorstoretest provides an in-process vectorstore.Store that
// records every call, for use in tests of code built on top of a Store.
//
// It stores points but does not rank them: Search returns whatever was
// configured with SetSearchResults for the collection.
package vectorstoretest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/graysonrie/vevtor/v1/vectorstore"
)

// UpsertCall records one Upsert.
type UpsertCall struct {
	Collection string
	Points     []vectorstore.Point
}

// DeleteCall records one Delete.
type DeleteCall struct {
	Collection string
	IDs        []uint64
}

// SearchCall records one Search.
type SearchCall struct {
	Collection string
	Vector     []float32
	TopK       uint64
}

// Store is a recording vectorstore.Store. The zero value is not usable,
// call New.
type Store struct {
	mu sync.Mutex

	collections map[string]uint64
	points      map[string]map[uint64]vectorstore.Point
	results     map[string][]vectorstore.ScoredPayload
	errs        map[string]map[string]error

	// OnUpsert, if set, runs before an Upsert is applied. It is called
	// without the store lock held.
	OnUpsert func(collection string, points []vectorstore.Point)

	creates            []string
	deletedCollections []string
	upserts            []UpsertCall
	deletes            []DeleteCall
	searches           []SearchCall
	lists              int
}

var _ vectorstore.Store = (*Store)(nil)

// New returns an empty Store that already holds the given collections.
func New(existing ...string) *Store {
	s := &Store{
		collections: make(map[string]uint64),
		points:      make(map[string]map[uint64]vectorstore.Point),
		results:     make(map[string][]vectorstore.ScoredPayload),
		errs:        make(map[string]map[string]error),
	}
	for _, name := range existing {
		s.collections[name] = 0
		s.points[name] = make(map[uint64]vectorstore.Point)
	}
	return s
}

// Operation names accepted by FailOn.
const (
	OpCreate           = "create"
	OpDeleteCollection = "delete_collection"
	OpList             = "list"
	OpUpsert           = "upsert"
	OpDelete           = "delete"
	OpSearch           = "search"
	OpHealth           = "health"
)

// FailOn makes every call of op against collection return err.
// Use an empty collection for List and Health.
func (s *Store) FailOn(op, collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs[op] == nil {
		s.errs[op] = make(map[string]error)
	}
	s.errs[op][collection] = err
}

// SetSearchResults fixes the hits Search returns for collection.
func (s *Store) SetSearchResults(collection string, hits []vectorstore.ScoredPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[collection] = hits
}

func (s *Store) failure(op, collection string) error {
	return s.errs[op][collection]
}

func (s *Store) CreateCollection(_ context.Context, name string, dim uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, name)
	if err := s.failure(OpCreate, name); err != nil {
		return err
	}
	if _, ok := s.collections[name]; ok {
		return fmt.Errorf("collection %q already exists", name)
	}
	s.collections[name] = dim
	s.points[name] = make(map[uint64]vectorstore.Point)
	return nil
}

func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedCollections = append(s.deletedCollections, name)
	if err := s.failure(OpDeleteCollection, name); err != nil {
		return err
	}
	delete(s.collections, name)
	delete(s.points, name)
	return nil
}

func (s *Store) ListCollections(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if err := s.failure(OpList, ""); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Upsert(_ context.Context, collection string, points []vectorstore.Point) error {
	if s.OnUpsert != nil {
		s.OnUpsert(collection, points)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, UpsertCall{Collection: collection, Points: slices.Clone(points)})
	if err := s.failure(OpUpsert, collection); err != nil {
		return err
	}
	stored, ok := s.points[collection]
	if !ok {
		return fmt.Errorf("collection %q not found", collection)
	}
	for _, p := range points {
		stored[p.ID] = p
	}
	return nil
}

func (s *Store) Delete(_ context.Context, collection string, ids []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, DeleteCall{Collection: collection, IDs: slices.Clone(ids)})
	if err := s.failure(OpDelete, collection); err != nil {
		return err
	}
	for _, id := range ids {
		delete(s.points[collection], id)
	}
	return nil
}

func (s *Store) Search(_ context.Context, collection string, vector []float32, topK uint64) ([]vectorstore.ScoredPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, SearchCall{Collection: collection, Vector: slices.Clone(vector), TopK: topK})
	if err := s.failure(OpSearch, collection); err != nil {
		return nil, err
	}
	hits := s.results[collection]
	if uint64(len(hits)) > topK {
		hits = hits[:topK]
	}
	return slices.Clone(hits), nil
}

func (s *Store) HealthCheck(_ context.Context) (*vectorstore.HealthStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpHealth, ""); err != nil {
		return nil, err
	}
	return &vectorstore.HealthStatus{Title: "vectorstoretest", Version: "test"}, nil
}

// Creates returns the names passed to CreateCollection, in call order.
func (s *Store) Creates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.creates)
}

// DeletedCollections returns the names passed to DeleteCollection.
func (s *Store) DeletedCollections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deletedCollections)
}

// Upserts returns every Upsert call, in call order.
func (s *Store) Upserts() []UpsertCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.upserts)
}

// Deletes returns every Delete call, in call order.
func (s *Store) Deletes() []DeleteCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deletes)
}

// Searches returns every Search call, in call order.
func (s *Store) Searches() []SearchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.searches)
}

// Lists returns how many times ListCollections was called.
func (s *Store) Lists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

// Points returns the points currently stored in collection.
func (s *Store) Points(collection string) map[uint64]vectorstore.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint64]vectorstore.Point, len(s.points[collection]))
	for id, p := range s.points[collection] {
		out[id] = p
	}
	return out
}

// Dimension returns the dimension a collection was created with.
func (s *Store) Dimension(collection string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dim, ok := s.collections[collection]
	return dim, ok
}
