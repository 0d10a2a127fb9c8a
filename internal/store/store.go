// Package store provides a graph.Store that lists vertices and edges in insertion order, so
// that anything rendered from the graph is stable from one run to the next.
package store

import (
	"slices"
	"sync"

	"github.com/dominikbraun/graph"
)

type vertex[K comparable, T any] struct {
	hash       K
	value      T
	properties graph.VertexProperties
}

// OrderedStore keeps vertices and edges in slices. Pipeline graphs hold a handful of stages, so
// edge lookups scan the slice.
type OrderedStore[K comparable, T any] struct {
	lock     sync.RWMutex
	vertices []vertex[K, T]
	position map[K]int
	edges    []graph.Edge[K]
}

// NewOrderedStore creates an empty store.
func NewOrderedStore[K comparable, T any]() *OrderedStore[K, T] {
	return &OrderedStore[K, T]{position: make(map[K]int)}
}

func (s *OrderedStore[K, T]) AddVertex(k K, t T, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.position[k]; ok {
		return graph.ErrVertexAlreadyExists
	}
	if p.Attributes == nil {
		p.Attributes = make(map[string]string)
	}

	s.position[k] = len(s.vertices)
	s.vertices = append(s.vertices, vertex[K, T]{hash: k, value: t, properties: p})

	return nil
}

// ListVertices returns vertex hashes in the order they were added.
func (s *OrderedStore[K, T]) ListVertices() ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	hashes := make([]K, 0, len(s.vertices))
	for _, v := range s.vertices {
		hashes = append(hashes, v.hash)
	}

	return hashes, nil
}

func (s *OrderedStore[K, T]) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *OrderedStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	i, ok := s.position[k]
	if !ok {
		var zero T

		return zero, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return s.vertices[i].value, s.vertices[i].properties, nil
}

// RemoveVertex removes a vertex without edges, keeping the order of the others.
func (s *OrderedStore[K, T]) RemoveVertex(k K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	i, ok := s.position[k]
	if !ok {
		return graph.ErrVertexNotFound
	}
	if slices.ContainsFunc(s.edges, func(e graph.Edge[K]) bool { return e.Source == k || e.Target == k }) {
		return graph.ErrVertexHasEdges
	}

	s.vertices = slices.Delete(s.vertices, i, i+1)
	delete(s.position, k)
	for j := i; j < len(s.vertices); j++ {
		s.position[s.vertices[j].hash] = j
	}

	return nil
}

// AddEdge appends an edge, or replaces an existing one in place.
func (s *OrderedStore[K, T]) AddEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if i := s.edgeIndex(sourceHash, targetHash); i >= 0 {
		s.edges[i] = edge

		return nil
	}
	s.edges = append(s.edges, edge)

	return nil
}

func (s *OrderedStore[K, T]) UpdateEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	i := s.edgeIndex(sourceHash, targetHash)
	if i < 0 {
		return graph.ErrEdgeNotFound
	}
	s.edges[i] = edge

	return nil
}

func (s *OrderedStore[K, T]) RemoveEdge(sourceHash, targetHash K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if i := s.edgeIndex(sourceHash, targetHash); i >= 0 {
		s.edges = slices.Delete(s.edges, i, i+1)
	}

	return nil
}

func (s *OrderedStore[K, T]) Edge(sourceHash, targetHash K) (graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	i := s.edgeIndex(sourceHash, targetHash)
	if i < 0 {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return s.edges[i], nil
}

// ListEdges returns the edges in the order they were added, with their latest properties.
func (s *OrderedStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return slices.Clone(s.edges), nil
}

// edgeIndex must be called with the lock held.
func (s *OrderedStore[K, T]) edgeIndex(sourceHash, targetHash K) int {
	return slices.IndexFunc(s.edges, func(e graph.Edge[K]) bool {
		return e.Source == sourceHash && e.Target == targetHash
	})
}

var _ graph.Store[string, string] = (*OrderedStore[string, string])(nil)
