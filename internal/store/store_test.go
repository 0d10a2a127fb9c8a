package store_test

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stream/internal/store"
)

func TestOrderedStoreVertices(t *testing.T) {
	t.Parallel()

	st := store.NewOrderedStore[string, int]()
	for i, name := range []string{"source", "2:map", "0:filter", "1:flatMap"} {
		require.NoError(t, st.AddVertex(name, i, graph.VertexProperties{}))
	}
	assert.ErrorIs(t, st.AddVertex("source", 0, graph.VertexProperties{}), graph.ErrVertexAlreadyExists)

	hashes, err := st.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"source", "2:map", "0:filter", "1:flatMap"}, hashes)

	v, props, err := st.Vertex("0:filter")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.NotNil(t, props.Attributes)

	require.NoError(t, st.RemoveVertex("2:map"))
	_, _, err = st.Vertex("2:map")
	require.ErrorIs(t, err, graph.ErrVertexNotFound)

	count, err := st.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	hashes, err = st.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"source", "0:filter", "1:flatMap"}, hashes)
}

func TestOrderedStoreEdges(t *testing.T) {
	t.Parallel()

	st := store.NewOrderedStore[string, string]()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, st.AddVertex(name, name, graph.VertexProperties{}))
	}
	require.NoError(t, st.AddEdge("b", "c", graph.Edge[string]{Source: "b", Target: "c"}))
	require.NoError(t, st.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))

	assert.ErrorIs(t, st.RemoveVertex("b"), graph.ErrVertexHasEdges)

	updated := graph.Edge[string]{
		Source:     "b",
		Target:     "c",
		Properties: graph.EdgeProperties{Attributes: map[string]string{"label": "3"}},
	}
	require.NoError(t, st.UpdateEdge("b", "c", updated))
	assert.ErrorIs(t, st.UpdateEdge("c", "a", updated), graph.ErrEdgeNotFound)

	edges, err := st.ListEdges()
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "b", edges[0].Source)
	assert.Equal(t, "3", edges[0].Properties.Attributes["label"])
	assert.Equal(t, "a", edges[1].Source)

	require.NoError(t, st.RemoveEdge("b", "c"))
	_, err = st.Edge("b", "c")
	require.ErrorIs(t, err, graph.ErrEdgeNotFound)

	edges, err = st.ListEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestOrderedStoreRemoveKeepsOrder(t *testing.T) {
	t.Parallel()

	st := store.NewOrderedStore[string, string]()
	for _, name := range []string{"source", "0:map", "1:filter", "sink"} {
		require.NoError(t, st.AddVertex(name, name, graph.VertexProperties{}))
	}
	require.NoError(t, st.RemoveVertex("source"))
	require.NoError(t, st.AddVertex("source", "source", graph.VertexProperties{}))

	v, _, err := st.Vertex("sink")
	require.NoError(t, err)
	assert.Equal(t, "sink", v)

	hashes, err := st.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"0:map", "1:filter", "sink", "source"}, hashes)

	require.NoError(t, st.RemoveEdge("0:map", "sink"))
}

func TestOrderedStoreReaddEdge(t *testing.T) {
	t.Parallel()

	st := store.NewOrderedStore[string, string]()
	require.NoError(t, st.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))
	require.NoError(t, st.AddEdge("b", "c", graph.Edge[string]{Source: "b", Target: "c"}))
	require.NoError(t, st.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b", Properties: graph.EdgeProperties{Weight: 2}}))

	edges, err := st.ListEdges()
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, 2, edges[0].Properties.Weight)

	edges[0].Source = "z"
	edge, err := st.Edge("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a", edge.Source)
}

func TestOrderedStoreDrivesGraph(t *testing.T) {
	t.Parallel()

	g := graph.NewWithStore(graph.StringHash, store.NewOrderedStore[string, string](), graph.Directed())
	for _, name := range []string{"source", "0:map", "sink"} {
		require.NoError(t, g.AddVertex(name))
	}
	require.NoError(t, g.AddEdge("source", "0:map"))
	require.NoError(t, g.AddEdge("0:map", "sink"))
	require.NoError(t, g.UpdateEdge("0:map", "sink", graph.EdgeAttribute("label", "4")))

	adjacency, err := g.AdjacencyMap()
	require.NoError(t, err)
	assert.Len(t, adjacency, 3)
	assert.Contains(t, adjacency["source"], "0:map")

	edge, err := g.Edge("0:map", "sink")
	require.NoError(t, err)
	assert.Equal(t, "4", edge.Properties.Attributes["label"])

	require.ErrorIs(t, g.RemoveVertex("0:map"), graph.ErrVertexHasEdges)
	require.NoError(t, g.RemoveEdge("0:map", "sink"))
	require.NoError(t, g.RemoveEdge("source", "0:map"))
	require.NoError(t, g.RemoveVertex("0:map"))
}
