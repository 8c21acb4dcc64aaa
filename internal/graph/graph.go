// Package graph holds the in-memory knowledge graph of car components,
// symptoms, problems and maintenance tasks.
//
// A Graph is immutable once built and safe for concurrent readers.
package graph

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Graph is an undirected graph of typed nodes keyed by display name.
type Graph struct {
	nodes     *orderedmap.OrderedMap[string, Node]
	adjacency map[string][]Neighbor
	edges     []Edge
	// edgeIndex maps an unordered pair to its position in edges.
	edgeIndex map[[2]string]int
}

func newGraph() *Graph {
	return &Graph{
		nodes:     orderedmap.New[string, Node](),
		adjacency: make(map[string][]Neighbor),
		edgeIndex: make(map[[2]string]int),
	}
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (Node, error) {
	node, ok := g.nodes.Get(name)
	if !ok {
		return Node{}, fmt.Errorf("%w: '%s'", ErrNodeNotFound, name)
	}
	return node, nil
}

// Has reports whether a node with the given name exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes.Get(name)
	return ok
}

// Neighbors returns the first-degree neighbors of name in the order the edges
// were added.
func (g *Graph) Neighbors(name string) ([]Neighbor, error) {
	if !g.Has(name) {
		return nil, fmt.Errorf("%w: '%s'", ErrNodeNotFound, name)
	}
	adj := g.adjacency[name]
	out := make([]Neighbor, len(adj))
	copy(out, adj)
	return out, nil
}

// Names returns every node name in insertion order.
func (g *Graph) Names() []string {
	names := make([]string, 0, g.nodes.Len())
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, g.nodes.Len())
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		nodes = append(nodes, pair.Value)
	}
	return nodes
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodesByType groups node names by entity type. Every known type is present
// as a key, and names keep insertion order within their bucket.
func (g *Graph) NodesByType() map[EntityType][]string {
	byType := make(map[EntityType][]string, len(EntityTypes))
	for _, t := range EntityTypes {
		byType[t] = []string{}
	}
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		t := pair.Value.Type
		if _, ok := byType[t]; ok {
			byType[t] = append(byType[t], pair.Key)
		}
	}
	return byType
}

// Stats returns node and edge counts.
func (g *Graph) Stats() Stats {
	counts := make(map[EntityType]int, len(EntityTypes))
	for t, names := range g.NodesByType() {
		counts[t] = len(names)
	}
	return Stats{
		NodeCount:    g.nodes.Len(),
		EdgeCount:    len(g.edges),
		CountsByType: counts,
	}
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Builder assembles a Graph. It is not safe for concurrent use; the Graph it
// produces must not be modified through the builder once handed out.
type Builder struct {
	g *Graph
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{g: newGraph()}
}

// AddNode inserts a node. Names must be unique.
func (b *Builder) AddNode(node Node) error {
	if node.Name == "" {
		return fmt.Errorf("node name is required")
	}
	if !node.Type.Valid() {
		return fmt.Errorf("node '%s': unknown entity type '%s'", node.Name, node.Type)
	}
	if node.Detail != nil && node.Detail.EntityType() != node.Type {
		return fmt.Errorf("%w: node '%s' is %s, detail is %s", ErrTypeMismatch, node.Name, node.Type, node.Detail.EntityType())
	}
	if b.g.Has(node.Name) {
		return fmt.Errorf("%w: '%s'", ErrDuplicateNode, node.Name)
	}
	b.g.nodes.Set(node.Name, node)
	return nil
}

// AddEdge connects two existing nodes. Adding a pair that is already
// connected replaces its relation.
func (b *Builder) AddEdge(from, to, relation string) error {
	if !b.g.Has(from) {
		return fmt.Errorf("source %w: '%s'", ErrNodeNotFound, from)
	}
	if !b.g.Has(to) {
		return fmt.Errorf("destination %w: '%s'", ErrNodeNotFound, to)
	}
	if from == to {
		return fmt.Errorf("self-loop on '%s' is not allowed", from)
	}

	key := pairKey(from, to)
	if i, ok := b.g.edgeIndex[key]; ok {
		b.g.edges[i].Relation = relation
		b.setRelation(from, to, relation)
		b.setRelation(to, from, relation)
		return nil
	}

	b.g.edgeIndex[key] = len(b.g.edges)
	b.g.edges = append(b.g.edges, Edge{A: from, B: to, Relation: relation})
	b.g.adjacency[from] = append(b.g.adjacency[from], Neighbor{Name: to, Relation: relation})
	b.g.adjacency[to] = append(b.g.adjacency[to], Neighbor{Name: from, Relation: relation})
	return nil
}

func (b *Builder) setRelation(node, neighbor, relation string) {
	adj := b.g.adjacency[node]
	for i := range adj {
		if adj[i].Name == neighbor {
			adj[i].Relation = relation
			return
		}
	}
}

// Graph returns the assembled graph.
func (b *Builder) Graph() *Graph {
	return b.g
}
