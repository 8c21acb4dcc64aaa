package graph

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	g := Build()

	stats := g.Stats()
	assert.Equal(t, 25, stats.NodeCount)
	assert.Equal(t, 32, stats.EdgeCount)
	assert.Equal(t, map[EntityType]int{
		TypeComponent: 10,
		TypeSymptom:   5,
		TypeProblem:   5,
		TypeTask:      5,
	}, stats.CountsByType)

	sum := 0
	for _, n := range stats.CountsByType {
		sum += n
	}
	assert.Equal(t, stats.NodeCount, sum)
	assert.Len(t, g.Names(), stats.NodeCount)
}

func TestBuildIsDeterministic(t *testing.T) {
	a, b := Build(), Build()
	assert.Equal(t, a.Names(), b.Names())
	assert.Equal(t, a.Edges(), b.Edges())
	assert.Equal(t, a.NodesByType(), b.NodesByType())
}

func TestEdgeEndpointsExist(t *testing.T) {
	g := Build()
	for _, e := range g.Edges() {
		assert.True(t, g.Has(e.A), "missing endpoint %s", e.A)
		assert.True(t, g.Has(e.B), "missing endpoint %s", e.B)
	}
}

func TestNeighborsSymmetric(t *testing.T) {
	g := Build()
	for _, e := range g.Edges() {
		fromA, err := g.Neighbors(e.A)
		require.NoError(t, err)
		fromB, err := g.Neighbors(e.B)
		require.NoError(t, err)

		assert.Contains(t, fromA, Neighbor{Name: e.B, Relation: e.Relation})
		assert.Contains(t, fromB, Neighbor{Name: e.A, Relation: e.Relation})
	}
}

func TestNeighbors(t *testing.T) {
	g := Build()

	got, err := g.Neighbors("Скрип")
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{
		{Name: "Тормозная система", Relation: "может быть на"},
		{Name: "Подвеска", Relation: "может быть на"},
	}, got)

	got, err = g.Neighbors("ТО-2 (40,000 км)")
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{
		{Name: "Тормозная система", Relation: "проверка"},
		{Name: "Колеса", Relation: "балансировка"},
		{Name: "Износ тормозных колодок", Relation: "решается в"},
		{Name: "Дисбаланс колес", Relation: "решается в"},
	}, got)

	_, err = g.Neighbors("Карбюратор")
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}

func TestNeighborsReturnsCopy(t *testing.T) {
	g := Build()
	got, err := g.Neighbors("Скрип")
	require.NoError(t, err)
	got[0].Relation = "changed"

	again, err := g.Neighbors("Скрип")
	require.NoError(t, err)
	assert.Equal(t, "может быть на", again[0].Relation)
}

func TestNode(t *testing.T) {
	g := Build()

	n, err := g.Node("Двигатель")
	require.NoError(t, err)
	assert.Equal(t, TypeComponent, n.Type)
	assert.Equal(t, Component{Name: "Двигатель", Description: "Основной силовой агрегат", Critical: true}, n.Detail)

	_, err = g.Node("двигатель")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNodesByType(t *testing.T) {
	g := Build()
	byType := g.NodesByType()

	require.Len(t, byType, 4)
	assert.Equal(t, []string{"Скрип", "Вибрация", "Стуки", "Запах горелого", "Слабый пуск двигателя"}, byType[TypeSymptom])
	assert.Equal(t, []string{
		"ТО-1 (10,000 км)", "ТО-2 (40,000 км)", "ТО-3 (70,000 км)", "ТО-4 (100,000 км)", "ТО-5 (Сезонное)",
	}, byType[TypeTask])
	assert.Equal(t, "Двигатель", byType[TypeComponent][0])
}

func TestNodesByTypeEmptyGraph(t *testing.T) {
	g := NewBuilder().Graph()
	byType := g.NodesByType()
	for _, typ := range EntityTypes {
		assert.NotNil(t, byType[typ])
		assert.Empty(t, byType[typ])
	}
	assert.Equal(t, 0, g.Stats().NodeCount)
}

func TestBuilder(t *testing.T) {
	tests := []struct {
		name    string
		build   func(b *Builder) error
		wantErr error
	}{
		{
			name: "duplicate node",
			build: func(b *Builder) error {
				_ = b.AddNode(Node{Name: "A", Type: TypeComponent})
				return b.AddNode(Node{Name: "A", Type: TypeSymptom})
			},
			wantErr: ErrDuplicateNode,
		},
		{
			name: "dangling edge",
			build: func(b *Builder) error {
				_ = b.AddNode(Node{Name: "A", Type: TypeComponent})
				return b.AddEdge("A", "B", "связана с")
			},
			wantErr: ErrNodeNotFound,
		},
		{
			name: "detail type mismatch",
			build: func(b *Builder) error {
				return b.AddNode(Node{Name: "A", Type: TypeTask, Detail: Symptom{Name: "A"}})
			},
			wantErr: ErrTypeMismatch,
		},
		{
			name: "valid",
			build: func(b *Builder) error {
				if err := b.AddNode(Node{Name: "A", Type: TypeComponent}); err != nil {
					return err
				}
				if err := b.AddNode(Node{Name: "B", Type: TypeSymptom}); err != nil {
					return err
				}
				return b.AddEdge("B", "A", "может быть на")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(NewBuilder())
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuilderRejectsUnknownType(t *testing.T) {
	err := NewBuilder().AddNode(Node{Name: "A", Type: "engine"})
	assert.Error(t, err)
}

func TestAddEdgeReplacesRelation(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode(Node{Name: "A", Type: TypeComponent}))
	require.NoError(t, b.AddNode(Node{Name: "B", Type: TypeProblem}))
	require.NoError(t, b.AddEdge("B", "A", "проблема в"))
	require.NoError(t, b.AddEdge("A", "B", "связана с"))

	g := b.Graph()
	assert.Equal(t, 1, g.Stats().EdgeCount)
	assert.Equal(t, []Edge{{A: "B", B: "A", Relation: "связана с"}}, g.Edges())

	nb, err := g.Neighbors("B")
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{Name: "A", Relation: "связана с"}}, nb)
}

func TestDefaultBuiltOnce(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Graph, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Default()
		}(i)
	}
	wg.Wait()

	for _, g := range got {
		assert.Same(t, got[0], g)
	}
}
