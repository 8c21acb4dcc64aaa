// Package resolver maps free-text input to ranked knowledge graph nodes and
// their immediate relational context.
package resolver

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nakamasato/cardiag/internal/format"
	"github.com/nakamasato/cardiag/internal/graph"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// Match rule weights. A (token, node) pair may satisfy several rules and
// collects all of their weights.
const (
	WeightExact     = 10
	WeightPrefix    = 5
	WeightSubstring = 2
)

var greetings = []string{"привет", "здравствуй", "hello"}

var helpPhrases = map[string]bool{
	"помощь": true,
	"help":   true,
	"/help":  true,
	"/start": true,
	"?":      true,
}

// Kind classifies a response.
type Kind string

const (
	KindEmpty    Kind = "empty"
	KindGreeting Kind = "greeting"
	KindHelp     Kind = "help"
	KindNoMatch  Kind = "no_match"
	KindMatches  Kind = "matches"
)

// Related is a neighbor of a matched node.
type Related struct {
	Name        string           `json:"name"`
	Type        graph.EntityType `json:"type"`
	Relation    string           `json:"relation"`
	Description string           `json:"description"`
}

// Match is a scored node with its full first-degree neighborhood.
type Match struct {
	Name        string           `json:"node_name"`
	Type        graph.EntityType `json:"entity_type"`
	Description string           `json:"description"`
	Score       int              `json:"score"`
	Related     []Related        `json:"related"`
}

// Response is the result of resolving one piece of input.
type Response struct {
	Query   string  `json:"query"`
	Kind    Kind    `json:"kind"`
	Matches []Match `json:"matches"`
}

// Scored is a node name with its accumulated score.
type Scored struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Resolver answers queries against a read-only graph. It keeps no state
// between calls and is safe for concurrent use.
type Resolver struct {
	graph *graph.Graph
	limit int
	log   *zap.Logger
}

type Option func(*Resolver)

// WithLimit caps the number of matches returned. Zero means no limit.
func WithLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.limit = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.log = logger
		}
	}
}

// New creates a resolver over g. A nil graph is allowed; every query then
// resolves to KindEmpty.
func New(g *graph.Graph, opts ...Option) *Resolver {
	r := &Resolver{graph: g, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("resolver")
	return r
}

// Resolve scores every node against the tokens of text and returns the
// matches ordered by descending score. Equal scores keep first-seen order:
// token order first, then node insertion order.
func (r *Resolver) Resolve(text string) Response {
	normalized := Normalize(text)
	resp := Response{Query: text, Matches: []Match{}}

	switch {
	case normalized == "" || r.graph == nil:
		resp.Kind = KindEmpty
		return resp
	case isGreeting(normalized):
		resp.Kind = KindGreeting
		return resp
	case helpPhrases[normalized]:
		resp.Kind = KindHelp
		return resp
	}

	tokens := Tokenize(normalized)
	if len(tokens) == 0 {
		resp.Kind = KindEmpty
		return resp
	}

	scored := Score(tokens, r.graph.Names())
	if len(scored) == 0 {
		r.log.Debug("No match", zap.Strings("tokens", tokens))
		resp.Kind = KindNoMatch
		return resp
	}

	if r.limit > 0 && len(scored) > r.limit {
		scored = scored[:r.limit]
	}

	resp.Kind = KindMatches
	for _, s := range scored {
		m, err := r.match(s.Name)
		if err != nil {
			// Names come from the graph itself.
			r.log.Error("Scored node vanished", zap.String("name", s.Name), zap.Error(err))
			continue
		}
		m.Score = s.Score
		resp.Matches = append(resp.Matches, m)
	}
	r.log.Debug("Resolved query",
		zap.Strings("tokens", tokens),
		zap.Int("matches", len(resp.Matches)),
	)
	return resp
}

// Related returns a node and its neighbors. The error wraps
// graph.ErrNodeNotFound when name is not in the graph.
func (r *Resolver) Related(name string) (Match, error) {
	if r.graph == nil {
		return Match{}, graph.ErrNodeNotFound
	}
	return r.match(name)
}

// NodesByType lists node names per entity type.
func (r *Resolver) NodesByType() map[graph.EntityType][]string {
	if r.graph == nil {
		return graph.NewBuilder().Graph().NodesByType()
	}
	return r.graph.NodesByType()
}

// Stats returns graph counts.
func (r *Resolver) Stats() graph.Stats {
	if r.graph == nil {
		return graph.NewBuilder().Graph().Stats()
	}
	return r.graph.Stats()
}

func (r *Resolver) match(name string) (Match, error) {
	node, err := r.graph.Node(name)
	if err != nil {
		return Match{}, err
	}
	neighbors, err := r.graph.Neighbors(name)
	if err != nil {
		return Match{}, err
	}

	m := Match{
		Name:        node.Name,
		Type:        node.Type,
		Description: format.Describe(node),
		Related:     make([]Related, 0, len(neighbors)),
	}
	for _, nb := range neighbors {
		other, err := r.graph.Node(nb.Name)
		if err != nil {
			return Match{}, err
		}
		m.Related = append(m.Related, Related{
			Name:        nb.Name,
			Type:        other.Type,
			Relation:    nb.Relation,
			Description: format.Describe(other),
		})
	}
	return m, nil
}

// Normalize lower-cases and trims input.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokenize splits text on whitespace and commas and drops tokens of a single
// character. It does not change case.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Score accumulates match weights per name for every token. Matching is
// case-insensitive. The result is sorted by descending score; equal scores
// keep the order in which names first scored.
func Score(tokens, names []string) []Scored {
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	scores := orderedmap.New[string, int]()
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		for i, name := range names {
			w := weight(tok, lowered[i])
			if w == 0 {
				continue
			}
			prev, _ := scores.Get(name)
			scores.Set(name, prev+w)
		}
	}

	out := make([]Scored, 0, scores.Len())
	for pair := scores.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Scored{Name: pair.Key, Score: pair.Value})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func weight(token, name string) int {
	w := 0
	if token == name {
		w += WeightExact
	}
	if strings.HasPrefix(name, token) {
		w += WeightPrefix
	}
	if strings.Contains(name, token) {
		w += WeightSubstring
	}
	return w
}

func isGreeting(normalized string) bool {
	for _, g := range greetings {
		if strings.Contains(normalized, g) {
			return true
		}
	}
	return false
}
