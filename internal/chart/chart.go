// Package chart draws randomized business charts for "describe this chart"
// interview practice.
package chart

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// Kind is a chart type.
type Kind string

const (
	Bar     Kind = "bar"
	Line    Kind = "line"
	Pie     Kind = "pie"
	Scatter Kind = "scatter"
)

// ErrUnknownKind is returned for a Kind outside Kinds.
var ErrUnknownKind = errors.New("unknown chart kind")

// Kinds lists every chart type in draw order.
var Kinds = []Kind{Bar, Line, Pie, Scatter}

// Source is the randomness a Generator draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
}

// Data is the synthesized content of one chart.
type Data struct {
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Labels []string  `json:"labels,omitempty"` // bar categories, pie slices
	X      []float64 `json:"x,omitempty"`      // line and scatter x values
	Values []float64 `json:"values"`           // bar heights, pie sizes, y values
}

// Percentages returns each value's share of the total, summing to 100.
func (d Data) Percentages() []float64 {
	var total float64
	for _, v := range d.Values {
		total += v
	}
	out := make([]float64, len(d.Values))
	if total == 0 {
		return out
	}
	for i, v := range d.Values {
		out[i] = v / total * 100
	}
	return out
}

// Describe renders the plotted values as a plain-text table.
func (d Data) Describe() string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteString("\n")

	switch d.Kind {
	case Bar:
		for i, l := range d.Labels {
			fmt.Fprintf(&b, "  %-10s %5.0f  %s\n", l, d.Values[i], strings.Repeat("#", int(d.Values[i]/5)))
		}
	case Pie:
		pct := d.Percentages()
		for i, l := range d.Labels {
			fmt.Fprintf(&b, "  %-10s %5.0f  %5.1f%%\n", l, d.Values[i], pct[i])
		}
	case Line, Scatter:
		fmt.Fprintf(&b, "  %-18s  %s\n", d.XLabel, d.YLabel)
		for i := range d.X {
			fmt.Fprintf(&b, "  %-18.0f  %.0f\n", d.X[i], d.Values[i])
		}
	}
	return b.String()
}

// Result is one generated chart. Image holds PNG bytes and is never
// written to disk.
type Result struct {
	Kind    Kind   `json:"kind"`
	Caption string `json:"caption"`
	Data    Data   `json:"data"`
	Image   []byte `json:"-"`
}

// Caption returns the prompt shown under a chart of kind k.
func Caption(k Kind) string {
	return fmt.Sprintf("Describe this %s chart.", k)
}

// Generator draws random charts. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	src Source
}

// New returns a Generator drawing from src.
func New(src Source) *Generator {
	return &Generator{src: src}
}

// NewSeeded returns a Generator with a reproducible sequence.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewRandom returns a Generator seeded from the runtime's entropy.
func NewRandom() *Generator {
	return New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// ParseKind maps a name such as "pie" to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of bar, line, pie, scatter)", ErrUnknownKind, s)
}

// Generate picks a kind uniformly, synthesizes its data and renders it.
func (g *Generator) Generate() (*Result, error) {
	g.mu.Lock()
	kind := g.pick()
	g.mu.Unlock()
	return g.GenerateKind(kind)
}

// GenerateKind synthesizes and renders a chart of the given kind.
func (g *Generator) GenerateKind(kind Kind) (*Result, error) {
	data, err := g.Synthesize(kind)
	if err != nil {
		return nil, err
	}

	img, err := Render(data)
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", kind, err)
	}
	return &Result{Kind: kind, Caption: Caption(kind), Data: data, Image: img}, nil
}

// Pick returns a uniformly chosen kind.
func (g *Generator) Pick() Kind {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pick()
}

// Synthesize draws fresh data for kind. Nothing is drawn for an unknown
// kind.
func (g *Generator) Synthesize(kind Kind) (Data, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.synthesize(kind)
}

func (g *Generator) pick() Kind {
	return Kinds[g.src.IntN(len(Kinds))]
}

// between returns a uniform int in [lo, hi).
func (g *Generator) between(lo, hi int) float64 {
	return float64(lo + g.src.IntN(hi-lo))
}

func (g *Generator) synthesize(kind Kind) (Data, error) {
	switch kind {
	case Bar:
		d := Data{Kind: Bar, Title: "Sale Data for Categories", Labels: []string{"A", "B", "C", "D"}}
		for range d.Labels {
			d.Values = append(d.Values, g.between(10, 100))
		}
		return d, nil

	case Line:
		d := Data{Kind: Line, Title: "Revenue over 10 months", XLabel: "Month", YLabel: "Revenue ($1000s)"}
		for m := 1; m <= 10; m++ {
			d.X = append(d.X, float64(m))
			d.Values = append(d.Values, g.between(10, 100))
		}
		return d, nil

	case Pie:
		d := Data{Kind: Pie, Title: "Market Share Distribution", Labels: []string{"Product A", "Product B", "Product C"}}
		for range d.Labels {
			d.Values = append(d.Values, g.between(10, 50))
		}
		return d, nil

	case Scatter:
		d := Data{Kind: Scatter, Title: "Customer Satisfaction vs. Revenue", XLabel: "Satisfaction Score", YLabel: "Revenue ($1000s)"}
		for range 20 {
			d.X = append(d.X, g.between(10, 100))
			d.Values = append(d.Values, g.between(10, 100))
		}
		return d, nil
	}
	return Data{}, fmt.Errorf("%w %q", ErrUnknownKind, kind)
}
