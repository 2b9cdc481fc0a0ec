// Package filtergraph synthesizes the textual filter-graph program that
// drives the encoder: per-clip video/audio chains, concatenation, global
// fades, watermark overlay, and audio mixing, terminating in two fixed
// output pads.
//
// The graph is modeled as an append-only list of typed steps and serialized
// once at the end. The emitted grammar is the encoder's literal contract:
// semicolon-separated "[in]filter1,filter2[out]" clauses with unique pad
// labels.
package filtergraph

import "strings"

// Step is one serialized clause: zero or more input pads, a comma-joined
// filter chain, one or more output pads.
type Step struct {
	Inputs  []string
	Filters []string
	Outputs []string
}

// Graph is the ordered filter program under construction.
type Graph struct {
	steps []Step
}

// Add appends a raw step.
func (g *Graph) Add(s Step) {
	g.steps = append(g.steps, s)
}

// Chain appends a single-input, single-output step.
func (g *Graph) Chain(in, out string, filters ...string) {
	g.Add(Step{Inputs: []string{in}, Filters: filters, Outputs: []string{out}})
}

// Source appends a zero-input generator step (e.g. anullsrc).
func (g *Graph) Source(out string, filters ...string) {
	g.Add(Step{Filters: filters, Outputs: []string{out}})
}

// Merge appends a many-input, single-output step (concat, overlay, amix).
func (g *Graph) Merge(ins []string, out string, filters ...string) {
	g.Add(Step{Inputs: ins, Filters: filters, Outputs: []string{out}})
}

// Len returns the number of steps appended so far.
func (g *Graph) Len() int {
	return len(g.steps)
}

// String serializes the program in the encoder's filter_complex grammar.
// Token layout per clause: "[in1][in2]f1,f2[out1][out2]"; clauses joined
// by ";". The encoder parses this literally, so no whitespace is emitted.
func (g *Graph) String() string {
	var b strings.Builder
	for i, s := range g.steps {
		if i > 0 {
			b.WriteByte(';')
		}
		for _, in := range s.Inputs {
			b.WriteByte('[')
			b.WriteString(in)
			b.WriteByte(']')
		}
		b.WriteString(strings.Join(s.Filters, ","))
		for _, out := range s.Outputs {
			b.WriteByte('[')
			b.WriteString(out)
			b.WriteByte(']')
		}
	}
	return b.String()
}
