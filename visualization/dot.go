// Package visualization renders the signal automaton as a Graphviz graph
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/samber/lo"

	"github.com/anggasct/rtsignal"
)

// DOTGenerator generates Graphviz DOT format representations of the automaton
type DOTGenerator struct {
	edges   []rtsignal.Edge
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowLabels         bool
	ShowPatterns       bool
	ShowDepartures     bool
	ClusterHyperstates bool
	RankDirection      string // "TB", "LR", "BT", "RL"
	NodeShape          string
	TransitionStyle    string
	DepartureStyle     string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowLabels:         true,
		ShowPatterns:       true,
		ShowDepartures:     true,
		ClusterHyperstates: true,
		RankDirection:      "TB",
		NodeShape:          "box",
		TransitionStyle:    "solid",
		DepartureStyle:     "dashed",
	}
}

// NewDOTGenerator creates a new DOT generator for the given edges, usually rtsignal.Graph()
func NewDOTGenerator(edges []rtsignal.Edge, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		edges:   edges,
		options: opts,
	}
}

// Generate creates a DOT representation of the automaton
func (g *DOTGenerator) Generate() (string, error) {
	if len(g.edges) == 0 {
		return "", fmt.Errorf("no transitions to render")
	}

	var dot strings.Builder

	dot.WriteString("digraph SignalAutomaton {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateStates(&dot)
	g.generateTransitions(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// states returns the states touched by an edge, in automaton order
func (g *DOTGenerator) states() []rtsignal.State {
	used := make(map[rtsignal.State]bool)
	for _, e := range g.edges {
		if !g.options.ShowDepartures && isDeparture(e) {
			continue
		}
		used[e.From] = true
		used[e.To] = true
	}
	return lo.Filter(rtsignal.AllStates(), func(s rtsignal.State, _ int) bool { return used[s] })
}

func (g *DOTGenerator) generateStates(dot *strings.Builder) {
	states := g.states()
	dot.WriteString("  // States\n")

	if !g.options.ClusterHyperstates {
		for _, s := range states {
			g.generateStateNode(dot, s, "  ")
		}
		dot.WriteString("\n")
		return
	}

	groups := lo.GroupBy(states, func(s rtsignal.State) rtsignal.Hyperstate { return s.Hyperstate() })
	for h := rtsignal.HyperIdle; h < rtsignal.HyperUnknown; h++ {
		members, ok := groups[h]
		if !ok {
			continue
		}
		dot.WriteString(fmt.Sprintf("  subgraph cluster_%s {\n", h))
		dot.WriteString(fmt.Sprintf("    label=\"%s\";\n", h))
		dot.WriteString("    style=rounded;\n")
		for _, s := range members {
			g.generateStateNode(dot, s, "    ")
		}
		dot.WriteString("  }\n")
	}
	dot.WriteString("\n")
}

// generateStateNode generates a DOT node for a single state
func (g *DOTGenerator) generateStateNode(dot *strings.Builder, s rtsignal.State, indent string) {
	label := s.String()
	if s == rtsignal.S0Idle {
		label += "\\n(initial)"
	}
	if g.options.ShowPatterns {
		label += fmt.Sprintf("\\n[%s]", s.Pattern())
	}

	dot.WriteString(fmt.Sprintf("%s\"%s\" [style=\"filled\" fillcolor=%s label=\"%s\"];\n",
		indent, s, fillColor(s), label))
}

func fillColor(s rtsignal.State) string {
	switch s.Hyperstate() {
	case rtsignal.HyperIdle:
		return "lightgreen"
	case rtsignal.HyperBlinking:
		return "lightyellow"
	case rtsignal.HyperDirectional:
		if s.IsCombined() {
			return "lavender"
		}
		return "lightblue"
	case rtsignal.HyperInhibit:
		return "lightcoral"
	default:
		return "white"
	}
}

// generateTransitions generates DOT edges for all transitions
func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")

	for _, e := range g.edges {
		style := g.options.TransitionStyle
		if isDeparture(e) {
			if !g.options.ShowDepartures {
				continue
			}
			style = g.options.DepartureStyle
		}

		attrs := []string{fmt.Sprintf("style=%s", style)}
		if g.options.ShowLabels && e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=\"%s\"", e.Label))
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [%s];\n", e.From, e.To, strings.Join(attrs, " ")))
	}
}

func isDeparture(e rtsignal.Edge) bool {
	return e.Label == "departure"
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator(edges []rtsignal.Edge, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(edges, options...),
	}
}

// Generate creates an SVG representation of the automaton
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}

// GenerateSVG creates an SVG representation of the automaton
func (g *DOTGenerator) GenerateSVG() (string, error) {
	svgGen := &SVGGenerator{dotGenerator: g}
	return svgGen.Generate()
}
