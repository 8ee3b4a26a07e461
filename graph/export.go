package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"usure/state"
)

// Write the graph in the Graphviz DOT format.
//
// Nodes in highlight are drawn in red. The root is drawn with a double border.
// Edges with several labels list all of them.
func WriteDOT[S state.State[S]](w io.Writer, g *Graph[S], highlight map[int]bool) error {
	out := strings.Builder{}
	out.WriteString("digraph states {\n")
	out.WriteString("\tnode [shape=box];\n")
	for id, s := range g.Nodes() {
		attrs := []string{"label=" + strconv.Quote(fmt.Sprint(s))}
		if g.IsRoot(id) {
			attrs = append(attrs, "peripheries=2")
		}
		if highlight[id] {
			attrs = append(attrs, "color=red", "fontcolor=red")
		}
		out.WriteString(fmt.Sprintf("\tn%d [%s];\n", id, strings.Join(attrs, ", ")))
	}
	for _, e := range g.Edges() {
		out.WriteString(fmt.Sprintf("\tn%d -> n%d [label=%s];\n", e.From, e.To, strconv.Quote(strings.Join(e.labels, "\n"))))
	}
	out.WriteString("}\n")
	_, err := io.WriteString(w, out.String())
	return err
}
