package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portgraph/pkg/model"
	"github.com/matzehuels/portgraph/pkg/modelio"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [model.json]",
		Short: "Show the nodes and wiring of a model file",
		Long: `Show the nodes and wiring of a model file.

Each node is listed in dependency order with its type, the ports it reads
from, and the size of each output port.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := modelio.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load model %s: %w", args[0], err)
			}
			printModel(m)
			// Inspect still shows broken models, so validation problems
			// are reported instead of aborting.
			if err := m.Validate(); err != nil {
				printError("Validation failed: %v", err)
			}
			return nil
		},
	}
}

// printModel prints one line per node plus summary statistics.
func printModel(m *model.Model) {
	edges := 0
	fmt.Println(StyleTitle.Render("Nodes"))
	for _, n := range m.Nodes() {
		fmt.Printf("  %s  %s\n",
			StyleNumber.Render(fmt.Sprintf("%4d", n.ID())),
			StyleValue.Render(n.RuntimeTypeName()))

		for _, in := range n.Inputs() {
			src := in.Source()
			printDetail("%s %s %d.%s", in.Name(), iconArrow, src.Node, src.Port)
			edges++
		}
		for _, out := range n.Outputs() {
			printDetail("%s[%d] %s", out.Name(), out.Size(), out.ElementType())
		}
	}
	printStats(m.Len(), edges)
}

// describeOutputs formats computed output values for display.
func describeOutputs(n model.Node) string {
	var parts []string
	for _, out := range n.Outputs() {
		parts = append(parts, fmt.Sprintf("%s=%v", out.Name(), out.Raw()))
	}
	return strings.Join(parts, " ")
}
