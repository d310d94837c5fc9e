package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portgraph/pkg/model"
	"github.com/matzehuels/portgraph/pkg/modelio"
	"github.com/matzehuels/portgraph/pkg/nodes"
	"github.com/matzehuels/portgraph/pkg/observability"
)

// computeCommand creates the compute command.
func (c *CLI) computeCommand() *cobra.Command {
	var inputs []string

	cmd := &cobra.Command{
		Use:   "compute [model.json]",
		Short: "Run a model and print its results",
		Long: `Run a model and print its results.

Input node values are supplied with --input as id=v1,v2,... pairs, where id
is the node ID shown by 'inspect'. Nodes are computed in dependency order
and every node's output values are printed afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := modelio.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load model %s: %w", args[0], err)
			}
			if m.Len() == 0 {
				printWarning("Model %s has no nodes", args[0])
				return nil
			}

			for _, spec := range inputs {
				if err := applyInput(m, spec); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			prog := newProgress(c.Logger)
			start := time.Now()
			observability.Model().OnComputeStart(ctx, m.Len())
			err = m.Compute()
			observability.Model().OnComputeComplete(ctx, m.Len(), time.Since(start), err)
			if err != nil {
				return fmt.Errorf("compute: %w", err)
			}
			prog.done(fmt.Sprintf("Computed %d nodes", m.Len()))

			for _, n := range m.Nodes() {
				fmt.Printf("  %s  %s  %s\n",
					StyleNumber.Render(fmt.Sprintf("%4d", n.ID())),
					StyleValue.Render(n.RuntimeTypeName()),
					StyleDim.Render(describeOutputs(n)))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "input node values as id=v1,v2,... (repeatable)")
	return cmd
}

// applyInput parses one id=v1,v2,... flag and sets the values on the
// referenced input node.
func applyInput(m *model.Model, spec string) error {
	id, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("input %q: expected id=v1,v2,...", spec)
	}
	var nodeID int64
	if _, err := fmt.Sscanf(id, "%d", &nodeID); err != nil {
		return fmt.Errorf("input %q: bad node ID %q", spec, id)
	}
	n, ok := m.Node(model.NodeID(nodeID))
	if !ok {
		return fmt.Errorf("input %q: no node with ID %d", spec, nodeID)
	}
	setter, ok := n.(nodes.TextSetter)
	if !ok {
		return fmt.Errorf("input %q: node %d (%s) does not accept values", spec, nodeID, n.RuntimeTypeName())
	}
	if err := setter.SetFromStrings(strings.Split(rest, ",")); err != nil {
		return fmt.Errorf("input %q: %w", spec, err)
	}
	return nil
}
