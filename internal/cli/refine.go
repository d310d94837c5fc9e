package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portgraph/pkg/modelio"
	"github.com/matzehuels/portgraph/pkg/nodes"
	"github.com/matzehuels/portgraph/pkg/observability"
)

// refineCommand creates the refine command.
func (c *CLI) refineCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "refine [model.json]",
		Short: "Copy a model, dropping nodes that feed no output",
		Long: `Copy a model, dropping nodes that feed no output.

Refining rebuilds the model through a port-mapped copy. Nodes whose results
never reach an output node are omitted; everything else is rewired onto the
surviving copies. A model without output nodes is copied unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := modelio.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load model %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			start := time.Now()
			observability.Model().OnTransformStart(ctx, m.Len())
			refined, err := nodes.Refine(m)
			outCount := 0
			if refined != nil {
				outCount = refined.Len()
			}
			observability.Model().OnTransformComplete(ctx, m.Len(), outCount, time.Since(start), err)
			if err != nil {
				return fmt.Errorf("refine: %w", err)
			}

			if output == "" {
				output = args[0]
			}
			if err := modelio.WriteFile(refined, output); err != nil {
				return fmt.Errorf("write model %s: %w", output, err)
			}

			dropped := m.Len() - refined.Len()
			if dropped > 0 {
				printSuccess("Refined model: dropped %d of %d nodes", dropped, m.Len())
			} else {
				printSuccess("Refined model: all %d nodes kept", m.Len())
			}
			printFile(output)
			printNextStep("Run it", "portgraph compute "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to overwriting the input)")
	return cmd
}
