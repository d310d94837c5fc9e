package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portgraph/pkg/modelio"
	"github.com/matzehuels/portgraph/pkg/render"
)

// Render formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [model.json]",
		Short: "Render a model as a graph drawing",
		Long: `Render a model as a graph drawing.

The model's nodes and port wiring are laid out as a directed graph. Output
is Graphviz DOT text or an SVG rendered through the graphviz layout engine.
With --detailed, port names and sizes are included in the node labels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := modelio.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load model %s: %w", args[0], err)
			}

			dot := render.ToDOT(m, render.Options{Detailed: detailed})

			var data []byte
			switch format {
			case formatDOT:
				data = []byte(dot)
			case formatSVG:
				data, err = render.RenderSVG(dot)
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}

			if output == "" {
				output = defaultRenderOutput(args[0], format)
			}
			if output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Rendered %d nodes", m.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to input name, - for stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include port names and sizes in node labels")
	return cmd
}

// defaultRenderOutput derives an output path from the input file and format.
func defaultRenderOutput(input, format string) string {
	base := strings.TrimSuffix(input, ".json")
	return base + "." + format
}
