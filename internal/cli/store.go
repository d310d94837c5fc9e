package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portgraph/pkg/modelio"
	"github.com/matzehuels/portgraph/pkg/observability"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage models in the configured store",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/portgraph/config.toml)")

	cmd.AddCommand(c.storePushCommand(&configPath))
	cmd.AddCommand(c.storePullCommand(&configPath))
	cmd.AddCommand(c.storeListCommand(&configPath))
	cmd.AddCommand(c.storeRemoveCommand(&configPath))

	return cmd
}

// storePushCommand creates the "store push" subcommand.
func (c *CLI) storePushCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "push [name] [model.json]",
		Short: "Store a model file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			// Parse before storing so the store never holds broken documents.
			m, err := modelio.ReadFile(path)
			if err != nil {
				return fmt.Errorf("load model %s: %w", path, err)
			}
			doc, err := modelio.Marshal(m)
			if err != nil {
				return fmt.Errorf("encode model: %w", err)
			}

			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Put(ctx, name, doc)
			if err != nil {
				return fmt.Errorf("store model %q: %w", name, err)
			}
			observability.Store().OnStorePut(ctx, cfg.Store.Backend, name, len(doc))

			printSuccess("Stored %q (%d nodes)", name, m.Len())
			printDetail("Snapshot: %s", snap.ID)
			printNextStep("Pull it back", "portgraph store pull "+name)
			return nil
		},
	}
}

// storePullCommand creates the "store pull" subcommand.
func (c *CLI) storePullCommand(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull [name]",
		Short: "Retrieve a stored model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Get(ctx, name)
			observability.Store().OnStoreGet(ctx, cfg.Store.Backend, name, err == nil)
			if err != nil {
				return err
			}

			if output == "" {
				output = name + ".json"
			}
			if output == "-" {
				_, err := os.Stdout.Write(snap.Model)
				return err
			}
			if err := os.WriteFile(output, snap.Model, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Pulled %q", name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <name>.json, - for stdout)")
	return cmd
}

// storeListCommand creates the "store list" subcommand.
func (c *CLI) storeListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			snaps, err := st.List(ctx)
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			if len(snaps) == 0 {
				printInfo("Store is empty")
				return nil
			}
			for _, snap := range snaps {
				printKeyValue(snap.Name, snap.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

// storeRemoveCommand creates the "store rm" subcommand.
func (c *CLI) storeRemoveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [name]",
		Short: "Remove a stored model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(ctx, name); err != nil {
				return err
			}
			observability.Store().OnStoreDelete(ctx, cfg.Store.Backend, name)

			printSuccess("Removed %q", name)
			return nil
		},
	}
}
