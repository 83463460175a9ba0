package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noDrafts bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve editing sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			m, closeFn, err := c.newManager(ctx, !noDrafts)
			if err != nil {
				return err
			}
			defer closeFn()

			printInfo("Serving sessions on %s (backend %s)", StyleValue.Render(addr), cfg.Backend.URL)
			err = server.New(m, c.Logger).Run(ctx, addr)
			if errors.Is(err, context.Canceled) {
				printInfo("Stopped")
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noDrafts, "no-drafts", false, "disable draft autosave")
	return cmd
}
