package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/cache"
)

// draftsCommand creates the draft management command.
func (c *CLI) draftsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage autosaved session drafts",
	}
	cmd.AddCommand(c.draftsPathCommand())
	cmd.AddCommand(c.draftsClearCommand())
	cmd.AddCommand(c.draftsDiscardCommand())
	return cmd
}

func (c *CLI) draftsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where drafts are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			switch cfg.Drafts.Backend {
			case cache.BackendRedis:
				fmt.Println("redis://" + cfg.Drafts.RedisAddr)
			case cache.BackendMongo:
				fmt.Printf("%s (%s.%s)\n", cfg.Drafts.MongoURI, cfg.Drafts.MongoDatabase, cfg.Drafts.MongoCollection)
			case cache.BackendNone:
				fmt.Println("drafts disabled")
			default:
				fmt.Println(cfg.Drafts.Dir)
			}
			return nil
		},
	}
}

func (c *CLI) draftsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all local drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := c.openDrafts(cmd.Context())
			if err != nil {
				return err
			}
			defer drafts.Close()

			fc, ok := cache.Unwrap(drafts).(*cache.FileCache)
			if !ok {
				printWarning("clear only supports the file backend; expire shared drafts with their TTL")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared drafts")
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) draftsDiscardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "discard <graph-id>",
		Short: "Delete the draft of one graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := c.newManager(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := m.DiscardDraft(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Discarded draft of %s", args[0])
			return nil
		},
	}
}
