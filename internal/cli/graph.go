package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/backend"
	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
	pkgio "github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/session"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// writeSession exports a session's graph into dir and prints the result.
func writeSession(sess *session.Session, dir string) error {
	art, err := sess.Export()
	if err != nil {
		return err
	}
	path, err := art.WriteTo(dir)
	if err != nil {
		return err
	}
	var vertices, edges int
	sess.View(func(st *store.Store) { vertices, edges = st.VertexCount(), st.EdgeCount() })
	printStats(vertices, edges)
	printFile(path)
	return nil
}

// =============================================================================
// new
// =============================================================================

// newCommand creates a graph file: empty, seeded locally, or generated by the
// backend.
func (c *CLI) newCommand() *cobra.Command {
	var (
		dir         string
		local       int
		probability float64
		req         backend.GenerateRequest
	)
	cmd := &cobra.Command{
		Use:   "new [graph-id]",
		Short: "Create a new graph file",
		Long: `Create a new graph file named {graph-id}.json.

Without flags the graph is empty. --local seeds N random vertices and edges
without contacting the backend; --random asks the backend to generate a graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id string
			if len(args) == 1 {
				id = args[0]
			}

			m, closeFn, err := c.newManager(ctx, false)
			if err != nil {
				return err
			}
			defer closeFn()

			var sess *session.Session
			switch {
			case req.NodesNumber > 0:
				if cmd.Flags().Changed("probability") {
					req.Probability = &probability
				}
				req = req.WithDefaults()
				if err := req.Validate(); err != nil {
					return err
				}
				err = spin(ctx, "Generating graph", func() error {
					var err error
					sess, _, err = m.Generate(ctx, id, req)
					return err
				})
			case local > 0:
				if id == "" {
					return fgerrors.New(fgerrors.ErrCodeInvalidInput, "a graph id is required with --local")
				}
				sess, err = m.Seed(id, local, nil)
			default:
				if id == "" {
					return fgerrors.New(fgerrors.ErrCodeInvalidInput, "a graph id is required")
				}
				sess, err = m.Create(id)
			}
			if err != nil {
				return err
			}

			printSuccess("Created %s", StyleValue.Render(sess.GraphID()))
			if err := writeSession(sess, dir); err != nil {
				return err
			}
			printNextStep("Upload it with", fmt.Sprintf("%s push %s", appName, pkgio.Filename(sess.GraphID())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().IntVar(&local, "local", 0, "seed N random vertices and edges locally")
	cmd.Flags().IntVar(&req.NodesNumber, "random", 0, "generate a random graph of N nodes on the backend")
	cmd.Flags().StringVar(&req.GraphType, "type", "", "random graph family: bipartite, tripartite")
	cmd.Flags().StringVar(&req.Direction, "direction", "", "random graph direction: directed, undirected (default)")
	cmd.Flags().BoolVar(&req.Weighted, "weighted", false, "random edges carry weights")
	cmd.Flags().BoolVar(&req.Connected, "connected", false, "random graph is connected")
	cmd.Flags().BoolVar(&req.Complete, "complete", false, "random graph is complete")
	cmd.Flags().Float64Var(&probability, "probability", backend.DefaultProbability, "random edge probability in [0, 1]")
	cmd.Flags().IntVar(&req.Degree, "degree", 0, "random vertex degree (default 2)")
	return cmd
}

// =============================================================================
// open
// =============================================================================

func (c *CLI) openCommand() *cobra.Command {
	var (
		dir    string
		resume bool
	)
	cmd := &cobra.Command{
		Use:   "open <graph-id>",
		Short: "Fetch a graph from the backend into {graph-id}.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			m, closeFn, err := c.newManager(ctx, resume)
			if err != nil {
				return err
			}
			defer closeFn()

			if resume {
				sess, ok, err := m.Resume(ctx, id)
				if err != nil {
					return err
				}
				if ok {
					printSuccess("Resumed draft of %s", StyleValue.Render(id))
					return writeSession(sess, dir)
				}
				printInfo("No draft for %s, fetching", id)
			}

			var (
				sess *session.Session
				res  session.LoadResult
			)
			prog := newProgress(loggerFromContext(ctx))
			err = spin(ctx, "Fetching "+id, func() error {
				var err error
				sess, res, err = m.Open(ctx, id)
				return err
			})
			if err != nil {
				return err
			}
			if res.NotFound {
				printWarning("Graph %s not found on the backend", id)
				return nil
			}
			prog.done("Fetched " + id)
			if res.Collisions > 0 {
				printDetail("%d parallel edges received suffixed ids", res.Collisions)
			}
			return writeSession(sess, dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().BoolVar(&resume, "resume", false, "restore the autosaved draft if there is one")
	return cmd
}

// =============================================================================
// push
// =============================================================================

func (c *CLI) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file>",
		Short: "Upload a graph file to the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			p, err := graph.Parse(doc)
			if err != nil {
				return fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "%s", args[0])
			}
			if err := fgerrors.ValidateGraphID(p.Name); err != nil {
				return err
			}
			client, err := c.backendClient()
			if err != nil {
				return err
			}
			if err := spin(ctx, "Uploading "+p.Name, func() error { return client.SaveGraph(ctx, doc) }); err != nil {
				return err
			}
			printSuccess("Saved %s", StyleValue.Render(p.Name))
			printStats(len(p.Vertices), len(p.Edges))
			return nil
		},
	}
}

// =============================================================================
// check
// =============================================================================

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <graph-id>",
		Short: "Ask the backend whether a stored graph is bipartite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.backendClient()
			if err != nil {
				return err
			}
			var res backend.BipartiteResult
			err = spin(ctx, "Checking "+args[0], func() error {
				var err error
				res, err = client.CheckBipartite(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}
			if res.IsBipartite {
				printSuccess("%s is bipartite", args[0])
			} else {
				printWarning("%s is not bipartite", args[0])
			}
			if res.Reason != "" {
				printDetail("%s", res.Reason)
			}
			return nil
		},
	}
}

// =============================================================================
// strategy
// =============================================================================

func (c *CLI) strategyCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "strategy <name> <file>",
		Short: "Run a traversal strategy on a graph file",
		Long: `Run a backend traversal strategy on a graph file.

If the strategy returns a graph it replaces the file contents (or is written
to --output). A strategy error is printed as the backend reported it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := pkgio.ReadJSON(f)
			if err != nil {
				return err
			}

			m, closeFn, err := c.newManager(ctx, false)
			if err != nil {
				return err
			}
			defer closeFn()
			sess, err := m.Create(doc.Name())
			if err != nil {
				return err
			}
			p, err := graph.Parse(doc)
			if err != nil {
				return fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "%s", path)
			}
			_ = sess.Do(func(st *store.Store) error {
				st.ReplaceGraph(p)
				return nil
			})

			var res session.LoadResult
			err = spin(ctx, "Running "+name, func() error {
				var err error
				res, err = sess.RunStrategy(ctx, name)
				return err
			})
			if err != nil {
				if fgerrors.Is(err, fgerrors.ErrCodeStrategyFailed) {
					printError("Strategy %s: %s", name, fgerrors.UserMessage(err))
				}
				return err
			}
			if res.Vertices == 0 && res.Edges == 0 {
				printInfo("Strategy %s returned no graph", name)
				return nil
			}
			if output == "" {
				output = path
			}
			if err := pkgio.ExportJSON(sess.Snapshot(), output); err != nil {
				return err
			}
			printSuccess("Strategy %s applied", name)
			printStats(res.Vertices, res.Edges)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	return cmd
}
