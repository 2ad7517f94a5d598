package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zendapi/moxygen/pkg/doctree"
	errs "github.com/zendapi/moxygen/pkg/errors"
	"github.com/zendapi/moxygen/pkg/render/nodelink"
)

const defaultGraphFile = "tree.svg"

// graphCommand creates the graph command, which draws the filtered
// documentation hierarchy as SVG or DOT.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		f        runFlags
		output   string
		group    string
		detailed bool
		members  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Draw the documentation hierarchy",
		Long: `Draw the filtered documentation hierarchy with Graphviz.

The format follows the output extension: .svg renders the diagram, .dot
writes the Graphviz source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format := strings.TrimPrefix(filepath.Ext(output), ".")
			if format != "svg" && format != "dot" {
				return errs.New(errs.ErrCodeInvalidFormat, "unsupported graph format %q (want .svg or .dot)", filepath.Ext(output))
			}

			opts, cfg, err := c.resolve(cmd, args, &f)
			if err != nil {
				return err
			}
			opts.ValidateFilters()

			runner, err := c.newRunner(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			loaded, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			tree, err := runner.Build(ctx, loaded.Records)
			if err != nil {
				return err
			}

			filter := opts.Filter()
			if group != "" {
				id, ok := findGroup(tree, group)
				if !ok {
					return errs.New(errs.ErrCodeNotFound, "group %s not found", group)
				}
				filter = filter.WithScope(id)
			}
			view := filter.Apply(tree)
			dot := nodelink.ToDOT(view, nodelink.Options{Detailed: detailed, Members: members})

			data := []byte(dot)
			if format == "svg" {
				spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
				spinner.Start()
				data, err = nodelink.RenderSVG(ctx, dot)
				spinner.Stop()
				if err != nil {
					return errs.Wrap(errs.ErrCodeInternal, err, "render diagram")
				}
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errs.Wrap(errs.ErrCodeIO, err, "write %s", output)
			}
			printSuccess("Drew %d entries", view.Len())
			printFile(output)
			return nil
		},
	}

	f.addInputFlags(cmd)
	f.addFilterFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", defaultGraphFile, "output file (.svg or .dot)")
	cmd.Flags().StringVar(&group, "group", "", "draw only the named group")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show kinds and brief descriptions")
	cmd.Flags().BoolVar(&members, "show-members", false, "include members, not only compounds")

	return cmd
}

// findGroup returns the ID of the group with the given name.
func findGroup(tree *doctree.Tree, name string) (string, bool) {
	for _, g := range tree.Groups() {
		if g.Name() == name {
			return g.ID(), true
		}
	}
	return "", false
}
