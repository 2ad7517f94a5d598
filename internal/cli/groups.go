package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zendapi/moxygen/pkg/config"
	"github.com/zendapi/moxygen/pkg/doctree"
	errs "github.com/zendapi/moxygen/pkg/errors"
	"github.com/zendapi/moxygen/pkg/pipeline"
)

// groupsCommand creates the groups command, which lists doxygen groups and
// the documents group mode would write for them.
func (c *CLI) groupsCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "groups [dir]",
		Short: "List doxygen groups",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := c.resolve(cmd, args, &f)
			if err != nil {
				return err
			}
			return c.runGroups(cmd.Context(), opts, cfg)
		},
	}

	f.addInputFlags(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output pattern used to show document paths")

	return cmd
}

func (c *CLI) runGroups(ctx context.Context, opts pipeline.Options, cfg config.Config) error {
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

	groups := tree.Groups()
	if len(groups) == 0 {
		printWarning("No groups found")
		return nil
	}

	// A single-document output previews with the per-group default.
	opts.Groups = true
	if !strings.Contains(opts.Output, errs.GroupPlaceholder) {
		opts.Output = ""
	}
	if err := opts.ValidateOutput(); err != nil {
		return err
	}

	fmt.Println(groupTable(tree, groups, &opts))
	printNextStep("Write one document per group", fmt.Sprintf("%s render -g -o %q", appName, opts.Output))
	return nil
}

// groupTable renders groups as a table of name, title, direct member count
// and output path.
func groupTable(tree *doctree.Tree, groups []*doctree.Node, opts *pipeline.Options) string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Name(),
			g.Payload().Title,
			strconv.Itoa(len(tree.MembersOf(g.ID()))),
			opts.GroupPath(g.Name()),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Group", "Title", "Members", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return StyleNumber
			case col == 3:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
