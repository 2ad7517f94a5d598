package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zendapi/moxygen/pkg/config"
	errs "github.com/zendapi/moxygen/pkg/errors"
	"github.com/zendapi/moxygen/pkg/pipeline"
)

// renderCommand creates the render command, the main conversion.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		f    runFlags
		pick bool
	)

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Convert doxygen XML to Markdown",
		Long: `Convert doxygen XML to Markdown.

The directory defaults to the "directory" key of the config file. With
--groups, one document is written per doxygen group and the output must
contain %s, which is replaced by the group name.`,
		Example: `  moxygen render build/xml
  moxygen render build/xml -g -o docs/api_%s.md
  moxygen render --records records.json --members func,define`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := c.resolve(cmd, args, &f)
			if err != nil {
				return err
			}
			if pick && !opts.Groups {
				return errs.New(errs.ErrCodeConfiguration, "--pick requires --groups")
			}
			return c.runRender(cmd.Context(), opts, cfg, pick)
		},
	}

	f.addInputFlags(cmd)
	f.addFilterFlags(cmd)
	f.addOutputFlags(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the group documents to write interactively")

	return cmd
}

// runRender runs the pipeline in memory, optionally lets the user choose
// group documents, and writes them.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, cfg config.Config, pick bool) error {
	runner, err := c.newRunner(ctx, cfg.Cache, false)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering documents...")
	spinner.Start()
	result, err := runner.Run(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	outputs := result.Outputs
	if pick {
		outputs, err = pickOutputs(outputs)
		if err != nil {
			return err
		}
		if len(outputs) == 0 {
			printInfo("No documents selected")
			return nil
		}
	}

	if err := runner.Write(outputs); err != nil {
		return err
	}
	prog.done("Rendered documents", "documents", len(outputs))

	printSuccess("Rendered %d of %d documents", len(outputs), len(result.Outputs))
	printStats(result.Stats, result.CacheHit)
	for _, out := range outputs {
		printFile(out.Path)
	}
	printDiagnostics(result, outputs)
	return nil
}

// printDiagnostics summarizes recoverable problems of a run.
func printDiagnostics(result *pipeline.Result, outputs []pipeline.Output) {
	if n := len(result.LoadErrors); n > 0 {
		printWarning("%d compound files could not be read", n)
	}
	if n := len(result.Warnings); n > 0 {
		printWarning("%d unresolved references", n)
	}
	problems := 0
	for _, out := range outputs {
		problems += len(out.Problems)
	}
	if problems > 0 {
		printWarning("%d links point to missing anchors", problems)
	}
}
