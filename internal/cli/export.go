package cli

import (
	"github.com/spf13/cobra"

	"github.com/zendapi/moxygen/pkg/buildinfo"
	errs "github.com/zendapi/moxygen/pkg/errors"
	mio "github.com/zendapi/moxygen/pkg/io"
	"github.com/zendapi/moxygen/pkg/pipeline"
)

const defaultRecordsFile = "records.json"

// exportCommand creates the export command, which writes the normalized
// records of a doxygen XML directory as JSON. The file can be rendered
// later with render --records.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		f      runFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Export normalized records as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, cfg, err := c.resolve(cmd, args, &f)
			if err != nil {
				return err
			}
			opts.Records = ""

			runner, err := c.newRunner(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			prog := newProgress(c.Logger)
			loaded, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			if err := mio.ExportJSON(loaded.Records, output, mio.WithGenerator(buildinfo.Generator())); err != nil {
				return errs.Wrap(errs.ErrCodeIO, err, "export records")
			}
			prog.done("Exported records", "records", loaded.Records.Len())

			printSuccess("Exported %d records", loaded.Records.Len())
			printFile(output)
			if n := len(loaded.Errors); n > 0 {
				printWarning("%d compound files could not be read", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultRecordsFile, "output JSON file")
	cmd.Flags().StringVarP(&f.language, "language", "l", pipeline.DefaultLanguage, "programming language for code blocks")
	cmd.Flags().BoolVarP(&f.anchors, "anchors", "a", true, "emit HTML anchors in descriptions")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the record cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reload records even when cached")

	return cmd
}
