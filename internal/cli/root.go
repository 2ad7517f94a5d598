package cli

import (
	"github.com/spf13/cobra"

	"github.com/zendapi/moxygen/pkg/buildinfo"
	"github.com/zendapi/moxygen/pkg/config"
	errs "github.com/zendapi/moxygen/pkg/errors"
	"github.com/zendapi/moxygen/pkg/pipeline"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Moxygen converts doxygen XML into Markdown",
		Long: `Moxygen converts the XML output of doxygen into Markdown documents,
either one document for the whole API or one document per doxygen group.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./moxygen.toml or ./moxygen.yaml if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the first config file found in
// the working directory, over the built-in defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		found, ok := config.Find(".")
		if !ok {
			return config.Default(), nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, errs.Wrap(errs.ErrCodeConfiguration, err, "load config")
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// =============================================================================
// Run Flags
// =============================================================================

// runFlags holds the flags shared by commands that run the pipeline. Each
// flag overrides the config file only when given on the command line.
type runFlags struct {
	records     string
	language    string
	anchors     bool
	noCache     bool
	refresh     bool
	members     []string
	compounds   []string
	output      string
	groups      bool
	noIndex     bool
	templates   string
	frontMatter bool
	concurrency int
	verify      bool
}

func (f *runFlags) addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.records, "records", "", "read records from a JSON file instead of doxygen XML")
	cmd.Flags().StringVarP(&f.language, "language", "l", pipeline.DefaultLanguage, "programming language for code blocks and templates")
	cmd.Flags().BoolVarP(&f.anchors, "anchors", "a", true, "emit HTML anchors")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the record cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reload records even when cached")
}

func (f *runFlags) addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.members, "members", nil, "member kinds to include (comma-separated)")
	cmd.Flags().StringSliceVar(&f.compounds, "compounds", nil, "compound kinds to include (comma-separated)")
}

func (f *runFlags) addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file, or pattern with %s in group mode")
	cmd.Flags().BoolVarP(&f.groups, "groups", "g", false, "write one document per group")
	cmd.Flags().BoolVarP(&f.noIndex, "noindex", "n", false, "omit the index entry")
	cmd.Flags().StringVarP(&f.templates, "templates", "t", "", "custom templates directory")
	cmd.Flags().BoolVar(&f.frontMatter, "frontmatter", false, "prepend YAML front matter")
	cmd.Flags().IntVarP(&f.concurrency, "concurrency", "j", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "report links to missing anchors")
}

// resolve layers config file and command-line flags into run options. The
// optional positional argument is the doxygen XML directory.
func (c *CLI) resolve(cmd *cobra.Command, args []string, f *runFlags) (pipeline.Options, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, config.Config{}, err
	}
	opts := pipeline.FromConfig(cfg)

	flags := cmd.Flags()
	changed := func(name string) bool {
		fl := flags.Lookup(name)
		return fl != nil && fl.Changed
	}

	if len(args) > 0 {
		opts.Directory = args[0]
	}
	if changed("records") {
		opts.Records = f.records
		if len(args) == 0 {
			opts.Directory = ""
		}
	}
	if changed("language") {
		opts.Language = f.language
	}
	if changed("anchors") {
		opts.Anchors = f.anchors
	}
	if changed("refresh") {
		opts.Refresh = f.refresh
	}
	if changed("members") {
		opts.Members = f.members
	}
	if changed("compounds") {
		opts.Compounds = f.compounds
	}
	if changed("output") {
		opts.Output = f.output
	}
	if changed("groups") {
		opts.Groups = f.groups
	}
	if changed("noindex") {
		opts.NoIndex = f.noIndex
	}
	if changed("templates") {
		opts.Templates = f.templates
	}
	if changed("frontmatter") {
		opts.FrontMatter = f.frontMatter
	}
	if changed("concurrency") {
		opts.Concurrency = f.concurrency
	}
	if changed("verify") {
		opts.Verify = f.verify
	}

	if f.noCache {
		cfg.Cache.Enabled = false
	}

	opts.Logger = c.Logger
	return opts, cfg, nil
}
