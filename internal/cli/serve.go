package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/zendapi/moxygen/internal/server"
)

// serveCommand creates the serve command, a local preview of the rendered
// documents. Nothing is written to disk.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		f    runFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Preview rendered documents in a browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, cfg, err := c.resolve(cmd, args, &f)
			if err != nil {
				return err
			}
			opts.Verify = true

			runner, err := c.newRunner(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			srv := server.New(runner, opts, c.Logger)
			if err := srv.Reload(ctx); err != nil {
				return err
			}

			printSuccess("Serving %d documents", len(srv.Documents()))
			printKeyValue("Address", StyleLink.Render(previewURL(addr)))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	f.addInputFlags(cmd)
	f.addFilterFlags(cmd)
	f.addOutputFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

// previewURL turns a listen address into a browsable URL.
func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr + "/"
	}
	return "http://" + addr + "/"
}
