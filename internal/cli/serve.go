package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hardref/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		registry string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scans over HTTP",
		Long: `Run the HTTP API. Clients post a snapshot and a Blueprint name to
/v1/scan and receive the scan result as JSON, text, DOT or SVG.

With the mongo registry source, package dependencies and sizes come from
MongoDB and the posted snapshot only needs to carry the Blueprints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr == "" {
				addr = cfg.Addr
			}

			reg, closeReg, err := c.openRegistry(ctx, registry)
			if err != nil {
				return err
			}
			defer closeReg()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printKeyValue("Address", addr)
			printKeyValue("Cache", c.Config.Cache.Backend)
			source := registry
			if source == "" {
				source = c.Config.Registry.Source
			}
			printKeyValue("Registry", source)

			srv := server.New(runner, server.Options{
				Registry:     reg,
				ScanTimeout:  cfg.ScanTimeout,
				MaxBodyBytes: cfg.MaxBodyBytes,
				Logger:       c.Logger,
			})
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&registry, "registry", "", "package source: snapshot or mongo (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
