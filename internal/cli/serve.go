package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/chainring/internal/api"
	"github.com/matzehuels/chainring/pkg/snapshot"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve the solver over HTTP.

The parameter flags seed the published snapshot; POST /v1/params changes it.

Routes:
  GET  /healthz
  POST /v1/resolve    {"links": 22, "drive": "variable", "variable_length": 4.6}
  GET  /v1/snapshot
  POST /v1/params     {"field": "radius", "value": "43"}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr)
		},
	}

	paramFlags(cmd.Flags())
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr string) error {
	opts, err := c.loadOptions(cmd)
	if err != nil {
		return err
	}
	runner := c.newRunner()
	store := snapshot.NewStore(runner, opts)
	if snap := store.Current(); !snap.OK() {
		c.Logger.Warn("initial parameters do not resolve", "code", snap.Code, "err", snap.Error)
	}

	printInfo(c.out(cmd), "Serving on http://%s (ctrl+c to stop)", addr)
	return api.New(store, runner, c.Logger).ListenAndServe(cmd.Context(), addr)
}
