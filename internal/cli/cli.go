package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/chainring/pkg/buildinfo"
	apperrors "github.com/matzehuels/chainring/pkg/errors"
	"github.com/matzehuels/chainring/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chainring"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = "127.0.0.1:8080"
)

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Chainring solves the geometry of closed link rings",
		Long: `Chainring lays a closed ring of chain links on a circle.

Fix the radius (or inner diameter) and it derives the variable link that closes
the ring; fix the variable link and it finds the radius by bisection.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log solver detail")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (default: $XDG_CONFIG_HOME/chainring/chainring.toml if present)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/chainring/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// paramFlags registers the ring parameter flags shared by solve, layout,
// explore and serve.
func paramFlags(fs *pflag.FlagSet) {
	d := pipeline.DefaultOptions()
	fs.IntP("links", "n", d.Links, "total number of links (minimum 2)")
	fs.Float64P("radius", "r", d.Radius, "chain radius in mm (drives the variable link)")
	fs.Float64("diameter", d.InnerDiameter, "inner diameter in mm (drives the variable link)")
	fs.Float64("variable", d.VariableLength, "variable link length in mm (drives the radius)")
	fs.Float64("distinguished", d.DistinguishedLength, "distinguished link length in mm")
	fs.String("drive", d.Drive, "driving parameter: radius, diameter, variable")
	fs.Float64("tolerance", 0, "bisection tolerance in mm (0 = solver default)")
	fs.Int("max-iterations", 0, "bisection iteration cap (0 = solver default)")
}

// flagFields maps parameter flags to option fields.
var flagFields = map[string]string{
	"links":         pipeline.FieldLinks,
	"radius":        pipeline.FieldRadius,
	"diameter":      pipeline.FieldInnerDiameter,
	"variable":      pipeline.FieldVariable,
	"distinguished": pipeline.FieldDistinguished,
}

// loadOptions builds the options for a command: defaults, then the config
// file, then every flag the user set. A length flag makes its quantity the
// driving parameter; an explicit --drive wins over that.
func (c *CLI) loadOptions(cmd *cobra.Command) (pipeline.Options, error) {
	opts, err := c.loadConfig()
	if err != nil {
		return opts, err
	}

	var setErr error
	fs := cmd.Flags()
	fs.Visit(func(f *pflag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok || setErr != nil {
			return
		}
		setErr = opts.Set(field, f.Value.String())
	})
	if setErr != nil {
		return opts, setErr
	}

	if fs.Changed("drive") {
		drive, _ := fs.GetString("drive")
		if err := opts.Set(pipeline.FieldDrive, drive); err != nil {
			return opts, err
		}
	}
	if fs.Changed("tolerance") {
		opts.Tolerance, _ = fs.GetFloat64("tolerance")
	}
	if fs.Changed("max-iterations") {
		opts.MaxIterations, _ = fs.GetInt("max-iterations")
	}
	if opts.Tolerance < 0 || opts.MaxIterations < 0 {
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "solver settings cannot be negative")
	}
	opts.Logger = c.Logger
	return opts, nil
}

// loadConfig reads --config, or the default config file when it exists.
func (c *CLI) loadConfig() (pipeline.Options, error) {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return pipeline.DefaultOptions(), nil
		}
		path = filepath.Join(dir, pipeline.ConfigFileName)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return pipeline.DefaultOptions(), nil
		}
	}
	opts, err := pipeline.LoadConfig(path)
	if err != nil {
		return opts, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return opts, nil
}

// isGeometryError reports whether err is a solver outcome rather than a
// usage error.
func isGeometryError(err error) bool {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInfeasible, apperrors.ErrCodeConvergence, apperrors.ErrCodeNotClosed:
		return true
	}
	return false
}

// resolve runs one recompute with the command's options.
func (c *CLI) resolve(ctx context.Context, cmd *cobra.Command) (*pipeline.Result, error) {
	opts, err := c.loadOptions(cmd)
	if err != nil {
		return nil, err
	}
	prog := newProgress(loggerFromContext(ctx))
	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	prog.done("Resolved ring",
		"links", result.Links,
		"drive", result.Drive,
		"iterations", result.Stats.Iterations)
	return result, nil
}
