package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chainring/pkg/chain"
	apperrors "github.com/matzehuels/chainring/pkg/errors"
	"github.com/matzehuels/chainring/pkg/observability"
)

// Runner executes recomputes with logging and observability hooks.
//
// The Runner is stateless except for the logger - it doesn't store results.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute validates opts, resolves the ring and assembles the readouts.
//
// Failures are *errors.Error values with one of the codes INVALID_INPUT,
// INVALID_DRIVE, INFEASIBLE_GEOMETRY, NO_CONVERGENCE or NOT_CLOSED; the
// underlying chain error stays reachable with errors.Is.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	logger := opts.Logger

	spec, err := opts.Spec()
	if err != nil {
		return nil, err
	}

	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, opts.Drive, spec.TotalLinks)

	start := time.Now()
	res, err := chain.Resolve(spec, opts.SolverOptions())
	elapsed := time.Since(start)

	if err != nil {
		err = classify(err)
		hooks.OnResolveComplete(ctx, opts.Drive, 0, elapsed, err)
		logger.Debug("resolve failed", "opts", opts.String(), "code", apperrors.GetCode(err), "err", err)
		return nil, err
	}
	hooks.OnResolveComplete(ctx, opts.Drive, res.Iterations, elapsed, nil)

	result := &Result{
		Links:               res.Spec.TotalLinks,
		Drive:               opts.Drive,
		Radius:              res.Spec.Radius,
		InnerDiameter:       res.InnerDiameter(),
		VariableLength:      res.Spec.VariableLength,
		DistinguishedLength: res.Spec.DistinguishedLength,
		Circumference:       res.Circumference(),
		InnerCircumference:  res.InnerCircumference(),
		Layout:              res.Layout,
		Stats: Stats{
			Iterations: res.Iterations,
			Duration:   elapsed,
		},
	}

	logger.Debug("resolved ring",
		"links", result.Links,
		"drive", result.Drive,
		"radius", result.Radius,
		"variable", result.VariableLength,
		"iterations", result.Stats.Iterations,
		"duration", elapsed)

	return result, nil
}

// classify maps solver failures onto boundary error codes.
func classify(err error) error {
	switch {
	case errors.Is(err, chain.ErrInfeasible):
		return apperrors.Wrap(apperrors.ErrCodeInfeasible, err, "no ring exists for these parameters")
	case errors.Is(err, chain.ErrNoConvergence):
		return apperrors.Wrap(apperrors.ErrCodeConvergence, err, "radius could not be verified")
	case errors.Is(err, chain.ErrNotClosed):
		return apperrors.Wrap(apperrors.ErrCodeNotClosed, err, "layout does not close")
	case errors.Is(err, chain.ErrInvalidSpec):
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid parameters")
	default:
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "resolve ring")
	}
}
