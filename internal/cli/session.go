package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/triprules"
	"github.com/aretw0/triprules/internal/config"
	"github.com/aretw0/triprules/internal/presentation/tui"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/runner"
)

// WizardOptions configures an interactive session.
type WizardOptions struct {
	Config *config.Config
	Logger *slog.Logger
	// Plain disables the banner and markdown rendering.
	Plain bool
	// Fresh clears any saved progress before starting.
	Fresh bool
	In    io.Reader
	Out   io.Writer
}

// RunWizard resumes the saved session and drives it until the user quits.
func RunWizard(parent context.Context, opts WizardOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger

	if !opts.Plain {
		tui.PrintBanner(opts.Out, triprules.Version)
	}

	res, err := Open(opts.Config, logger)
	if err != nil {
		return err
	}
	defer res.Close()

	sigCtx := NewSignalContext(parent)
	defer sigCtx.Cancel()

	planner, err := NewPlanner(sigCtx, res, debugHooks(logger), logger)
	if err != nil {
		return err
	}
	if opts.Fresh {
		if err := planner.Reset(sigCtx); err != nil {
			return fmt.Errorf("failed to clear saved progress: %w", err)
		}
	}

	start := planner.Step()
	if start != domain.StepAudienceSelect {
		printSystemMessage(opts.Out, "Resuming at the %s step...", start)
	}
	logger.Debug("Session Resumed", "step", start.String())

	var handlerOpts []runner.TextHandlerOption
	if !opts.Plain {
		handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	}
	runErr := triprules.Run(sigCtx, planner, opts.In, opts.Out,
		runner.WithInputHandler(runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)),
	)

	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	logCompletion(opts.Out, planner.Step(), runErr, sigCtx.Signal())

	return handleExecutionError(runErr)
}
