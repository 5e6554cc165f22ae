package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/justclara/onboarding_services/internal/onboarding_service/app"
	"github.com/justclara/onboarding_services/internal/onboarding_service/bootstrap"
	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
	"github.com/justclara/onboarding_services/internal/onboarding_service/repository/memory"
	"github.com/justclara/onboarding_services/internal/onboarding_service/repository/postgres"
	"github.com/justclara/onboarding_services/internal/platform/config"
	"github.com/justclara/onboarding_services/internal/platform/database"
	"github.com/justclara/onboarding_services/internal/platform/logger"
)

const cliName = "onboarding-cli"

// ErrRunFailed is returned when the pipeline aborted. The run has already been printed.
var ErrRunFailed = errors.New("provisioning run failed")

type syncRunner interface {
	RunSync(ctx context.Context, in domain.ProfileInput) (*domain.Run, error)
}

// Create runs the pipeline in-process for one business. Logs go to stderr,
// the run summary to out.
func Create(ctx context.Context, in domain.ProfileInput, interactive bool, out io.Writer) error {
	if interactive {
		if err := promptProfile(ctx, &in); err != nil {
			return err
		}
	}

	cfg, err := config.Load(cliName)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, "text", cliName)

	var repo domain.ProvisioningRepository
	if cfg.PostgresDSN != "" {
		pool, err := database.NewDBPool(ctx, cfg.PostgresDSN, database.PoolOptions{MaxConns: 1})
		if err != nil {
			return fmt.Errorf("failed to connect to database (set APP_POSTGRES_DSN= to skip persistence): %w", err)
		}
		defer pool.Close()
		repo = postgres.NewPgProvisioningRepository(pool, log)
	}

	pipeline, err := bootstrap.NewPipeline(cfg, repo, log)
	if err != nil {
		return err
	}
	svc := app.NewOnboardingService(pipeline, memory.NewRunStore(), nil, app.ServiceOptions{
		MaxConcurrentRuns: 1,
		RunTimeout:        cfg.RunTimeout(),
	}, log)

	return runAndPrint(ctx, svc, in, out)
}

func runAndPrint(ctx context.Context, svc syncRunner, in domain.ProfileInput, out io.Writer) error {
	run, err := svc.RunSync(ctx, in)
	if err != nil {
		return err
	}
	printRun(out, run)
	if run.Status == domain.RunFailed {
		return ErrRunFailed
	}
	return nil
}
