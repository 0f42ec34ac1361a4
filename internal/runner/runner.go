package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"waypoint/internal/config"
	"waypoint/internal/dispatch"
	"waypoint/internal/logging"
	"waypoint/internal/preflight"
	"waypoint/internal/processor"
	"waypoint/internal/pydeps"
	"waypoint/internal/services"
	"waypoint/internal/venv"
)

// Outcome summarizes a completed run.
type Outcome struct {
	RunID           string
	Created         bool
	Installed       bool
	ManifestMissing bool
	Report          dispatch.Report
}

// Runner drives the batch pipeline.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	client processor.Client
}

// Option configures a Runner.
type Option func(*Runner)

// WithProcessor overrides the processor client (for testing).
func WithProcessor(client processor.Client) Option {
	return func(r *Runner) {
		r.client = client
	}
}

// New constructs a Runner. A nil logger is replaced with a no-op.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Setup performs bootstrap and dependency installation without dispatching.
func (r *Runner) Setup(ctx context.Context) error {
	unlock, err := r.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	session, _, err := r.prepare(ctx)
	if err != nil {
		return err
	}
	session.Release()
	return nil
}

// Run executes the full pipeline. Bootstrap, install, and listing failures are
// returned as errors; per-entry failures are recorded in the Outcome's report
// and only become the returned error under the halt policy.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	outcome := Outcome{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, outcome.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if blocking := preflight.Blocking(preflight.RunAll(r.cfg)); len(blocking) > 0 {
		names := make([]string, 0, len(blocking))
		for _, result := range blocking {
			names = append(names, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
		return outcome, services.Wrap(services.ErrConfiguration, "preflight", "", strings.Join(names, "; "), nil)
	}

	unlock, err := r.acquireLock()
	if err != nil {
		return outcome, err
	}
	defer unlock()

	session, prep, err := r.prepare(ctx)
	if err != nil {
		return outcome, err
	}
	defer session.Release()
	outcome.Created = prep.created
	outcome.Installed = prep.installed
	outcome.ManifestMissing = prep.manifestMissing

	names, err := dispatch.ListEntries(r.cfg.Paths.DataDir, r.cfg.Dispatch.SkipHidden)
	if err != nil {
		return outcome, err
	}
	if len(names) == 0 {
		logger.Warn("data directory is empty; nothing to dispatch",
			logging.String("data_dir", r.cfg.Paths.DataDir))
		return outcome, nil
	}

	policy, err := dispatch.ParsePolicy(r.cfg.Dispatch.OnItemFailure)
	if err != nil {
		return outcome, services.Wrap(services.ErrConfiguration, "dispatch", "", err.Error(), nil)
	}

	client := r.client
	if client == nil {
		client = r.newProcessorClient(session)
	}

	logger.Info("dispatching entries",
		logging.Int("entries", len(names)),
		logging.String("policy", policy.String()),
	)

	report, err := dispatch.NewDispatcher(client, policy, r.logger).Run(services.WithStep(ctx, "dispatch"), names)
	outcome.Report = report
	if err != nil {
		return outcome, err
	}

	logger.Info("batch complete",
		logging.Int("processed", report.Processed()),
		logging.Int("failed", report.Failed()),
		logging.Int("skipped", report.Skipped),
		logging.Bool("halted", report.Halted),
		logging.Duration("elapsed", report.Elapsed),
	)

	if policy == dispatch.PolicyHalt {
		if reportErr := report.Err(); reportErr != nil {
			return outcome, reportErr
		}
	}
	return outcome, nil
}

type prepResult struct {
	created         bool
	installed       bool
	manifestMissing bool
}

// prepare bootstraps the venv, activates it, and installs dependencies. The
// returned session is nil when err is non-nil.
func (r *Runner) prepare(ctx context.Context) (*venv.Session, prepResult, error) {
	var prep prepResult

	env := venv.New(r.cfg.Paths.VenvDir, venv.WithPython(r.cfg.PythonBinary()))
	bootCtx := services.WithStep(ctx, "bootstrap")
	if !env.Exists() {
		logging.WithContext(bootCtx, r.logger).Info("creating virtual environment",
			logging.String("venv", env.Root()))
		if err := env.Create(bootCtx); err != nil {
			return nil, prep, err
		}
		prep.created = true
	}

	session, err := env.Activate()
	if err != nil {
		return nil, prep, err
	}

	installCtx := services.WithStep(ctx, "install")
	manifest := r.cfg.ManifestPath()
	installer := pydeps.NewInstaller(env, pydeps.WithExtraArgs(r.cfg.Python.PipArgs...))
	installed, err := installer.Install(installCtx, manifest)
	if err != nil {
		// Mirror the activation window: release before reporting the abort.
		session.Release()
		return nil, prep, err
	}
	prep.installed = installed
	if !installed {
		prep.manifestMissing = true
		logging.WithContext(installCtx, r.logger).Warn("requirements manifest not found; skipping dependency installation",
			logging.String("manifest", manifest))
	}

	return session, prep, nil
}

func (r *Runner) newProcessorClient(session *venv.Session) processor.Client {
	opts := []processor.Option{
		processor.WithPython(session.Environment().Python()),
		processor.WithScript(r.cfg.Python.Script),
		processor.WithEnv(session.Environ()),
		processor.WithWorkDir(filepath.Dir(r.cfg.Paths.DataDir)),
	}
	if r.cfg.Python.InvokeTimeout > 0 {
		opts = append(opts, processor.WithTimeout(time.Duration(r.cfg.Python.InvokeTimeout)*time.Second))
	}
	return processor.NewCLI(opts...)
}

func (r *Runner) acquireLock() (func(), error) {
	lock := flock.New(r.lockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another waypoint run is already active")
	}
	return func() { _ = lock.Unlock() }, nil
}

func (r *Runner) lockPath() string {
	return strings.TrimRight(r.cfg.Paths.VenvDir, "/\\") + ".lock"
}
