package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"waypoint/internal/logging"
	"waypoint/internal/processor"
	"waypoint/internal/services"
)

// Result captures a single processor invocation.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Report aggregates a dispatch pass over the data directory.
type Report struct {
	Results   []Result
	Skipped   int
	Halted    bool
	StartedAt time.Time
	Elapsed   time.Duration
}

// Processed returns the number of successful invocations.
func (r Report) Processed() int {
	count := 0
	for _, res := range r.Results {
		if res.Err == nil {
			count++
		}
	}
	return count
}

// Failed returns the number of failed invocations.
func (r Report) Failed() int {
	return len(r.Results) - r.Processed()
}

// Err summarizes the report as a single error, nil when every entry succeeded.
func (r Report) Err() error {
	failed := r.Failed()
	if failed == 0 {
		return nil
	}
	if r.Halted {
		for _, res := range r.Results {
			if res.Err != nil {
				return res.Err
			}
		}
	}
	return fmt.Errorf("%d of %d entries failed", failed, len(r.Results))
}

// ListEntries returns the immediate entry names of dataDir in directory order.
// Empty names are skipped silently; hidden entries are skipped when skipHidden
// is set.
func ListEntries(dataDir string, skipHidden bool) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "dispatch", "list entries", dataDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == "" {
			continue
		}
		if skipHidden && strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Dispatcher runs the processor over a set of entry names.
type Dispatcher struct {
	client processor.Client
	policy Policy
	logger *slog.Logger
}

// NewDispatcher constructs a Dispatcher. A nil logger is replaced with a no-op.
func NewDispatcher(client processor.Client, policy Policy, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		policy: policy,
		logger: logging.NewComponentLogger(logger, "dispatch"),
	}
}

// Run invokes the processor once per name, sequentially. Empty names are
// skipped without an invocation. Context cancellation stops the loop and is
// reported through the returned error.
func (d *Dispatcher) Run(ctx context.Context, names []string) (report Report, err error) {
	report.StartedAt = time.Now()
	defer func() { report.Elapsed = time.Since(report.StartedAt) }()

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if name == "" {
			report.Skipped++
			continue
		}

		entryCtx := services.WithEntry(ctx, name)
		entryLogger := logging.WithContext(entryCtx, d.logger)
		started := time.Now()
		err := d.client.Process(entryCtx, name)
		result := Result{Name: name, Err: err, Duration: time.Since(started)}
		report.Results = append(report.Results, result)

		if err == nil {
			entryLogger.Info("entry processed", logging.Duration("duration", result.Duration))
			continue
		}

		entryLogger.Error("entry failed",
			logging.Duration("duration", result.Duration),
			logging.Error(err),
		)
		if d.policy == PolicyHalt {
			report.Halted = true
			break
		}
	}

	return report, nil
}
