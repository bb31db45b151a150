package updater

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"eiareport/internal/dataprocessing"
	apperrors "eiareport/internal/errors"
	"eiareport/internal/infrastructure"
	"eiareport/pkg/contracts/domain"
)

// Fetcher retrieves one tracked year's dataset. Implementations must return
// an empty dataset alongside the error on failure.
type Fetcher interface {
	FetchYear(ctx context.Context, year int) (domain.YearlyDataset, error)
}

// ReportWriter persists the report artifact.
type ReportWriter interface {
	Write(ctx context.Context, path string, yearA, yearB domain.YearlyDataset,
		filtered domain.CombinedDataset, averages domain.AverageRow, headerColumns []string) error
}

// Clock supplies the current time. Injected so the rolling window is
// deterministic under test.
type Clock func() time.Time

// Options configures an Updater.
type Options struct {
	Years      []int // the two tracked years, earlier first
	WindowDays int
	ReportPath string
	Clock      Clock
	Logger     *slog.Logger
	Metrics    *infrastructure.Metrics
}

// Updater runs the fetch -> merge -> window -> aggregate -> write pipeline.
// It is the catch-all boundary: per-year fetch failures degrade to empty
// datasets, the no-data condition is a warning, and nothing - including a
// panic - propagates past RunUpdate.
type Updater struct {
	fetcher    Fetcher
	writer     ReportWriter
	clock      Clock
	years      []int
	windowDays int
	reportPath string
	logger     *slog.Logger
	metrics    *infrastructure.Metrics
	running    *semaphore.Weighted
}

// New creates an Updater. Years must hold exactly the two tracked years.
func New(fetcher Fetcher, writer ReportWriter, opts Options) *Updater {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		fetcher:    fetcher,
		writer:     writer,
		clock:      clock,
		years:      opts.Years,
		windowDays: opts.WindowDays,
		reportPath: opts.ReportPath,
		logger:     logger,
		metrics:    opts.Metrics,
		running:    semaphore.NewWeighted(1),
	}
}

// RunUpdate executes one full update run and reports whether it completed
// without an unhandled error. A trigger that arrives while a run is active
// is skipped (logged, counted, false) rather than queued - the single
// pending-run guard.
func (u *Updater) RunUpdate(ctx context.Context) bool {
	ok, err := u.TryRunUpdate(ctx)
	if err != nil {
		return false
	}
	return ok
}

// TryRunUpdate is RunUpdate with the skip condition surfaced: it returns
// ErrRunInProgress when another run holds the guard, so callers such as the
// on-demand HTTP trigger can report the conflict distinctly from a failure.
func (u *Updater) TryRunUpdate(ctx context.Context) (bool, error) {
	if !u.running.TryAcquire(1) {
		u.logger.WarnContext(ctx, "update already in progress, skipping trigger")
		if u.metrics != nil {
			u.metrics.RunsSkipped.Inc()
		}
		return false, apperrors.ErrRunInProgress
	}
	defer u.running.Release(1)

	ctx, runID := infrastructure.NewRunContext(ctx)
	started := time.Now()

	u.logger.InfoContext(ctx, "starting data update",
		slog.String("run_id", runID),
		slog.Any("years", u.years),
		slog.Int("window_days", u.windowDays),
		slog.String("report_path", u.reportPath))

	ok := u.run(ctx)

	status := "failure"
	if ok {
		status = "success"
	}
	if u.metrics != nil {
		u.metrics.RunsTotal.WithLabelValues(status).Inc()
		u.metrics.RunDuration.Observe(time.Since(started).Seconds())
	}

	u.logger.InfoContext(ctx, "data update finished",
		slog.String("status", status),
		slog.Duration("duration", time.Since(started)))

	return ok, nil
}

// run executes the pipeline body under panic recovery.
func (u *Updater) run(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.ErrorContext(ctx, "update pipeline panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			ok = false
		}
	}()

	yearA := u.fetchYear(ctx, u.years[0])
	yearB := u.fetchYear(ctx, u.years[1])

	combined, err := dataprocessing.Merge(yearA, yearB)
	if err != nil {
		if apperrors.IsNoData(err) {
			// Nothing fetched, nothing to report. The previous artifact is
			// left untouched and the run still counts as a success.
			u.logger.WarnContext(ctx, "no data available for any tracked year, skipping report")
			return true
		}
		u.logger.ErrorContext(ctx, "merge failed", slog.String("error", err.Error()))
		return false
	}

	now := u.clock()
	start, end := dataprocessing.ComputeWindow(now, u.windowDays)
	u.logger.InfoContext(ctx, "rolling window computed",
		slog.Time("start", start),
		slog.Time("end", end))

	filtered := dataprocessing.FilterWindow(combined, start, end)
	averages := dataprocessing.Aggregate(filtered)

	if u.metrics != nil {
		u.metrics.ReportRows.Set(float64(len(filtered.Rows)))
	}

	if err := u.writer.Write(ctx, u.reportPath, yearA, yearB, filtered, averages, combined.Columns); err != nil {
		u.logger.ErrorContext(ctx, "failed to write report artifact",
			slog.String("path", u.reportPath),
			slog.String("error", err.Error()))
		return false
	}

	u.logger.InfoContext(ctx, "report updated",
		slog.Int("combined_rows", len(filtered.Rows)),
		slog.Int("averaged_columns", len(averages)))

	return true
}

// fetchYear degrades any fetch failure to an empty dataset for that year.
func (u *Updater) fetchYear(ctx context.Context, year int) domain.YearlyDataset {
	dataset, err := u.fetcher.FetchYear(ctx, year)
	if err != nil {
		u.logger.ErrorContext(ctx, "year fetch failed, continuing with empty dataset",
			slog.Int("year", year),
			slog.String("error", err.Error()))
		dataset = domain.YearlyDataset{Year: year}
	}
	if u.metrics != nil {
		u.metrics.FetchedRows.WithLabelValues(strconv.Itoa(year)).Set(float64(len(dataset.Rows)))
	}
	return dataset
}
