package main

import (
	"context"
	"time"

	"uniform-tracker-api/config"
	"uniform-tracker-api/internal/importer"
	"uniform-tracker-api/internal/logs"
	"uniform-tracker-api/internal/technician"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runSeed imports the roster and fitting log found at cfg.SeedSource and
// stores an audit row for the run, whether it completed or aborted.
func runSeed(ctx context.Context, cfg config.Config, db *gorm.DB, logger *zap.Logger) (*logs.ImportRun, error) {
	logService := &logs.LogService{DB: db}
	run := logs.ImportRun{
		RunID:     uuid.NewString(),
		Source:    cfg.SeedSource,
		StartedAt: time.Now(),
	}
	logger = logger.With(zap.String("run_id", run.RunID))

	src, err := importer.NewSource(ctx, cfg.SeedSource)
	if err != nil {
		return abort(logService, run, logger, err)
	}
	defer src.Close()

	markers := importer.Markers{Roster: cfg.RosterMarker, Fitting: cfg.FittingMarker}
	reconciler := importer.NewReconciler(technician.NewTechnicianService(db))

	plan, err := reconciler.Prepare(ctx, src, markers)
	if err != nil {
		return abort(logService, run, logger, err)
	}
	run.RosterFile = plan.RosterFile
	run.FittingFile = plan.FittingFile

	logger.Info("Found data files",
		zap.String("source", src.String()),
		zap.String("roster", plan.RosterFile),
		zap.String("fitting", plan.FittingFile),
	)

	var summary importer.Summary
	for o := range plan.Outcomes() {
		summary.Add(o)
		logOutcome(logger, o)
	}

	run.Status = logs.RunStatusCompleted
	run.Created = summary.Created
	run.Updated = summary.Updated
	run.CheckedIn = summary.CheckedIn
	run.Skipped = summary.Skipped
	run.Failed = summary.Failed
	run.FinishedAt = time.Now()

	saved, err := logService.Record(run, summary)
	if err != nil {
		logger.Error("Failed to store import run", zap.Error(err))
		return &run, nil
	}
	return saved, nil
}

func abort(ls *logs.LogService, run logs.ImportRun, logger *zap.Logger, cause error) (*logs.ImportRun, error) {
	msg := cause.Error()
	run.Status = logs.RunStatusAborted
	run.Error = &msg
	run.FinishedAt = time.Now()

	if _, err := ls.Record(run, nil); err != nil {
		logger.Error("Failed to store import run", zap.Error(err))
	}
	return nil, cause
}

func logOutcome(logger *zap.Logger, o importer.Outcome) {
	fields := []zap.Field{
		zap.String("pass", string(o.Pass)),
		zap.String("file", o.File),
		zap.String("sheet", o.Sheet),
		zap.Int("row", o.Row),
	}
	if o.TechID != 0 {
		fields = append(fields, zap.Int("tech_id", o.TechID))
	}

	switch o.Status {
	case importer.StatusSkipped:
		logger.Warn("Row skipped", append(fields, zap.String("reason", o.Reason), cellsField(o))...)
	case importer.StatusFailed:
		logger.Error("Row failed", append(fields, zap.Error(o.Err), cellsField(o))...)
	default:
		if o.DateDefaulted && o.DateRaw != "" {
			logger.Warn("Unreadable fit date, using current time", append(fields, zap.String("date", o.DateRaw))...)
			return
		}
		logger.Debug("Row imported", append(fields, zap.Bool("created", o.Created))...)
	}
}

// cellsField carries the offending row as JSON so a skipped or failed row can
// be found in the sheet without reopening the workbook.
func cellsField(o importer.Outcome) zap.Field {
	cells, err := o.Cells.MarshalJSON()
	if err != nil {
		return zap.Skip()
	}
	return zap.ByteString("cells", cells)
}
