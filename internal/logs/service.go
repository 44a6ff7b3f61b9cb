package logs

import (
	"encoding/json"
	"time"

	"uniform-tracker-api/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogService struct {
	DB *gorm.DB
}

// Record stores a finished run. summary is marshalled into the JSON column;
// a nil summary is stored as an empty object.
func (ls *LogService) Record(run ImportRun, summary interface{}) (*ImportRun, error) {
	raw := []byte("{}")
	if summary != nil {
		if b, err := json.Marshal(summary); err == nil {
			raw = b
		}
	}

	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	run.Summary = datatypes.JSON(raw)

	if err := ls.DB.Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns runs newest first, bounded by input.Limit.
func (ls *LogService) ListRuns(input ImportRunFilter) ([]ImportRun, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultRunLimit
	}
	if input.Limit > MaxRunLimit {
		input.Limit = MaxRunLimit
	}

	window, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	q := ls.DB.Model(&ImportRun{})
	if window.HasStart {
		q = q.Where("started_at >= ?", window.Start)
	}
	if window.HasEnd {
		q = q.Where("started_at < ?", window.EndExclusive)
	}

	runs := []ImportRun{}
	if err := q.Order("started_at DESC").Order("id DESC").Limit(input.Limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
