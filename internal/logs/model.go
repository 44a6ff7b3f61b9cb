package logs

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RunStatusCompleted = "completed"
	RunStatusAborted   = "aborted"
)

// ImportRun is the audit row written once per seed run.
type ImportRun struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID       string         `gorm:"size:36;not null;uniqueIndex;column:run_id" json:"runId"`
	Source      string         `gorm:"size:512;not null" json:"source"`
	RosterFile  string         `gorm:"size:512" json:"rosterFile"`
	FittingFile string         `gorm:"size:512" json:"fittingFile"`
	Status      string         `gorm:"size:20;not null" json:"status"`
	Created     int            `gorm:"not null" json:"created"`
	Updated     int            `gorm:"not null" json:"updated"`
	CheckedIn   int            `gorm:"not null;default:0;column:checked_in" json:"checkedIn"`
	Skipped     int            `gorm:"not null" json:"skipped"`
	Failed      int            `gorm:"not null" json:"failed"`
	Error       *string        `gorm:"type:text" json:"error,omitempty"`
	Summary     datatypes.JSON `json:"summary"`
	StartedAt   time.Time      `gorm:"index" json:"startedAt"`
	FinishedAt  time.Time      `json:"finishedAt"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}

type ImportRunFilter struct {
	Limit     int     `form:"limit"`
	StartDate *string `form:"start_date"` // "YYYY-MM-DD" or RFC3339
	EndDate   *string `form:"end_date"`
}

const (
	DefaultRunLimit = 20
	MaxRunLimit     = 100
)
