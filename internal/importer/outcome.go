package importer

import "fmt"

type Pass string

const (
	PassTechnicians Pass = "technicians"
	PassCheckIns    Pass = "check-ins"
)

type Status string

const (
	StatusAccepted Status = "accepted"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Outcome describes what happened to one workbook row.
type Outcome struct {
	Pass   Pass
	File   string
	Sheet  string
	Row    int
	Status Status
	Reason string
	Err    error
	// Cells is the sheet row the outcome was produced from.
	Cells Row

	TechID int
	// Created is set on accepted technician rows that inserted a new record.
	Created bool
	// DateRaw is the fit date text found on a check-in row, if any.
	DateRaw string
	// DateDefaulted is set when the check-in fell back to the current time.
	DateDefaulted bool
}

func (o Outcome) String() string {
	loc := fmt.Sprintf("%s %s!%d", o.File, o.Sheet, o.Row)
	switch o.Status {
	case StatusAccepted:
		return fmt.Sprintf("%s: %s tech %d accepted", loc, o.Pass, o.TechID)
	case StatusFailed:
		return fmt.Sprintf("%s: %s failed: %s", loc, o.Pass, o.Reason)
	default:
		return fmt.Sprintf("%s: %s skipped: %s", loc, o.Pass, o.Reason)
	}
}

// Summary tallies outcomes for the import-run audit record.
type Summary struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	CheckedIn int      `json:"checkedIn"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Defaulted int      `json:"datesDefaulted"`
	Skips     []string `json:"skips,omitempty"`
	Failures  []string `json:"failures,omitempty"`
}

func (s *Summary) Add(o Outcome) {
	switch o.Status {
	case StatusAccepted:
		switch {
		case o.Pass == PassCheckIns:
			s.CheckedIn++
			if o.DateDefaulted {
				s.Defaulted++
			}
		case o.Created:
			s.Created++
		default:
			s.Updated++
		}
	case StatusSkipped:
		s.Skipped++
		s.Skips = append(s.Skips, o.String())
	case StatusFailed:
		s.Failed++
		s.Failures = append(s.Failures, o.String())
	}
}
