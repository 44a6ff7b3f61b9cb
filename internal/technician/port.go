package technician

import "time"

type TechnicianServiceAPI interface {
	ListTechnicians() ([]Technician, error)
	CreateTechnician(input CreateTechnicianInput) (*Technician, error)
	DeleteTechnician(id uint) error
	RecordCheckIn(technicianID uint, input CheckInInput) (*CheckIn, error)
}

// ImportStore is the subset of the record store used by the spreadsheet import.
type ImportStore interface {
	UpsertTechnician(techID int, name string) (*UpsertResult, error)
	FindByTechID(techID int) (*Technician, error)
	CreateCheckIn(technicianID uint, uniformSet string, createdAt time.Time) (*CheckIn, error)
}

var _ TechnicianServiceAPI = (*TechnicianService)(nil)
var _ ImportStore = (*TechnicianService)(nil)
