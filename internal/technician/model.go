package technician

import "time"

type Technician struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TechID       int       `gorm:"uniqueIndex;not null;column:tech_id" json:"techId"`
	Name         string    `gorm:"type:text;not null;column:name" json:"name"`
	BarcodeValue string    `gorm:"type:text;not null;column:barcode_value" json:"barcodeValue"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	CheckIns     []CheckIn `gorm:"foreignKey:TechnicianID;constraint:OnDelete:CASCADE" json:"checkIns"`
}

func (Technician) TableName() string {
	return "technicians"
}

// CheckIn rows are written once and never updated.
type CheckIn struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TechnicianID uint      `gorm:"not null;index;column:technician_id" json:"technicianId"`
	UniformSet   string    `gorm:"type:text;not null;column:uniform_set" json:"uniformSet"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}

type CreateTechnicianInput struct {
	Name         *string `json:"name"`
	TechID       *int    `json:"techId"`
	BarcodeValue *string `json:"barcodeValue"`
}

type CheckInInput struct {
	UniformSet *string `json:"uniformSet"`
}

// UpsertResult reports whether an upsert inserted a new row.
type UpsertResult struct {
	Technician *Technician
	Created    bool
}
