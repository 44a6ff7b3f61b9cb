package technician

import (
	"errors"
	"strings"
	"time"

	"uniform-tracker-api/internal/util"

	"gorm.io/gorm"
)

type TechnicianService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTechnicianService(db *gorm.DB) *TechnicianService {
	return &TechnicianService{DB: db, Now: time.Now}
}

func (ts *TechnicianService) now() time.Time {
	if ts.Now == nil {
		return time.Now()
	}
	return ts.Now()
}

// ListTechnicians returns every technician ordered by tech id, each with its
// check-ins newest first.
func (ts *TechnicianService) ListTechnicians() ([]Technician, error) {
	techs := []Technician{}
	err := ts.DB.
		Preload("CheckIns", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Order("tech_id ASC").
		Find(&techs).Error
	if err != nil {
		return nil, storageErr("list technicians", err)
	}

	for i := range techs {
		if techs[i].CheckIns == nil {
			techs[i].CheckIns = []CheckIn{}
		}
	}
	return techs, nil
}

func (ts *TechnicianService) CreateTechnician(input CreateTechnicianInput) (*Technician, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, &ValidationError{Field: "name"}
	}
	if input.TechID == nil {
		return nil, &ValidationError{Field: "techId"}
	}
	if *input.TechID <= 0 {
		return nil, &ValidationError{Field: "techId", Reason: "must be a positive number"}
	}
	if input.BarcodeValue == nil || strings.TrimSpace(*input.BarcodeValue) == "" {
		return nil, &ValidationError{Field: "barcodeValue"}
	}

	barcode := util.BarcodeFor(*input.TechID)
	if strings.TrimSpace(*input.BarcodeValue) != barcode {
		return nil, &ValidationError{Field: "barcodeValue", Reason: "must be " + barcode}
	}

	tech := Technician{
		TechID:       *input.TechID,
		Name:         strings.TrimSpace(*input.Name),
		BarcodeValue: barcode,
	}
	if err := ts.DB.Create(&tech).Error; err != nil {
		return nil, storageErr("create technician", err)
	}

	tech.CheckIns = []CheckIn{}
	return &tech, nil
}

// DeleteTechnician removes the technician and its check-ins in one transaction.
func (ts *TechnicianService) DeleteTechnician(id uint) error {
	err := ts.DB.Transaction(func(tx *gorm.DB) error {
		var tech Technician
		if err := tx.First(&tech, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTechnicianNotFound
			}
			return err
		}

		if err := tx.Where("technician_id = ?", tech.ID).Delete(&CheckIn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tech).Error
	})
	if err != nil {
		return storageErr("delete technician", err)
	}
	return nil
}

func (ts *TechnicianService) RecordCheckIn(technicianID uint, input CheckInInput) (*CheckIn, error) {
	if input.UniformSet == nil || strings.TrimSpace(*input.UniformSet) == "" {
		return nil, &ValidationError{Field: "uniformSet"}
	}

	checkIn, err := ts.insertCheckIn(technicianID, strings.TrimSpace(*input.UniformSet), ts.now())
	if err != nil {
		return nil, storageErr("record check-in", err)
	}
	return checkIn, nil
}

// UpsertTechnician creates the technician for techID or overwrites the name and
// barcode of the existing one.
func (ts *TechnicianService) UpsertTechnician(techID int, name string) (*UpsertResult, error) {
	var result UpsertResult

	err := ts.DB.Transaction(func(tx *gorm.DB) error {
		var tech Technician
		err := tx.Where("tech_id = ?", techID).First(&tech).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			tech = Technician{
				TechID:       techID,
				Name:         name,
				BarcodeValue: util.BarcodeFor(techID),
			}
			if err := tx.Create(&tech).Error; err != nil {
				return err
			}
			result.Created = true
		case err != nil:
			return err
		default:
			tech.Name = name
			tech.BarcodeValue = util.BarcodeFor(techID)
			if err := tx.Save(&tech).Error; err != nil {
				return err
			}
		}

		result.Technician = &tech
		return nil
	})
	if err != nil {
		return nil, storageErr("upsert technician", err)
	}
	return &result, nil
}

func (ts *TechnicianService) FindByTechID(techID int) (*Technician, error) {
	var tech Technician
	if err := ts.DB.Where("tech_id = ?", techID).First(&tech).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageErr("find technician", ErrTechnicianNotFound)
		}
		return nil, storageErr("find technician", err)
	}
	return &tech, nil
}

func (ts *TechnicianService) CreateCheckIn(technicianID uint, uniformSet string, createdAt time.Time) (*CheckIn, error) {
	checkIn, err := ts.insertCheckIn(technicianID, uniformSet, createdAt)
	if err != nil {
		return nil, storageErr("create check-in", err)
	}
	return checkIn, nil
}

// insertCheckIn verifies the owner exists inside the same transaction as the
// insert, so the reference holds even when foreign keys are not enforced.
func (ts *TechnicianService) insertCheckIn(technicianID uint, uniformSet string, createdAt time.Time) (*CheckIn, error) {
	checkIn := CheckIn{
		TechnicianID: technicianID,
		UniformSet:   uniformSet,
		CreatedAt:    createdAt,
	}

	err := ts.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Technician{}).Where("id = ?", technicianID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTechnicianNotFound
		}
		return tx.Create(&checkIn).Error
	})
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}
