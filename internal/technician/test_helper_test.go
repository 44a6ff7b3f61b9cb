package technician

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:technician_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&Technician{}, &CheckIn{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func breakDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()
}

func newTestService(t *testing.T) *TechnicianService {
	t.Helper()
	return NewTechnicianService(newTestDB(t))
}

func seedTechnician(t *testing.T, db *gorm.DB, techID int, name string) Technician {
	t.Helper()
	tech := Technician{TechID: techID, Name: name, BarcodeValue: fmt.Sprintf("TECH-%04d", techID)}
	if err := db.Create(&tech).Error; err != nil {
		t.Fatalf("seed technician %d: %v", techID, err)
	}
	return tech
}

func seedCheckIn(t *testing.T, db *gorm.DB, technicianID uint, uniform string, at time.Time) CheckIn {
	t.Helper()
	ci := CheckIn{TechnicianID: technicianID, UniformSet: uniform, CreatedAt: at}
	if err := db.Create(&ci).Error; err != nil {
		t.Fatalf("seed check-in: %v", err)
	}
	return ci
}

type mockTechnicianService struct {
	ListTechniciansFn  func() ([]Technician, error)
	CreateTechnicianFn func(input CreateTechnicianInput) (*Technician, error)
	DeleteTechnicianFn func(id uint) error
	RecordCheckInFn    func(technicianID uint, input CheckInInput) (*CheckIn, error)
}

func (m *mockTechnicianService) ListTechnicians() ([]Technician, error) {
	if m.ListTechniciansFn == nil {
		return nil, assertErr("ListTechnicians not implemented")
	}
	return m.ListTechniciansFn()
}

func (m *mockTechnicianService) CreateTechnician(input CreateTechnicianInput) (*Technician, error) {
	if m.CreateTechnicianFn == nil {
		return nil, assertErr("CreateTechnician not implemented")
	}
	return m.CreateTechnicianFn(input)
}

func (m *mockTechnicianService) DeleteTechnician(id uint) error {
	if m.DeleteTechnicianFn == nil {
		return assertErr("DeleteTechnician not implemented")
	}
	return m.DeleteTechnicianFn(id)
}

func (m *mockTechnicianService) RecordCheckIn(technicianID uint, input CheckInInput) (*CheckIn, error) {
	if m.RecordCheckInFn == nil {
		return nil, assertErr("RecordCheckIn not implemented")
	}
	return m.RecordCheckInFn(technicianID, input)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
