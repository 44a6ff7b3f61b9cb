package importer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"uniform-tracker-api/internal/technician"

	"cloud.google.com/go/storage"
	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/glebarez/sqlite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestStore(t *testing.T) *technician.TechnicianService {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:importer_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", id)

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

	if err := db.AutoMigrate(&technician.Technician{}, &technician.CheckIn{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return technician.NewTechnicianService(db)
}

type testSheet struct {
	name string
	rows [][]any
}

func sheet(name string, rows ...[]any) testSheet {
	return testSheet{name: name, rows: rows}
}

func xlsxBytes(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}

		for r, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			row := row
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func workbook(t *testing.T, name string, sheets ...testSheet) *Workbook {
	t.Helper()
	wb, err := ReadWorkbook(name, bytes.NewReader(xlsxBytes(t, sheets...)))
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	return wb
}

func writeFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func withFakeGCS(t *testing.T) (*fakestorage.Server, string) {
	t.Helper()

	srv, err := fakestorage.NewServerWithOptions(fakestorage.Options{
		Scheme: "http",
	})
	if err != nil {
		t.Fatalf("failed to start fake gcs: %v", err)
	}
	t.Cleanup(srv.Stop)

	bucket := "seed-bucket"
	srv.CreateBucket(bucket)

	prev := newGCSClientHook
	newGCSClientHook = func(ctx context.Context) (*storage.Client, error) {
		return srv.Client(), nil
	}
	t.Cleanup(func() { newGCSClientHook = prev })

	return srv, bucket
}

func putGCSObject(t *testing.T, bucket, name string, content []byte) {
	t.Helper()

	ctx := context.Background()
	client, err := newGCSClientHook(ctx)
	if err != nil {
		t.Fatalf("newGCSClientHook: %v", err)
	}

	w := client.Bucket(bucket).Object(name).NewWriter(ctx)
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		t.Fatalf("write object %s/%s: %v", bucket, name, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close object %s/%s: %v", bucket, name, err)
	}
}

func collect(seq func(func(Outcome) bool)) []Outcome {
	var out []Outcome
	for o := range seq {
		out = append(out, o)
	}
	return out
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// failingStore lets tests force store errors per call.
type failingStore struct {
	technician.ImportStore
	upsertErr error
	findErr   error
	createErr error
}

func (f *failingStore) UpsertTechnician(techID int, name string) (*technician.UpsertResult, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return f.ImportStore.UpsertTechnician(techID, name)
}

func (f *failingStore) FindByTechID(techID int) (*technician.Technician, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.ImportStore.FindByTechID(techID)
}

func (f *failingStore) CreateCheckIn(technicianID uint, uniformSet string, createdAt time.Time) (*technician.CheckIn, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.ImportStore.CreateCheckIn(technicianID, uniformSet, createdAt)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
