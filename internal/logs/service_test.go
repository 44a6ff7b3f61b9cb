package logs

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"uniform-tracker-api/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLogService_Record_Inserts(t *testing.T) {
	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	ls := &LogService{DB: db}

	mock.ExpectQuery(`INSERT INTO "import_runs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	run, err := ls.Record(ImportRun{
		RunID:  "4b4c7a0e-5d0f-4a53-9b8e-0f2b2b9b2f11",
		Source: "data",
		Status: RunStatusCompleted,
	}, map[string]int{"created": 2})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if run.ID != 9 {
		t.Fatalf("expected id 9, got %d", run.ID)
	}
	if string(run.Summary) != `{"created":2}` {
		t.Fatalf("unexpected summary %s", run.Summary)
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		t.Fatalf("expected timestamps to be filled: %+v", run)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLogService_Record_DBError(t *testing.T) {
	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	ls := &LogService{DB: db}

	mock.ExpectQuery(`INSERT INTO "import_runs"`).WillReturnError(assertErr("insert failed"))

	if _, err := ls.Record(ImportRun{RunID: "x", Source: "data", Status: RunStatusAborted}, nil); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLogService_Record_NilSummaryStoresEmptyObject(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	run, err := ls.Record(ImportRun{RunID: "r1", Source: "data", Status: RunStatusCompleted}, nil)
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}

	var got ImportRun
	if err := db.First(&got, run.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(got.Summary, &m); err != nil || len(m) != 0 {
		t.Fatalf("expected empty summary object, got %s (%v)", got.Summary, err)
	}
}

func TestLogService_ListRuns_NewestFirstWithLimit(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		if _, err := ls.Record(ImportRun{
			RunID:      fmt.Sprintf("run-%d", i),
			Source:     "data",
			Status:     RunStatusCompleted,
			StartedAt:  start,
			FinishedAt: start.Add(time.Minute),
		}, nil); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	runs, err := ls.ListRuns(ImportRunFilter{Limit: 3})
	if err != nil {
		t.Fatalf("ListRuns err: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	want := []string{"run-4", "run-3", "run-2"}
	for i, r := range runs {
		if r.RunID != want[i] {
			t.Fatalf("runs[%d]=%s want %s", i, r.RunID, want[i])
		}
	}
}

func TestLogService_ListRuns_DateWindow(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	days := []time.Time{
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC),
	}
	for i, d := range days {
		if _, err := ls.Record(ImportRun{RunID: fmt.Sprintf("d%d", i), Source: "data", Status: RunStatusCompleted, StartedAt: d, FinishedAt: d}, nil); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	runs, err := ls.ListRuns(ImportRunFilter{StartDate: ptrStr("2024-03-02"), EndDate: ptrStr("2024-03-02")})
	if err != nil {
		t.Fatalf("ListRuns err: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "d1" {
		t.Fatalf("expected only d1, got %+v", runs)
	}
}

func TestLogService_ListRuns_InvalidDate(t *testing.T) {
	ls := &LogService{DB: newTestDB(t)}

	_, err := ls.ListRuns(ImportRunFilter{StartDate: ptrStr("03/02/2024")})
	if !errors.Is(err, util.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestLogService_ListRuns_ClampsLimit(t *testing.T) {
	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	ls := &LogService{DB: db}

	mock.ExpectQuery(`SELECT \* FROM "import_runs" ORDER BY .* LIMIT \$1`).
		WithArgs(MaxRunLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "run_id"}))

	runs, err := ls.ListRuns(ImportRunFilter{Limit: 500})
	if err != nil {
		t.Fatalf("ListRuns err: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
