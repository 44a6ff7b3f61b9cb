package importer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
	"time"

	"uniform-tracker-api/internal/technician"
	"uniform-tracker-api/internal/util"
)

type Reconciler struct {
	Store technician.ImportStore
	Rules Rules
	Now   func() time.Time
}

func NewReconciler(store technician.ImportStore) *Reconciler {
	return &Reconciler{Store: store, Rules: DefaultRules(), Now: time.Now}
}

// Plan holds both parsed workbooks. Nothing has been written when it exists.
type Plan struct {
	RosterFile  string
	FittingFile string

	roster  *Workbook
	fitting *Workbook
	r       *Reconciler
}

// Prepare discovers and parses both workbooks. Any error here means the run
// must stop before touching the store.
func (r *Reconciler) Prepare(ctx context.Context, src Source, markers Markers) (*Plan, error) {
	rosterName, fittingName, err := Discover(ctx, src, markers)
	if err != nil {
		return nil, err
	}

	roster, err := loadWorkbook(ctx, src, rosterName)
	if err != nil {
		return nil, err
	}
	fitting, err := loadWorkbook(ctx, src, fittingName)
	if err != nil {
		return nil, err
	}

	return r.NewPlan(roster, fitting), nil
}

func (r *Reconciler) NewPlan(roster, fitting *Workbook) *Plan {
	return &Plan{
		RosterFile:  roster.Name,
		FittingFile: fitting.Name,
		roster:      roster,
		fitting:     fitting,
		r:           r,
	}
}

func loadWorkbook(ctx context.Context, src Source, name string) (*Workbook, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	return ReadWorkbook(name, rc)
}

// Outcomes runs the technician pass to completion and then the check-in pass,
// yielding one outcome per data row. Rows are processed as they are pulled.
func (p *Plan) Outcomes() iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		for o := range p.Technicians() {
			if !yield(o) {
				return
			}
		}
		for o := range p.CheckIns() {
			if !yield(o) {
				return
			}
		}
	}
}

// Technicians upserts one technician per roster row across every sheet.
func (p *Plan) Technicians() iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		for _, sheet := range p.roster.Sheets {
			for _, row := range buildRows(sheet.Rows, 0) {
				o := p.importTechnician(row)
				o.Pass, o.File, o.Sheet, o.Row, o.Cells = PassTechnicians, p.RosterFile, sheet.Name, row.Number, row
				if !yield(o) {
					return
				}
			}
		}
	}
}

// CheckIns records one check-in per row of the fitting log's first sheet.
func (p *Plan) CheckIns() iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		sheet := p.fitting.Sheets[0]
		for _, row := range buildRows(sheet.Rows, p.fittingHeaderRow(sheet)) {
			o := p.importCheckIn(row)
			o.Pass, o.File, o.Sheet, o.Row, o.Cells = PassCheckIns, p.FittingFile, sheet.Name, row.Number, row
			if !yield(o) {
				return
			}
		}
	}
}

// fittingHeaderRow is 0 when the first row carries a recognised id header.
// Otherwise the first row is a title or banner and the header sits below it.
func (p *Plan) fittingHeaderRow(sheet Sheet) int {
	if len(sheet.Rows) == 0 || p.r.Rules.FittingID.HasHeader(sheet.Rows[0]) {
		return 0
	}
	return 1
}

func (p *Plan) importTechnician(row Row) Outcome {
	rules := p.r.Rules

	raw, _, ok := rules.RosterID.Resolve(row)
	if !ok {
		return skipped("missing tech id")
	}
	if rules.RosterID.IsLabel(raw) {
		return skipped(fmt.Sprintf("repeated header row (%q)", raw))
	}

	techID, err := parseTechID(raw)
	if err != nil {
		return skipped(err.Error())
	}

	first, _, _ := rules.FirstName.Resolve(row)
	last, _, _ := rules.LastName.Resolve(row)
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		o := skipped("missing name")
		o.TechID = techID
		return o
	}

	res, err := p.r.Store.UpsertTechnician(techID, name)
	if err != nil {
		o := failed(err)
		o.TechID = techID
		return o
	}

	return Outcome{Status: StatusAccepted, TechID: techID, Created: res.Created}
}

func (p *Plan) importCheckIn(row Row) Outcome {
	rules := p.r.Rules

	raw, _, ok := rules.FittingID.Resolve(row)
	if !ok {
		return skipped("missing tech id")
	}
	techID, err := parseTechID(raw)
	if err != nil {
		return skipped(err.Error())
	}

	uniform, _, _ := rules.Uniform.Resolve(row)
	dateRaw, _, _ := rules.FitDate.Resolve(row)

	createdAt, parsed := util.ParseFitDate(dateRaw)
	if !parsed {
		createdAt = p.r.now()
	}

	tech, err := p.r.Store.FindByTechID(techID)
	if err != nil {
		var o Outcome
		if errors.Is(err, technician.ErrTechnicianNotFound) {
			o = skipped(fmt.Sprintf("no technician with tech id %d", techID))
		} else {
			o = failed(err)
		}
		o.TechID = techID
		return o
	}

	if _, err := p.r.Store.CreateCheckIn(tech.ID, uniform, createdAt); err != nil {
		o := failed(err)
		o.TechID = techID
		return o
	}

	return Outcome{
		Status:        StatusAccepted,
		TechID:        techID,
		DateRaw:       dateRaw,
		DateDefaulted: !parsed,
	}
}

func (r *Reconciler) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// parseTechID accepts integer text and integral decimals such as "1001.0".
func parseTechID(raw string) (int, error) {
	s := strings.TrimSpace(raw)

	id, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("tech id %q is not numeric", raw)
		}
		id = int(f)
	}
	if id <= 0 {
		return 0, fmt.Errorf("tech id %q is not a positive number", raw)
	}
	return id, nil
}

func skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Reason: err.Error(), Err: err}
}
