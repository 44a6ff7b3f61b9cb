package importer

import "fmt"

const (
	RoleRoster  = "roster"
	RoleFitting = "fitting log"
)

// SourceNotFoundError aborts a run before anything is written: no workbook in
// the source matched the marker for Role.
type SourceNotFoundError struct {
	Role   string
	Marker string
	Source string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("%s workbook matching %q not found in %s", e.Role, e.Marker, e.Source)
}
