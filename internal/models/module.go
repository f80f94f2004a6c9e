package models

// ProgramAll is the sentinel marking a module applicable to every program.
const ProgramAll = "All Programs"

// Module is a curriculum unit containing a sequence of scored activities.
// Static reference data, not user-editable.
type Module struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Programs []string `json:"programs"`
}

// AppliesTo reports whether the module covers the given program level.
func (m Module) AppliesTo(program string) bool {
	for _, p := range m.Programs {
		if p == ProgramAll || p == program {
			return true
		}
	}
	return false
}
