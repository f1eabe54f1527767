package constants

// Scope selects where cohortsim keeps its data directory: next to the
// working project or in the user's home.
type Scope string

const (
	// ScopeLocal keeps history and traces under <root>/.cohortsim
	ScopeLocal Scope = "local"

	// ScopeGlobal keeps history and traces under ~/.cohortsim
	ScopeGlobal Scope = "global"
)

// DataDirName is the name of the data directory in either scope.
const DataDirName = ".cohortsim"

// Valid returns true if the scope is a recognized value.
func (s Scope) Valid() bool {
	switch s {
	case ScopeLocal, ScopeGlobal:
		return true
	}
	return false
}

// String returns the string representation of the scope.
func (s Scope) String() string {
	return string(s)
}
