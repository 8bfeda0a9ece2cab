// Package enums provides type-safe enumeration types shared by the web interface, the history store
// and the diagnostics.
//
// The enum types are defined as unexported integer types in this file, and the go:generate directives
// invoke go-pkgz/enum to create the exported types in *_enum.go files. Every generated type supports
// String, Parse*, text marshaling (JSON) and database Scan/Value.
//
// To regenerate the enum types after modifications:
//
//	go generate ./app/web/enums
package enums

//go:generate go run github.com/go-pkgz/enum@latest -type runStatus -lower
//go:generate go run github.com/go-pkgz/enum@latest -type category -lower
//go:generate go run github.com/go-pkgz/enum@latest -type source -lower

// runStatus is the outcome of a diagnostic run.
// Use the exported RunStatus type and its constants in actual code.
type runStatus int

const (
	runStatusSuccess runStatus = iota
	runStatusFailed
	runStatusTimeout
)

// category is a flash message category, rendered as a css class.
// Use the exported Category type and its constants in actual code.
type category int

const (
	categorySuccess category = iota
	categoryDanger
	categoryWarning
	categoryInfo
)

// source tells where a diagnostic run was initiated.
// Use the exported Source type and its constants in actual code.
type source int

const (
	sourceWeb source = iota
	sourceSchedule
)

// IsZero reports whether the status was never set
func (e RunStatus) IsZero() bool { return e.name == "" }

// CategoryFor maps a run status to the flash category used to show it, anything but success is danger
func CategoryFor(s RunStatus) Category {
	if s == RunStatusSuccess {
		return CategorySuccess
	}
	return CategoryDanger
}
