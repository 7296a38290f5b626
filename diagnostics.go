package pkggraph

import (
	"fmt"
	"sort"
)

// Severity classifies a Diagnostic.
type Severity int8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// DiagnosticMetadata carries the optional structured context a diagnostic
// may attach, per spec.md §6.
type DiagnosticMetadata struct {
	PackageIdentity PackageIdentity
	ModuleName      string
	PackageKind     string
}

// Diagnostic is one structured record emitted by the graph builder (or,
// rarely, the resolver) while it continues to collect further diagnostics.
type Diagnostic struct {
	Message  string
	Severity Severity
	Metadata DiagnosticMetadata
}

// Diagnostics is an append-only, insertion-ordered buffer. Consumers that
// want severity-grouped output should call SortBySeverity on a copy; the
// buffer itself never reorders what callers appended.
type Diagnostics struct {
	records []Diagnostic
}

func (d *Diagnostics) Add(r Diagnostic) { d.records = append(d.records, r) }

func (d *Diagnostics) Errorf(pkg PackageIdentity, module, format string, args ...any) {
	d.Add(Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
		Metadata: DiagnosticMetadata{PackageIdentity: pkg, ModuleName: module},
	})
}

func (d *Diagnostics) Warnf(pkg PackageIdentity, module, format string, args ...any) {
	d.Add(Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
		Metadata: DiagnosticMetadata{PackageIdentity: pkg, ModuleName: module},
	})
}

// Records returns the buffer in insertion order.
func (d *Diagnostics) Records() []Diagnostic {
	out := make([]Diagnostic, len(d.records))
	copy(out, d.records)
	return out
}

// HasErrors reports whether any recorded diagnostic is severity error.
func (d *Diagnostics) HasErrors() bool {
	for _, r := range d.records {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SortBySeverity returns a copy of the buffer ordered errors-before-warnings,
// stable within each severity.
func (d *Diagnostics) SortBySeverity() []Diagnostic {
	out := d.Records()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}
