package pkggraph

// OverrideKind selects how a root package's initial enabled-trait set is
// computed, in place of its manifest's own "default" trait.
type OverrideKind int8

const (
	// OverrideUseDefault seeds from the manifest's "default" trait (empty
	// if it declares none). This is the behavior for every non-root
	// package regardless of what the caller passes for the root.
	OverrideUseDefault OverrideKind = iota
	// OverrideDisableAll seeds an empty set, ignoring "default".
	OverrideDisableAll
	// OverrideExplicit seeds exactly the named traits, ignoring "default".
	OverrideExplicit
)

// Override is the caller-supplied root trait configuration passed to
// BuildGraph, per spec.md §4.5's disableAllTraits/enabledTraits(X) knobs.
type Override struct {
	Kind  OverrideKind
	Names []string
}
