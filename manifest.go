package pkggraph

// TargetKind classifies what a Target compiles to.
type TargetKind int8

const (
	TargetLibrary TargetKind = iota
	TargetExecutable
	TargetTest
	TargetSystem
	TargetPlugin
	TargetMacro
	TargetBinary
)

func (k TargetKind) String() string {
	switch k {
	case TargetLibrary:
		return "library"
	case TargetExecutable:
		return "executable"
	case TargetTest:
		return "test"
	case TargetSystem:
		return "system"
	case TargetPlugin:
		return "plugin"
	case TargetMacro:
		return "macro"
	case TargetBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// BuildTriple tags which machine a module instance is compiled for: the
// eventual run destination, or the host running build-time tools (macro
// expanders, plugins).
type BuildTriple int8

const (
	TripleDestination BuildTriple = iota
	TripleTools
)

func (t BuildTriple) String() string {
	if t == TripleTools {
		return "tools"
	}
	return "destination"
}

// Condition gates a dependency edge's survival into the graph: it must hold
// on at least one disjunct for the edge to remain.
type Condition struct {
	// Platforms, if non-empty, restricts the edge to these platform names.
	// Preserved unchanged into the graph; evaluated later by a build
	// planner the core does not implement.
	Platforms []string
	// Configuration, if non-empty ("debug" or "release"), restricts the
	// edge similarly. Preserved unchanged.
	Configuration string
	// Traits, if non-empty, must all be enabled on the declaring package
	// for the edge to survive. Resolved immediately during graph
	// construction, unlike Platforms/Configuration.
	Traits []string
}

// IsEmpty reports whether the condition imposes no restriction at all.
func (c Condition) IsEmpty() bool {
	return len(c.Platforms) == 0 && c.Configuration == "" && len(c.Traits) == 0
}

// TraitsSatisfiedBy reports whether every trait c names is present in
// enabled.
func (c Condition) TraitsSatisfiedBy(enabled map[string]bool) bool {
	for _, t := range c.Traits {
		if !enabled[t] {
			return false
		}
	}
	return true
}

// TargetDependency is a target→(target|product) edge declared inside a
// package: either a bare name resolved during graph construction, or an
// explicit cross-package product reference.
type TargetDependency struct {
	Name    string
	Package string // non-empty for an explicit .product(name:, package:) reference
	Cond    Condition
}

// Target is a compilable unit within a package (spec.md's "module").
type Target struct {
	Name         string
	Kind         TargetKind
	Dependencies []TargetDependency
	// SourcesOverride, if non-empty, replaces the conventional
	// Sources/<name>/ path the builder's file-existence probe checks.
	SourcesOverride string
	// Platforms lists this target's explicitly declared minimum platform
	// versions, keyed by platform name (e.g. "macos" -> "10.15").
	Platforms map[string]string
	// TraitSettings are target settings whose own trait condition gates
	// whether they contribute a synthetic compilation define.
	TraitSettings []TraitSetting
}

// TraitSetting is a target-level setting active only when a named trait is
// enabled on the declaring package.
type TraitSetting struct {
	Trait  string
	Define string
}

// ProductType classifies what a Product builds as.
type ProductType int8

const (
	ProductLibraryAutomatic ProductType = iota
	ProductLibraryStatic
	ProductLibraryDynamic
	ProductExecutable
	ProductPlugin
)

func (t ProductType) String() string {
	switch t {
	case ProductLibraryStatic:
		return "library(static)"
	case ProductLibraryDynamic:
		return "library(dynamic)"
	case ProductExecutable:
		return "executable"
	case ProductPlugin:
		return "plugin"
	default:
		return "library(automatic)"
	}
}

// Product is a named, independently-consumable build output over a set of
// member targets declared within the same package.
type Product struct {
	Name    string
	Type    ProductType
	Members []string // target names
}

// TraitActivation is what a package dependency declaration can turn on in
// the dependee: either unconditionally, or gated on traits enabled on the
// declaring package.
type TraitActivation struct {
	Trait        string
	IfDeclarerOn []string // empty means unconditional
}

// PackageDependency is one entry in a manifest's dependency list.
type PackageDependency struct {
	Ref             PackageRef
	Req             Requirement
	Traits          []TraitActivation
	DeprecatedAlias string
}

// TraitDecl is a package's own declaration of a trait it exposes, and what
// that trait (when enabled) in turn enables locally.
type TraitDecl struct {
	Name          string
	EnabledTraits []string // traits this trait transitively turns on, same package
}

// Manifest is the immutable declarative description of one package,
// produced by the caller (normally by parsing a package description on
// disk) and fed into Resolve/BuildGraph. pkggraph never constructs or
// mutates one on its own.
type Manifest struct {
	Identity PackageIdentity
	Name     string
	Location string // source-control URL, filesystem path, or registry coordinate
	// ToolsVersion is the tools-version this manifest declares. BuildGraph
	// checks it against MinimumSupportedToolsVersion; the
	// explicit-product-reference and package-cycle rules follow
	// BuildGraphParams.ToolsVersion instead.
	ToolsVersion      string
	DeclaredPlatforms map[string]string
	Products          []Product
	Targets           []Target
	Dependencies      []PackageDependency
	Traits            []TraitDecl
	PruneDependencies bool
}

// TargetByName returns the target named name, if declared.
func (m *Manifest) TargetByName(name string) (Target, bool) {
	for _, t := range m.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// DefaultEnabledTraits returns the enabled-traits list named "default", if
// the manifest declares one.
func (m *Manifest) DefaultEnabledTraits() ([]string, bool) {
	for _, t := range m.Traits {
		if t.Name == "default" {
			return t.EnabledTraits, true
		}
	}
	return nil, false
}
