package symbol

// Marker names the abstract annotations ASM recognizes on host
// declarations (spec.md §4.1). The concrete FQN each one maps to is
// configurable at construction time via Options.CustomAnnotations /
// Options.AllowForeignAnnotations (which folds in DefaultForeignAliases)
// so the core never hard-codes one dialect's
// package names.
type Marker string

const (
	MarkerGraphRoot             Marker = "GraphRoot"
	MarkerGraphRootFactory      Marker = "GraphRoot.Factory"
	MarkerGraphExtension        Marker = "GraphExtension"
	MarkerGraphExtensionFactory Marker = "GraphExtension.Factory"
	MarkerContributesTo         Marker = "ContributesTo"
	MarkerContributesBinding    Marker = "ContributesBinding"
	MarkerContributesIntoSet    Marker = "ContributesIntoSet"
	MarkerContributesIntoMap    Marker = "ContributesIntoMap"
	MarkerInject                Marker = "Inject"
	MarkerAssistedInject        Marker = "AssistedInject"
	MarkerAssisted              Marker = "Assisted"
	MarkerAssistedFactory       Marker = "AssistedFactory"
	MarkerProvides              Marker = "Provides"
	MarkerBinds                 Marker = "Binds"
	MarkerIntoSet               Marker = "IntoSet"
	MarkerIntoMap               Marker = "IntoMap"
	MarkerElementsIntoSet       Marker = "ElementsIntoSet"
	MarkerMultibinds            Marker = "Multibinds"
	MarkerScope                 Marker = "Scope"
	MarkerQualifier             Marker = "Qualifier"
	MarkerMapKey                Marker = "MapKey"
	MarkerBindingContainer      Marker = "BindingContainer"
	MarkerIncludes              Marker = "Includes"
)

// MarkerSet maps each recognized Marker to the set of annotation FQNs
// that satisfy it in the current host session. Foreign DI dialects are
// folded in here at construction time (spec.md §6 "Interoperability
// flags") so that everywhere else in the pipeline only the abstract
// Marker is ever tested for — never a concrete FQN.
type MarkerSet struct {
	byMarker map[Marker][]string
	byFQN    map[string]Marker
}

// NewMarkerSet builds a MarkerSet from the core's own annotation
// package plus any configured custom/foreign aliases. coreFQN gives the
// single canonical FQN for each Marker; aliases maps additional foreign
// FQNs onto the same Marker (semantic equivalence, not syntactic,
// per spec.md §6).
func NewMarkerSet(coreFQN map[Marker]string, aliases map[string]Marker) *MarkerSet {
	ms := &MarkerSet{
		byMarker: make(map[Marker][]string, len(coreFQN)),
		byFQN:    make(map[string]Marker, len(coreFQN)+len(aliases)),
	}
	for m, fqn := range coreFQN {
		ms.byMarker[m] = append(ms.byMarker[m], fqn)
		ms.byFQN[fqn] = m
	}
	for fqn, m := range aliases {
		ms.byMarker[m] = append(ms.byMarker[m], fqn)
		ms.byFQN[fqn] = m
	}
	return ms
}

// MarkerFor returns the Marker a concrete annotation FQN satisfies, if
// any.
func (ms *MarkerSet) MarkerFor(fqn string) (Marker, bool) {
	m, ok := ms.byFQN[fqn]
	return m, ok
}

// FQNs returns every concrete annotation FQN recognized for a Marker.
func (ms *MarkerSet) FQNs(m Marker) []string {
	return ms.byMarker[m]
}

// DefaultForeignAliases maps well-known foreign DI annotation FQNs onto
// the equivalent core Marker (spec.md §6 "Interoperability flags extend
// the recognized annotation set with equivalents from named foreign DI
// families; equivalence is semantic, not syntactic"). Only consulted
// when Options.AllowForeignAnnotations is set; translation happens once
// here in ASM and is never referenced again downstream (spec.md §9).
func DefaultForeignAliases() map[string]Marker {
	return map[string]Marker{
		"javax.inject.Inject":             MarkerInject,
		"javax.inject.Qualifier":          MarkerQualifier,
		"javax.inject.Scope":              MarkerScope,
		"jakarta.inject.Inject":           MarkerInject,
		"jakarta.inject.Qualifier":        MarkerQualifier,
		"jakarta.inject.Scope":            MarkerScope,
		"dagger.Component":                MarkerGraphRoot,
		"dagger.Component.Factory":        MarkerGraphRootFactory,
		"dagger.Subcomponent":             MarkerGraphExtension,
		"dagger.Subcomponent.Factory":     MarkerGraphExtensionFactory,
		"dagger.Module":                   MarkerBindingContainer,
		"dagger.Provides":                 MarkerProvides,
		"dagger.Binds":                    MarkerBinds,
		"dagger.multibindings.IntoSet":    MarkerIntoSet,
		"dagger.multibindings.IntoMap":    MarkerIntoMap,
		"dagger.multibindings.Multibinds": MarkerMultibinds,
		"dagger.multibindings.MapKey":     MarkerMapKey,
		"dagger.assisted.Assisted":        MarkerAssisted,
		"dagger.assisted.AssistedInject":  MarkerAssistedInject,
		"dagger.assisted.AssistedFactory": MarkerAssistedFactory,
		"com.squareup.anvil.annotations.ContributesTo":      MarkerContributesTo,
		"com.squareup.anvil.annotations.ContributesBinding": MarkerContributesBinding,
	}
}

// DefaultCoreFQN is the core framework's own annotation package, used
// whenever the host doesn't override it.
func DefaultCoreFQN() map[Marker]string {
	const pkg = "metro."
	return map[Marker]string{
		MarkerGraphRoot:             pkg + "DependencyGraph",
		MarkerGraphRootFactory:      pkg + "DependencyGraph.Factory",
		MarkerGraphExtension:        pkg + "GraphExtension",
		MarkerGraphExtensionFactory: pkg + "GraphExtension.Factory",
		MarkerContributesTo:         pkg + "ContributesTo",
		MarkerContributesBinding:    pkg + "ContributesBinding",
		MarkerContributesIntoSet:    pkg + "ContributesIntoSet",
		MarkerContributesIntoMap:    pkg + "ContributesIntoMap",
		MarkerInject:                pkg + "Inject",
		MarkerAssistedInject:        pkg + "AssistedInject",
		MarkerAssisted:              pkg + "Assisted",
		MarkerAssistedFactory:       pkg + "AssistedFactory",
		MarkerProvides:              pkg + "Provides",
		MarkerBinds:                 pkg + "Binds",
		MarkerIntoSet:               pkg + "IntoSet",
		MarkerIntoMap:               pkg + "IntoMap",
		MarkerElementsIntoSet:       pkg + "ElementsIntoSet",
		MarkerMultibinds:            pkg + "Multibinds",
		MarkerScope:                 pkg + "Scope",
		MarkerQualifier:             pkg + "Qualifier",
		MarkerMapKey:                pkg + "MapKey",
		MarkerBindingContainer:      pkg + "BindingContainer",
		MarkerIncludes:              pkg + "Includes",
	}
}
