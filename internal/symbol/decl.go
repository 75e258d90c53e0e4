package symbol

import (
	"github.com/metro-di/metro/internal/key"
)

// Param is a constructor/function parameter as ASM normalizes it for
// binding resolution: its contextual type plus whatever assisted/
// factory-instance markers were recognized on it.
type Param struct {
	Name       string
	Type       key.ContextualTypeKey
	Assisted   bool
	AssistedID string
	// ProvidesInstance marks a GraphRoot.Factory parameter annotated
	// @Provides (binds a value passed into the graph).
	ProvidesInstance bool
	// Includes marks a GraphRoot.Factory parameter annotated @Includes
	// (merges another graph/container's bindings in).
	Includes bool
	Span     key.Span
}

// InjectTarget is a class with exactly one recognized @Inject/
// @AssistedInject constructor, eligible for ConstructorInject synthesis
// (spec.md §4.3 rule 3).
type InjectTarget struct {
	ID            key.TypeID
	ReturnKey     key.TypeKey
	Params        []Param
	Scope         *key.ScopeKey
	Qualifier     *key.Qualifier
	Span          key.Span
	MembersToInject []MemberSite
}

// MemberSite is one @Inject-annotated field or setter a MembersInjector
// must populate, in declaration order; supertype sites come first
// (spec.md §4.5.2 "supertype-then-subtype order").
type MemberSite struct {
	Name string
	Type key.ContextualTypeKey
	Span key.Span
}

// ProvidesDecl is a user-written @Provides factory method/property.
type ProvidesDecl struct {
	ID        key.TypeID
	ReturnKey key.ContextualTypeKey
	Params    []Param
	Scope     *key.ScopeKey
	Span      key.Span

	IntoSet         bool
	IntoMap         bool
	ElementsIntoSet bool
	MapKey          *key.MapKey
}

// BindsDecl is an abstract @Binds redirect: FromKey (the receiver/
// parameter type) to ToKey (the declared return type). Binds produces
// no code of its own; GB forwards through it to ToKey (spec.md §4.3
// "Alias resolution").
type BindsDecl struct {
	ID      key.TypeID
	FromKey key.TypeKey
	ToKey   key.ContextualTypeKey
	Scope   *key.ScopeKey
	Span    key.Span

	IntoSet bool
	IntoMap bool
	MapKey  *key.MapKey
}

// MultibindsDecl is an explicit @Multibinds declaration allowing an
// empty multi-binding (spec.md §4.3 rule 5, §4.4.2 "Empty multi-binding").
type MultibindsDecl struct {
	ID         key.TypeID
	ElementKey key.TypeKey
	IsMap      bool
	AllowEmpty bool
	Span       key.Span
}

// AssistedFactoryDecl pairs an injected class with assisted parameters
// to the single-abstract-method factory interface that constructs it
// (spec.md §3 Entities, Invariant 4).
type AssistedFactoryDecl struct {
	ID             key.TypeID
	FactoryKey     key.TypeKey
	CreateMethod   Param
	TargetClassID  key.TypeID
	AssistedParams []Param
	Span           key.Span
}

// BindingContainerDecl is a non-graph holder of providers (spec.md §3
// "Binding container"); Includes transitively merges other containers.
type BindingContainerDecl struct {
	ID         key.TypeID
	Includes   []key.TypeKey
	Provides   []ProvidesDecl
	Binds      []BindsDecl
	Multibinds []MultibindsDecl
}

// ContributesToDecl attaches a container's providers/binds to every
// graph of a given scope.
type ContributesToDecl struct {
	ID       key.TypeID
	TypeKey  key.TypeKey
	Scope    key.ScopeKey
	Replaces []key.TypeID
}

// ContributesBindingDecl contributes a concrete class as a bound type,
// or into a multi-binding, for every graph of a given scope.
type ContributesBindingDecl struct {
	ID        key.TypeID
	ClassKey  key.TypeKey
	BoundKey  key.TypeKey
	Scope     key.ScopeKey
	Replaces  []key.TypeID
	IntoSet   bool
	IntoMap   bool
	MapKey    *key.MapKey
	Span      key.Span
}

// GraphFactoryDecl is a graph's nested Factory type: its single abstract
// method's parameters define InstanceBindings and Includes merges.
type GraphFactoryDecl struct {
	ID             key.TypeID
	CreateMethod   string
	InstanceParams []Param
	Span           key.Span
}

// GraphRootDecl declares a graph entry point.
type GraphRootDecl struct {
	ID                key.TypeID
	TypeKey           key.TypeKey
	Scope             key.ScopeKey
	AdditionalScopes  []key.ScopeKey
	IsExtendable      bool
	BindingContainers []key.TypeKey
	Excludes          []key.TypeID
	Factory           *GraphFactoryDecl
	// Provides/Binds are providers declared directly on the graph root
	// type itself, as opposed to pulled in through a BindingContainer
	// (spec.md §4.3 population order step 3 "providers visible on the
	// graph").
	Provides   []ProvidesDecl
	Binds      []BindsDecl
	Multibinds []MultibindsDecl
	// Extensions lists nested types directly annotated GraphExtension
	// (spec.md §4.3 "Graph extensions ... discovered via contribution or
	// declared directly" — this covers the "declared directly" case).
	Extensions []key.TypeID
	// Accessors are root requests: properties/no-arg abstract methods.
	Accessors []AccessorDecl
	// Injectors are inject(target) methods.
	Injectors []InjectorDecl
	Span      key.Span
}

// AccessorDecl is a root request exposed by a no-parameter
// property/method on the graph (spec.md §4.4.2 "accessor methods on
// graph types must have no parameters").
type AccessorDecl struct {
	Name string
	Want key.ContextualTypeKey
	Span key.Span
}

// InjectorDecl is a graph method of the shape inject(target: T): void.
type InjectorDecl struct {
	Name   string
	Target key.TypeKey
	Span   key.Span
}

// GraphExtensionDecl is a child graph linked to a parent by the scope
// its factory is declared for.
type GraphExtensionDecl struct {
	ID      key.TypeID
	TypeKey key.TypeKey
	Scope   key.ScopeKey
	Factory *GraphFactoryDecl
	Root    GraphRootDecl
}
