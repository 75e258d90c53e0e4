// Package symbol implements the Annotation & Symbol Model (ASM): it
// normalizes the host's typed declarations into graphs, contributions,
// injected classes, providers, qualifiers, scopes, and keys (spec.md
// §4.1). Entities are built lazily from host symbols on first reference
// and cached by TypeID (spec.md §3 "Lifecycle"), grounded on the
// teacher's lazy Namespace/Scope construction in
// internal/checker/scope.go and internal/type_system.
package symbol

import (
	"strings"
	"sync"

	"github.com/metro-di/metro/internal/diag"
	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
)

// Model is the ASM entry point: one Model is built per compilation unit
// and shared by every graph pipeline built from it (spec.md §5 "the ASM
// cache ... is effectively immutable after first population and may be
// read by multiple graph pipelines concurrently").
type Model struct {
	enum    host.SymbolEnumerator
	oracle  host.TypeOracle
	markers *MarkerSet
	diags   *diag.Sink

	mu                 sync.Mutex
	graphRoots         map[key.TypeID]*GraphRootDecl
	graphExtensions    map[key.TypeID]*GraphExtensionDecl
	injectTargets      map[key.TypeID]*InjectTarget
	bindingContainers  map[key.TypeID]*BindingContainerDecl
	contributesTo      map[key.TypeID]*ContributesToDecl
	contributesBinding map[key.TypeID]*ContributesBindingDecl
	assistedFactories  map[key.TypeID]*AssistedFactoryDecl
	multibinds         map[key.TypeID]*MultibindsDecl
}

// NewModel constructs an ASM model over the given host collaborators.
// diags receives declaration-shape errors (spec.md §4.1 "Error
// conditions"); these are host-compilation-wide, not per-graph, so
// callers should report them once regardless of how many graphs are
// built from this Model.
func NewModel(enum host.SymbolEnumerator, oracle host.TypeOracle, markers *MarkerSet, diags *diag.Sink) *Model {
	return &Model{
		enum:               enum,
		oracle:             oracle,
		markers:            markers,
		diags:              diags,
		graphRoots:         map[key.TypeID]*GraphRootDecl{},
		graphExtensions:    map[key.TypeID]*GraphExtensionDecl{},
		injectTargets:      map[key.TypeID]*InjectTarget{},
		bindingContainers:  map[key.TypeID]*BindingContainerDecl{},
		contributesTo:      map[key.TypeID]*ContributesToDecl{},
		contributesBinding: map[key.TypeID]*ContributesBindingDecl{},
		assistedFactories:  map[key.TypeID]*AssistedFactoryDecl{},
		multibinds:         map[key.TypeID]*MultibindsDecl{},
	}
}

func (m *Model) has(sym host.Symbol, marker Marker) (host.Annotation, bool) {
	for _, fqn := range m.markers.FQNs(marker) {
		if a, ok := sym.Annotation(fqn); ok {
			return a, true
		}
	}
	return host.Annotation{}, false
}

// GraphRoot lazily builds and caches the GraphRootDecl for id, or
// reports an IllegalTarget diagnostic and returns false if id does not
// carry a recognized GraphRoot marker on an eligible class.
func (m *Model) GraphRoot(id key.TypeID) (*GraphRootDecl, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.graphRoots[id]; ok {
		return d, true
	}
	sym, ok := m.enum.Symbol(id)
	if !ok {
		return nil, false
	}
	// A @GraphExtension type is itself built through GraphRoot: it has
	// accessors, providers and constructor-injected dependencies exactly
	// like a top-level graph, just linked to a parent instead of
	// standing alone (spec.md §4.1 "GraphExtension(scope) ... a child
	// graph linked to a parent").
	ann, ok := m.has(sym, MarkerGraphRoot)
	if !ok {
		ann, ok = m.has(sym, MarkerGraphExtension)
	}
	if !ok {
		m.diags.Errorf(diag.KindIllegalTarget, sym.Span, "%s is not annotated as a graph root", sym.QualifiedName)
		return nil, false
	}
	decl := &GraphRootDecl{
		ID:      id,
		TypeKey: key.NewTypeKey(sym.QualifiedName, nil, false, nil),
		Span:    sym.Span,
	}
	if scopeLit, ok := ann.Get("scope"); ok {
		if cl, ok := scopeLit.(host.ClassLiteral); ok {
			decl.Scope = key.NewScopeKey(cl.Type.String())
		}
	}
	if decl.Scope.IsUnbounded() {
		decl.Scope = key.Unbounded
	}
	if extra, ok := ann.Get("additionalScopes"); ok {
		decl.AdditionalScopes = classLiteralsToScopes(extra)
	}
	if ext, ok := ann.Get("isExtendable"); ok {
		if b, ok := ext.(host.BoolLiteral); ok {
			decl.IsExtendable = bool(b)
		}
	}
	if containers, ok := ann.Get("bindingContainers"); ok {
		decl.BindingContainers = classLiteralsToKeys(containers)
	}
	if excludes, ok := ann.Get("excludes"); ok {
		decl.Excludes = classLiteralsToIDs(m, excludes)
	}

	self := &BindingContainerDecl{ID: id}
	for _, memberID := range sym.Members {
		member, ok := m.enum.Symbol(memberID)
		if !ok {
			continue
		}
		switch {
		case hasMarkerName(member, m, MarkerGraphRootFactory):
			f := m.buildGraphFactory(memberID, member)
			decl.Factory = f
		case hasMarkerName(member, m, MarkerGraphExtension):
			decl.Extensions = append(decl.Extensions, memberID)
		case hasMarkerName(member, m, MarkerMultibinds):
			m.classifyProviderMember(memberID, member, self)
		case isAccessor(member):
			decl.Accessors = append(decl.Accessors, AccessorDecl{
				Name: member.QualifiedName,
				Want: member.ReturnKey,
				Span: member.Span,
			})
		case isInjector(member):
			decl.Injectors = append(decl.Injectors, InjectorDecl{
				Name:   member.QualifiedName,
				Target: member.Params[0].Type.Key,
				Span:   member.Span,
			})
		default:
			m.classifyProviderMember(memberID, member, self)
		}
	}
	decl.Provides = self.Provides
	decl.Binds = self.Binds
	decl.Multibinds = self.Multibinds
	m.graphRoots[id] = decl
	return decl, true
}

// GraphExtension lazily builds and caches the GraphExtensionDecl for id.
func (m *Model) GraphExtension(id key.TypeID) (*GraphExtensionDecl, bool) {
	m.mu.Lock()
	if d, ok := m.graphExtensions[id]; ok {
		m.mu.Unlock()
		return d, true
	}
	m.mu.Unlock()

	sym, ok := m.enum.Symbol(id)
	if !ok {
		return nil, false
	}
	ann, ok := m.has(sym, MarkerGraphExtension)
	if !ok {
		return nil, false
	}
	root, _ := m.GraphRoot(id)
	decl := &GraphExtensionDecl{ID: id, TypeKey: key.NewTypeKey(sym.QualifiedName, nil, false, nil)}
	if scopeLit, ok := ann.Get("scope"); ok {
		if cl, ok := scopeLit.(host.ClassLiteral); ok {
			decl.Scope = key.NewScopeKey(cl.Type.String())
		}
	}
	if root != nil {
		decl.Root = *root
		decl.Factory = root.Factory
	}
	m.mu.Lock()
	m.graphExtensions[id] = decl
	m.mu.Unlock()
	return decl, true
}

func (m *Model) buildGraphFactory(id key.TypeID, sym host.Symbol) *GraphFactoryDecl {
	f := &GraphFactoryDecl{ID: id, Span: sym.Span}
	for _, memberID := range sym.Members {
		member, ok := m.enum.Symbol(memberID)
		if !ok || !member.IsAbstract {
			continue
		}
		f.CreateMethod = member.QualifiedName
		for _, p := range member.Params {
			param := Param{Name: p.Name, Type: p.Type, Span: p.Span}
			for _, a := range p.Annotations {
				if mk, ok := m.markers.MarkerFor(a.FQN); ok {
					switch mk {
					case MarkerProvides:
						param.ProvidesInstance = true
					case MarkerIncludes:
						param.Includes = true
					}
				}
			}
			f.InstanceParams = append(f.InstanceParams, param)
		}
	}
	return f
}

// classifyProviderMember recognizes @Provides/@Binds/@Multibinds members
// and builds a ProvidesDecl/BindsDecl/MultibindsDecl; only a
// MultibindsDecl is cached on the Model. container, when non-nil,
// receives a copy of each so binding-container aggregation sees it.
func (m *Model) classifyProviderMember(id key.TypeID, sym host.Symbol, container *BindingContainerDecl) {
	if ann, ok := m.has(sym, MarkerProvides); ok {
		if !sym.HasBody && sym.IsAbstract {
			m.diags.Errorf(diag.KindIllegalTarget, sym.Span, "@Provides member %s has no body", sym.QualifiedName)
			return
		}
		decl := m.buildProvidesDecl(id, sym, ann)
		if container != nil {
			container.Provides = append(container.Provides, *decl)
		}
		return
	}
	if ann, ok := m.has(sym, MarkerBinds); ok {
		decl := m.buildBindsDecl(id, sym, ann)
		if decl != nil && container != nil {
			container.Binds = append(container.Binds, *decl)
		}
		return
	}
	if ann, ok := m.has(sym, MarkerMultibinds); ok {
		decl := &MultibindsDecl{
			ID:         id,
			ElementKey: sym.ReturnKey.Key,
			IsMap:      isMapCollectionKey(sym.ReturnKey.Key),
			Span:       sym.Span,
		}
		if v, ok := ann.Get("allowEmpty"); ok {
			if b, ok := v.(host.BoolLiteral); ok {
				decl.AllowEmpty = bool(b)
			}
		}
		m.mu.Lock()
		m.multibinds[id] = decl
		m.mu.Unlock()
		if container != nil {
			container.Multibinds = append(container.Multibinds, *decl)
		}
	}
}

func (m *Model) buildProvidesDecl(id key.TypeID, sym host.Symbol, ann host.Annotation) *ProvidesDecl {
	decl := &ProvidesDecl{ID: id, ReturnKey: sym.ReturnKey, Span: sym.Span}
	for _, p := range sym.Params {
		decl.Params = append(decl.Params, Param{Name: p.Name, Type: p.Type, Span: p.Span})
	}
	if scopeAnn := scopeOf(m, sym); scopeAnn != nil {
		decl.Scope = scopeAnn
	}
	if _, ok := m.has(sym, MarkerIntoSet); ok {
		decl.IntoSet = true
	}
	if _, ok := m.has(sym, MarkerIntoMap); ok {
		decl.IntoMap = true
		decl.MapKey = mapKeyOf(m, sym)
	}
	if _, ok := m.has(sym, MarkerElementsIntoSet); ok {
		decl.ElementsIntoSet = true
	}
	_ = ann
	return decl
}

func (m *Model) buildBindsDecl(id key.TypeID, sym host.Symbol, ann host.Annotation) *BindsDecl {
	if len(sym.Params) != 1 {
		m.diags.Errorf(diag.KindIllegalTarget, sym.Span, "@Binds member %s must declare exactly one receiver parameter", sym.QualifiedName)
		return nil
	}
	decl := &BindsDecl{ID: id, FromKey: sym.Params[0].Type.Key, ToKey: sym.ReturnKey, Span: sym.Span}
	if !m.oracle.IsSubtype(decl.FromKey, decl.ToKey.Key) {
		m.diags.Errorf(diag.KindAnnotationConflict, sym.Span,
			"@Binds receiver %s does not conform to declared return type %s", decl.FromKey, decl.ToKey.Key)
		return nil
	}
	if scopeAnn := scopeOf(m, sym); scopeAnn != nil {
		decl.Scope = scopeAnn
	}
	if _, ok := m.has(sym, MarkerIntoSet); ok {
		decl.IntoSet = true
	}
	if _, ok := m.has(sym, MarkerIntoMap); ok {
		decl.IntoMap = true
		decl.MapKey = mapKeyOf(m, sym)
	}
	_ = ann
	return decl
}

// InjectTarget lazily builds and caches the InjectTarget for a class
// TypeID with exactly one eligible @Inject/@AssistedInject constructor
// (spec.md §4.3 rule 3). Returns false with a diagnostic if the class
// has conflicting inject markers or is otherwise ineligible
// (abstract/local/inaccessible, spec.md §4.1 "Error conditions"), and
// false without a diagnostic if it carries no inject marker at all.
func (m *Model) InjectTarget(id key.TypeID) (*InjectTarget, bool) {
	m.mu.Lock()
	if d, ok := m.injectTargets[id]; ok {
		m.mu.Unlock()
		return d, true
	}
	m.mu.Unlock()

	sym, ok := m.enum.Symbol(id)
	if !ok || sym.Kind != host.DeclKindClass {
		return nil, false
	}
	if sym.IsAbstract || sym.IsLocal || !sym.IsAccessible {
		m.diags.Errorf(diag.KindIllegalTarget, sym.Span, "%s is not eligible for constructor injection", sym.QualifiedName)
		return nil, false
	}

	var ctor *host.Symbol
	classLevel, classHasInject := m.has(sym, MarkerInject)
	for _, memberID := range sym.Members {
		member, ok := m.enum.Symbol(memberID)
		if !ok || member.Kind != host.DeclKindConstructor {
			continue
		}
		_, hasInject := m.has(member, MarkerInject)
		_, hasAssisted := m.has(member, MarkerAssistedInject)
		if hasInject || hasAssisted {
			if ctor != nil {
				m.diags.Errorf(diag.KindAnnotationConflict, sym.Span,
					"%s declares more than one injected constructor", sym.QualifiedName)
				return nil, false
			}
			c := member
			ctor = &c
		}
	}
	if classHasInject && ctor != nil {
		m.diags.Errorf(diag.KindAnnotationConflict, sym.Span,
			"%s has both a class-level and constructor-level @Inject", sym.QualifiedName)
		return nil, false
	}
	if !classHasInject && ctor == nil {
		return nil, false
	}
	_ = classLevel

	target := &InjectTarget{
		ID:        id,
		ReturnKey: key.NewTypeKey(sym.QualifiedName, nil, false, nil),
		Span:      sym.Span,
	}
	if ctor != nil {
		for _, p := range ctor.Params {
			param := Param{Name: p.Name, Type: p.Type, Span: p.Span}
			for _, a := range p.Annotations {
				if mk, ok := m.markers.MarkerFor(a.FQN); ok && mk == MarkerAssisted {
					param.Assisted = true
					if idLit, ok := a.Get("value"); ok {
						if s, ok := idLit.(host.StringLiteral); ok {
							param.AssistedID = string(s)
						}
					}
				}
			}
			target.Params = append(target.Params, param)
		}
		if scopeAnn := scopeOf(m, *ctor); scopeAnn != nil {
			target.Scope = scopeAnn
		}
	}
	if scopeAnn := scopeOf(m, sym); scopeAnn != nil {
		target.Scope = scopeAnn
	}
	for _, memberID := range sym.Members {
		member, ok := m.enum.Symbol(memberID)
		if !ok {
			continue
		}
		if _, hasInject := m.has(member, MarkerInject); hasInject && member.Kind != host.DeclKindConstructor {
			target.MembersToInject = append(target.MembersToInject, MemberSite{
				Name: member.QualifiedName,
				Type: member.ReturnKey,
				Span: member.Span,
			})
		}
	}

	m.mu.Lock()
	m.injectTargets[id] = target
	m.mu.Unlock()
	return target, true
}

// AssistedFactory lazily builds the AssistedFactoryDecl for a factory
// interface annotated @AssistedFactory.
func (m *Model) AssistedFactory(id key.TypeID) (*AssistedFactoryDecl, bool) {
	m.mu.Lock()
	if d, ok := m.assistedFactories[id]; ok {
		m.mu.Unlock()
		return d, true
	}
	m.mu.Unlock()

	sym, ok := m.enum.Symbol(id)
	if !ok {
		return nil, false
	}
	if _, ok := m.has(sym, MarkerAssistedFactory); !ok {
		return nil, false
	}
	var abstractMethod *host.Symbol
	for _, memberID := range sym.Members {
		member, ok := m.enum.Symbol(memberID)
		if !ok || !member.IsAbstract {
			continue
		}
		if abstractMethod != nil {
			m.diags.Errorf(diag.KindExtensionContract, sym.Span,
				"@AssistedFactory %s must declare exactly one abstract method", sym.QualifiedName)
			return nil, false
		}
		c := member
		abstractMethod = &c
	}
	if abstractMethod == nil {
		m.diags.Errorf(diag.KindExtensionContract, sym.Span, "@AssistedFactory %s has no abstract method", sym.QualifiedName)
		return nil, false
	}
	targetKey := abstractMethod.ReturnKey.Key
	targetSym, ok := m.enum.Symbol(targetIDFromKey(m, targetKey))
	decl := &AssistedFactoryDecl{
		ID:         id,
		FactoryKey: key.NewTypeKey(sym.QualifiedName, nil, false, nil),
		Span:       sym.Span,
	}
	if abstractMethod.QualifiedName != "" {
		decl.CreateMethod = Param{Name: abstractMethod.QualifiedName}
	}
	for _, p := range abstractMethod.Params {
		param := Param{Name: p.Name, Type: p.Type, Span: p.Span, Assisted: true}
		decl.AssistedParams = append(decl.AssistedParams, param)
	}
	if ok {
		decl.TargetClassID = targetSym.ID
	}
	m.mu.Lock()
	m.assistedFactories[id] = decl
	m.mu.Unlock()
	return decl, true
}

// BindingContainer lazily builds and caches a BindingContainerDecl,
// including the transitive closure of its `includes` list.
func (m *Model) BindingContainer(id key.TypeID) (*BindingContainerDecl, bool) {
	m.mu.Lock()
	if d, ok := m.bindingContainers[id]; ok {
		m.mu.Unlock()
		return d, true
	}
	m.mu.Unlock()

	sym, ok := m.enum.Symbol(id)
	if !ok {
		return nil, false
	}
	decl := &BindingContainerDecl{ID: id}
	if ann, ok := m.has(sym, MarkerBindingContainer); ok {
		if inc, ok := ann.Get("includes"); ok {
			decl.Includes = classLiteralsToKeys(inc)
		}
	}
	for _, memberID := range sym.Members {
		member, ok := m.enum.Symbol(memberID)
		if !ok {
			continue
		}
		m.classifyProviderMember(memberID, member, decl)
	}
	m.mu.Lock()
	m.bindingContainers[id] = decl
	m.mu.Unlock()
	return decl, true
}

// ContributesTo lazily builds a ContributesToDecl for a type annotated
// @ContributesTo.
func (m *Model) ContributesTo(id key.TypeID) (*ContributesToDecl, bool) {
	m.mu.Lock()
	if d, ok := m.contributesTo[id]; ok {
		m.mu.Unlock()
		return d, true
	}
	m.mu.Unlock()
	sym, ok := m.enum.Symbol(id)
	if !ok {
		return nil, false
	}
	ann, ok := m.has(sym, MarkerContributesTo)
	if !ok {
		return nil, false
	}
	decl := &ContributesToDecl{ID: id, TypeKey: key.NewTypeKey(sym.QualifiedName, nil, false, nil)}
	if s, ok := ann.Get("scope"); ok {
		if cl, ok := s.(host.ClassLiteral); ok {
			decl.Scope = key.NewScopeKey(cl.Type.String())
		}
	}
	if r, ok := ann.Get("replaces"); ok {
		decl.Replaces = classLiteralsToIDs(m, r)
	}
	m.mu.Lock()
	m.contributesTo[id] = decl
	m.mu.Unlock()
	return decl, true
}

// ContributesBinding lazily builds a ContributesBindingDecl for a class
// annotated @ContributesBinding/@ContributesIntoSet/@ContributesIntoMap.
func (m *Model) ContributesBinding(id key.TypeID) (*ContributesBindingDecl, bool) {
	m.mu.Lock()
	if d, ok := m.contributesBinding[id]; ok {
		m.mu.Unlock()
		return d, true
	}
	m.mu.Unlock()
	sym, ok := m.enum.Symbol(id)
	if !ok {
		return nil, false
	}
	classKey := key.NewTypeKey(sym.QualifiedName, nil, false, nil)
	decl := &ContributesBindingDecl{ID: id, ClassKey: classKey, Span: sym.Span}

	if ann, ok := m.has(sym, MarkerContributesBinding); ok {
		decl.BoundKey = boundKeyOf(m, sym, ann, classKey)
		fillScopeReplaces(m, ann, decl)
	} else if ann, ok := m.has(sym, MarkerContributesIntoSet); ok {
		decl.IntoSet = true
		decl.BoundKey = boundKeyOf(m, sym, ann, classKey)
		fillScopeReplaces(m, ann, decl)
	} else if ann, ok := m.has(sym, MarkerContributesIntoMap); ok {
		decl.IntoMap = true
		decl.BoundKey = boundKeyOf(m, sym, ann, classKey)
		decl.MapKey = mapKeyOf(m, sym)
		fillScopeReplaces(m, ann, decl)
	} else {
		return nil, false
	}

	m.mu.Lock()
	m.contributesBinding[id] = decl
	m.mu.Unlock()
	return decl, true
}

func fillScopeReplaces(m *Model, ann host.Annotation, decl *ContributesBindingDecl) {
	if s, ok := ann.Get("scope"); ok {
		if cl, ok := s.(host.ClassLiteral); ok {
			decl.Scope = key.NewScopeKey(cl.Type.String())
		}
	}
	if r, ok := ann.Get("replaces"); ok {
		decl.Replaces = classLiteralsToIDs(m, r)
	}
}

func boundKeyOf(m *Model, sym host.Symbol, ann host.Annotation, classKey key.TypeKey) key.TypeKey {
	if bt, ok := ann.Get("bindingType"); ok {
		if cl, ok := bt.(host.ClassLiteral); ok {
			return cl.Type
		}
	}
	if len(sym.Supertypes) > 0 {
		return sym.Supertypes[0]
	}
	return classKey
}

func scopeOf(m *Model, sym host.Symbol) *key.ScopeKey {
	for _, a := range sym.Annotations {
		if mk, ok := m.markers.MarkerFor(a.FQN); ok && mk == MarkerScope {
			s := key.NewScopeKey(a.FQN)
			return &s
		}
	}
	// A scope marker is itself annotated @Scope; recognize any
	// annotation whose own declaring annotation is a scope marker by
	// checking against the configured scope FQNs is a host/type-oracle
	// concern in real dialects. Here we also accept an annotation whose
	// FQN the host directly tags as a scope via the "scope" marker set,
	// handled above.
	return nil
}

func mapKeyOf(m *Model, sym host.Symbol) *key.MapKey {
	for _, a := range sym.Annotations {
		if mk, ok := m.markers.MarkerFor(a.FQN); ok && mk == MarkerMapKey {
			if v, ok := a.Get("value"); ok {
				return &key.MapKey{KeyType: a.FQN, Literal: v.Canonical()}
			}
			return &key.MapKey{KeyType: a.FQN, Literal: ""}
		}
	}
	return nil
}

// isMapCollectionKey reports whether a @Multibinds member's declared
// return type is a Map<K, V> rather than a Set<T>/Collection<T>, by the
// same qualified-name convention internal/graph uses to synthesize
// multi-binding TypeKeys.
func isMapCollectionKey(k key.TypeKey) bool {
	return strings.HasPrefix(k.String(), "kotlin.collections.Map<")
}

func isAccessor(sym host.Symbol) bool {
	return (sym.Kind == host.DeclKindProperty || sym.Kind == host.DeclKindFunction) &&
		sym.IsAbstract && len(sym.Params) == 0 && !sym.ReturnKey.Key.IsZero()
}

func isInjector(sym host.Symbol) bool {
	return sym.Kind == host.DeclKindFunction && sym.IsAbstract && len(sym.Params) == 1 && sym.ReturnKey.Key.IsZero()
}

func hasMarkerName(sym host.Symbol, m *Model, marker Marker) bool {
	_, ok := m.has(sym, marker)
	return ok
}

func classLiteralsToScopes(lit host.Literal) []key.ScopeKey {
	list, ok := lit.(host.ListLiteral)
	if !ok {
		return nil
	}
	out := make([]key.ScopeKey, 0, len(list))
	for _, l := range list {
		if cl, ok := l.(host.ClassLiteral); ok {
			out = append(out, key.NewScopeKey(cl.Type.String()))
		}
	}
	return out
}

func classLiteralsToKeys(lit host.Literal) []key.TypeKey {
	list, ok := lit.(host.ListLiteral)
	if !ok {
		return nil
	}
	out := make([]key.TypeKey, 0, len(list))
	for _, l := range list {
		if cl, ok := l.(host.ClassLiteral); ok {
			out = append(out, cl.Type)
		}
	}
	return out
}

func classLiteralsToIDs(m *Model, lit host.Literal) []key.TypeID {
	keys := classLiteralsToKeys(lit)
	out := make([]key.TypeID, 0, len(keys))
	for _, k := range keys {
		out = append(out, targetIDFromKey(m, k))
	}
	return out
}

// ResolveKey resolves a TypeKey back to the TypeID the host enumerator
// knows it by, for callers outside this package (e.g. CA resolving a
// BindingContainer's `includes` list).
func (m *Model) ResolveKey(k key.TypeKey) (key.TypeID, bool) {
	id := targetIDFromKey(m, k)
	return id, id >= 0
}

// targetIDFromKey resolves a TypeKey back to the TypeID the host
// enumerator knows it by. In the real host integration this is a direct
// oracle lookup; the abstract SymbolEnumerator here is searched linearly
// since AllSymbols is expected to be small per compilation unit.
func targetIDFromKey(m *Model, k key.TypeKey) key.TypeID {
	for _, id := range m.enum.AllSymbols() {
		sym, ok := m.enum.Symbol(id)
		if ok && key.NewTypeKey(sym.QualifiedName, nil, false, nil) == k {
			return id
		}
	}
	return -1
}
