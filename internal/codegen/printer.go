package codegen

import "strings"

// Printer renders a Plan to deterministic pseudo-source text: one
// generated factory type per graph, its fields in Plan.Fields order,
// its back-edge patches last. Grounded on the teacher's codegen.Printer
// (an indent-tracking string builder with a NewLine/print primitive
// pair); this printer drops source-span bookkeeping since nothing
// downstream of EM consumes column/line positions for generated code.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) newLine() {
	p.output.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) print(s string) { p.output.WriteString(s) }

// Print renders plan and every planned child in declaration order.
// Calling Print twice on the same Plan produces byte-identical output
// (spec.md §4.5 determinism requirement): nothing here reads wall-clock
// time or map iteration order, only Plan's already-deterministic slices.
func Print(plan *Plan) string {
	p := NewPrinter()
	p.printGraph(plan)
	return p.output.String()
}

func (p *Printer) printGraph(plan *Plan) {
	p.print("type " + plan.GraphName + " struct {")
	p.indent++
	for _, f := range plan.Fields {
		p.newLine()
		p.print(f.Name + " " + f.Key.String())
	}
	p.indent--
	p.newLine()
	p.print("}")
	p.newLine()

	p.print("func new" + plan.GraphName + "() *" + plan.GraphName + " {")
	p.indent++
	p.newLine()
	p.print("g := &" + plan.GraphName + "{}")
	for _, f := range plan.Fields {
		p.newLine()
		p.printFieldInit(f)
	}
	for _, patch := range plan.Patches {
		p.newLine()
		p.print("g." + patch.FieldName + ".setDelegate(g." + patch.TargetName + ")")
	}
	p.newLine()
	p.print("return g")
	p.indent--
	p.newLine()
	p.print("}")

	for _, a := range plan.Accessors {
		p.newLine()
		p.newLine()
		p.print("func (g *" + plan.GraphName + ") " + a.Name + "() " + fieldTypeRef(a.FieldName) + " { return g." + a.FieldName + " }")
	}
	for _, inj := range plan.Injectors {
		p.newLine()
		p.newLine()
		p.print("func (g *" + plan.GraphName + ") " + inj.Name + "(target any) { g." + inj.FieldName + ".injectMembers(target) }")
	}

	for _, child := range plan.Children {
		p.newLine()
		p.newLine()
		p.printGraph(child)
	}
}

func fieldTypeRef(fieldName string) string { return fieldName + "Type" }

func (p *Printer) printFieldInit(f FieldPlan) {
	switch f.Kind {
	case FieldProvides, FieldConstructorInject, FieldAssistedFactory, FieldMembersInjector, FieldInstanceBinding:
		p.print("g." + f.Name + " = new" + f.Name + "(" + strings.Join(qualify(f.DependsOn), ", ") + ")")
	case FieldAlias:
		p.print("g." + f.Name + " = g." + f.AliasOf)
	case FieldMultiSet:
		p.print("g." + f.Name + " = newSet(" + strings.Join(contributorRefs(f.Contributors), ", ") + ")")
	case FieldMultiMap:
		p.print("g." + f.Name + " = newMap(" + strings.Join(mapEntryRefs(f.Contributors), ", ") + ")")
	case FieldElementsIntoSet:
		p.print("g." + f.Name + " = flattenInto(" + strings.Join(qualify(f.DependsOn), ", ") + ")")
	case FieldGraphExtensionLink:
		p.print("g." + f.Name + " = newChildLinkFactory()")
	}
}

func qualify(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = "g." + f
	}
	return out
}

func contributorRefs(cs []ContributorPlan) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		ref := "g." + c.CallName + "()"
		if c.FromElements {
			ref = "..." + ref
		}
		out[i] = ref
	}
	return out
}

func mapEntryRefs(cs []ContributorPlan) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.MapKeyLit + ": g." + c.CallName + "()"
	}
	return out
}
