package main

import (
	"encoding/json"
	"fmt"

	"github.com/metro-di/metro/internal/fixture"
	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
)

// jsonSymbol is the wire shape of one host.Symbol as published by a
// host compiler plugin's own symbol table (spec.md §1's typed symbol
// tree is out of scope, so this server accepts a JSON projection of
// it instead of embedding a real frontend, the same role
// internal/fixture plays for the test suite and cmd/metro).
type jsonSymbol struct {
	ID            int      `json:"id"`
	Kind          string   `json:"kind"`
	QualifiedName string   `json:"qualifiedName"`
	IsAccessible  bool     `json:"isAccessible"`
	IsAbstract    bool     `json:"isAbstract"`
	HasBody       bool     `json:"hasBody"`
	ReturnType    string   `json:"returnType,omitempty"`
	Annotations   []string `json:"annotations,omitempty"`
	Params        []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"params,omitempty"`
	Members    []int    `json:"members,omitempty"`
	Owner      int      `json:"owner,omitempty"`
	Supertypes []string `json:"supertypes,omitempty"`
	Span       key.Span `json:"span"`
}

var declKinds = map[string]host.DeclKind{
	"class":       host.DeclKindClass,
	"interface":   host.DeclKindInterface,
	"function":    host.DeclKindFunction,
	"property":    host.DeclKindProperty,
	"constructor": host.DeclKindConstructor,
}

// decodeSymbols parses a JSON array of jsonSymbol into an
// internal/fixture.Enumerator ready to drive the orchestrator.
func decodeSymbols(text string) (*fixture.Enumerator, error) {
	var raw []jsonSymbol
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid symbol document: %w", err)
	}

	enum := fixture.NewEnumerator()
	for _, js := range raw {
		kind, ok := declKinds[js.Kind]
		if !ok {
			return nil, fmt.Errorf("symbol %d: unknown kind %q", js.ID, js.Kind)
		}

		sym := host.Symbol{
			ID:            key.TypeID(js.ID),
			Kind:          kind,
			QualifiedName: js.QualifiedName,
			Span:          js.Span,
			IsAccessible:  js.IsAccessible,
			IsAbstract:    js.IsAbstract,
			HasBody:       js.HasBody,
			Owner:         key.TypeID(js.Owner),
		}
		for _, fqn := range js.Annotations {
			sym.Annotations = append(sym.Annotations, fixture.Ann(fqn, nil))
		}
		if js.ReturnType != "" {
			sym.ReturnKey = fixture.Ctx(js.ReturnType)
		}
		for _, p := range js.Params {
			sym.Params = append(sym.Params, host.Param{Name: p.Name, Type: fixture.Ctx(p.Type)})
		}
		for _, m := range js.Members {
			sym.Members = append(sym.Members, key.TypeID(m))
		}
		for _, st := range js.Supertypes {
			sym.Supertypes = append(sym.Supertypes, fixture.Key(st))
		}

		enum.Add(sym)
	}
	return enum, nil
}
