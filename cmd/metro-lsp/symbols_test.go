package main

import (
	"testing"

	"github.com/metro-di/metro/internal/host"
	"github.com/metro-di/metro/internal/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSymbols_BuildsAnEnumeratorFromJSON(t *testing.T) {
	doc := `[
		{"id": 1, "kind": "class", "qualifiedName": "app.AppGraph", "isAccessible": true,
		 "annotations": ["metro.DependencyGraph"], "members": [2, 3]},
		{"id": 2, "kind": "property", "qualifiedName": "app.AppGraph.foo", "isAbstract": true,
		 "returnType": "app.Foo", "owner": 1},
		{"id": 3, "kind": "function", "qualifiedName": "app.AppGraph.provideFoo", "hasBody": true,
		 "returnType": "app.Foo", "annotations": ["metro.Provides"], "owner": 1}
	]`

	enum, err := decodeSymbols(doc)
	require.NoError(t, err)

	sym, ok := enum.Symbol(key.TypeID(1))
	require.True(t, ok)
	assert.Equal(t, host.DeclKindClass, sym.Kind)
	assert.Equal(t, "app.AppGraph", sym.QualifiedName)
	assert.Len(t, sym.Annotations, 1)
	assert.Equal(t, "metro.DependencyGraph", sym.Annotations[0].FQN)
	assert.Equal(t, []key.TypeID{2, 3}, sym.Members)
}

func TestDecodeSymbols_RejectsUnknownKind(t *testing.T) {
	_, err := decodeSymbols(`[{"id": 1, "kind": "enum", "qualifiedName": "app.X"}]`)
	assert.Error(t, err)
}

func TestDecodeSymbols_RejectsMalformedJSON(t *testing.T) {
	_, err := decodeSymbols(`not json`)
	assert.Error(t, err)
}
