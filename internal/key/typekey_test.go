package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeKeyEquality(t *testing.T) {
	tests := []struct {
		desc string
		a    TypeKey
		b    TypeKey
		want bool
	}{
		{
			desc: "same qualified name, no qualifier",
			a:    NewTypeKey("com.example.Foo", nil, false, nil),
			b:    NewTypeKey("com.example.Foo", nil, false, nil),
			want: true,
		},
		{
			desc: "different qualified name",
			a:    NewTypeKey("com.example.Foo", nil, false, nil),
			b:    NewTypeKey("com.example.Bar", nil, false, nil),
			want: false,
		},
		{
			desc: "nullability distinguishes",
			a:    NewTypeKey("com.example.Foo", nil, true, nil),
			b:    NewTypeKey("com.example.Foo", nil, false, nil),
			want: false,
		},
		{
			desc: "qualifier distinguishes",
			a:    NewTypeKey("com.example.Foo", nil, false, &Qualifier{AnnotationFQN: "com.example.Named", Args: `"a"`}),
			b:    NewTypeKey("com.example.Foo", nil, false, &Qualifier{AnnotationFQN: "com.example.Named", Args: `"b"`}),
			want: false,
		},
		{
			desc: "identical qualifier args",
			a:    NewTypeKey("com.example.Foo", nil, false, &Qualifier{AnnotationFQN: "com.example.Named", Args: `"a"`}),
			b:    NewTypeKey("com.example.Foo", nil, false, &Qualifier{AnnotationFQN: "com.example.Named", Args: `"a"`}),
			want: true,
		},
		{
			desc: "type arguments distinguish",
			a:    NewTypeKey("java.util.List", []TypeKey{NewTypeKey("com.example.Foo", nil, false, nil)}, false, nil),
			b:    NewTypeKey("java.util.List", []TypeKey{NewTypeKey("com.example.Bar", nil, false, nil)}, false, nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a == tt.b)
			if tt.want {
				assert.Equal(t, tt.a.hash, tt.b.hash)
			}
		})
	}
}

func TestTypeKeyUsableAsMapKey(t *testing.T) {
	m := map[TypeKey]int{}
	a := NewTypeKey("com.example.Foo", nil, false, nil)
	b := NewTypeKey("com.example.Foo", nil, false, nil)
	m[a] = 1
	got, ok := m[b]
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestContextualTypeKeyString(t *testing.T) {
	foo := NewTypeKey("com.example.Foo", nil, false, nil)
	ctk := ContextualTypeKey{Key: foo, Wrapper: Wrapper{Provider: true}}
	assert.Equal(t, "Provider<com.example.Foo>", ctk.String())
}

func TestScopeKeyUnbounded(t *testing.T) {
	assert.True(t, Unbounded.IsUnbounded())
	assert.False(t, NewScopeKey("com.example.Singleton").IsUnbounded())
}

func TestSortTypeKeysDeterministic(t *testing.T) {
	a := NewTypeKey("b.B", nil, false, nil)
	b := NewTypeKey("a.A", nil, false, nil)
	sorted := SortTypeKeys([]TypeKey{a, b})
	assert.Equal(t, []TypeKey{b, a}, sorted)
}
