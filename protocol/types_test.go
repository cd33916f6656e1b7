package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveByName(t *testing.T) {
	for _, name := range []string{"string", "integer", "number", "boolean", "any", "object", "array"} {
		p, err := PrimitiveByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.QualifiedName())
	}

	_, err := PrimitiveByName("float")
	assert.Error(t, err)
}

func TestPrimitiveInstancesAreShared(t *testing.T) {
	a, err := PrimitiveByName("string")
	require.NoError(t, err)
	b, err := PrimitiveByName("string")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestResolveUnwrapsAliasChains(t *testing.T) {
	domain := &Domain{Name: "Page"}
	str, _ := PrimitiveByName("string")

	inner := NewAliasedType("FrameId", domain, str)
	outer := NewAliasedType("MainFrameId", domain, inner)

	assert.Same(t, str, Resolve(outer))
	assert.Same(t, str, Resolve(inner))
	// Non-aliases resolve to themselves.
	assert.Same(t, str, Resolve(str))
}

func TestQualifiedNames(t *testing.T) {
	domain := &Domain{Name: "DOM"}
	str, _ := PrimitiveByName("string")

	obj := NewObjectType("Node", domain)
	assert.Equal(t, "DOM.Node", obj.QualifiedName())
	assert.Equal(t, "Node", obj.RawName())
	assert.Same(t, domain, obj.TypeDomain())

	enum := NewEnumType("PseudoType", domain, str, []string{"before", "after"})
	assert.Equal(t, "DOM.PseudoType", enum.QualifiedName())
	assert.False(t, enum.Anonymous())

	anon := NewAnonymousEnumType(domain, str, []string{"a", "b"})
	assert.True(t, anon.Anonymous())
	assert.Equal(t, "", anon.RawName())

	array := NewArrayType(obj)
	assert.Equal(t, "array", array.QualifiedName())
	assert.Nil(t, array.TypeDomain())
}
