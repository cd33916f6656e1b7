package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinspect/protogen/protocol"
)

func TestStylizedNameForEnumValue(t *testing.T) {
	cases := map[string]string{
		"enabled":           "Enabled",
		"disk-cache":        "DiskCache",
		"memory-cache":      "MemoryCache",
		"xhr":               "XHR",
		"xhr-load":          "XHRLoad",
		"css-animation":     "CSSAnimation",
		"dom-content-fired": "DOMContentFired",
		"per-api-call":      "PerAPICall",
		"html":              "HTML",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, StylizedNameForEnumValue(input), "input %q", input)
	}
}

func TestUpperFirst(t *testing.T) {
	assert.Equal(t, "Body", UpperFirst("body"))
	assert.Equal(t, "URL", UpperFirst("URL"))
	assert.Equal(t, "", UpperFirst(""))
}

func TestJSNameForParameterType(t *testing.T) {
	domain := &protocol.Domain{Name: "Network"}
	str, err := protocol.PrimitiveByName("string")
	require.NoError(t, err)
	integer, err := protocol.PrimitiveByName("integer")
	require.NoError(t, err)
	number, err := protocol.PrimitiveByName("number")
	require.NoError(t, err)
	boolean, err := protocol.PrimitiveByName("boolean")
	require.NoError(t, err)
	anyType, err := protocol.PrimitiveByName("any")
	require.NoError(t, err)

	obj := protocol.NewObjectType("Response", domain)

	assert.Equal(t, "string", JSNameForParameterType(str))
	assert.Equal(t, "number", JSNameForParameterType(integer))
	assert.Equal(t, "number", JSNameForParameterType(number))
	assert.Equal(t, "boolean", JSNameForParameterType(boolean))
	assert.Equal(t, "object", JSNameForParameterType(anyType))
	assert.Equal(t, "object", JSNameForParameterType(obj))
	assert.Equal(t, "object", JSNameForParameterType(protocol.NewArrayType(str)))

	// Aliases and enums unwrap before classification.
	alias := protocol.NewAliasedType("RequestId", domain, str)
	assert.Equal(t, "string", JSNameForParameterType(alias))
	enum := protocol.NewEnumType("Priority", domain, integer, []string{"low", "high"})
	assert.Equal(t, "number", JSNameForParameterType(enum))
}
