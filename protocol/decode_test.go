package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const networkModel = `{
  "domains": [
    {
      "domain": "Network",
      "types": [
        {"id": "RequestId", "type": "string"},
        {"id": "Headers", "type": "object"},
        {
          "id": "Response",
          "type": "object",
          "members": [
            {"name": "url", "type": "string"},
            {"name": "status", "type": "integer"},
            {"name": "headers", "$ref": "Headers"},
            {"name": "source", "type": "string", "enum": ["network", "memory-cache", "disk-cache"], "optional": true}
          ]
        }
      ],
      "commands": [
        {
          "name": "getResponseBody",
          "parameters": [{"name": "requestId", "$ref": "RequestId"}],
          "returns": [
            {"name": "body", "type": "string", "optional": true},
            {"name": "base64Encoded", "type": "boolean", "optional": true}
          ]
        }
      ],
      "events": [
        {
          "name": "responseReceived",
          "parameters": [
            {"name": "requestId", "$ref": "Network.RequestId"},
            {"name": "response", "$ref": "Response"}
          ]
        }
      ]
    }
  ]
}`

func TestDecodeModel(t *testing.T) {
	model, err := DecodeModel(strings.NewReader(networkModel), "network.json")
	require.NoError(t, err)
	require.Len(t, model.Domains, 1)

	network := model.Domains[0]
	assert.Equal(t, "Network", network.Name)
	assert.False(t, network.Supplemental)
	require.Len(t, network.TypeDeclarations, 3)

	// RequestId is a transparent alias to the string primitive.
	requestID := network.TypeDeclarations[0]
	alias, ok := requestID.Type.(*AliasedType)
	require.True(t, ok)
	assert.Equal(t, "Network.RequestId", alias.QualifiedName())
	resolved, ok := Resolve(alias).(*PrimitiveType)
	require.True(t, ok)
	assert.Equal(t, "string", resolved.RawName())

	// Response is an object with bound members, including an anonymous
	// inline enum member.
	response := network.TypeDeclarations[2]
	obj, ok := response.Type.(*ObjectType)
	require.True(t, ok)
	require.Len(t, obj.Members(), 4)
	source := obj.Members()[3]
	enum, ok := source.Type.(*EnumType)
	require.True(t, ok)
	assert.True(t, enum.Anonymous())
	assert.Equal(t, []string{"network", "memory-cache", "disk-cache"}, enum.Values())
	assert.True(t, source.Optional)

	// Command parameter references resolve to the declared alias instance.
	cmd := network.Commands[0]
	require.Len(t, cmd.CallParameters, 1)
	assert.Same(t, requestID.Type, cmd.CallParameters[0].Type)

	// Qualified and unqualified references hit the same declaration.
	event := network.Events[0]
	assert.Same(t, requestID.Type, event.Parameters[0].Type)
	assert.Same(t, response.Type, event.Parameters[1].Type)
}

func TestDecodeModelCrossDomainReference(t *testing.T) {
	const spec = `{
	  "domains": [
	    {"domain": "Runtime", "types": [{"id": "RemoteObject", "type": "object"}]},
	    {
	      "domain": "Debugger",
	      "types": [
	        {
	          "id": "CallFrame",
	          "type": "object",
	          "members": [{"name": "this", "$ref": "Runtime.RemoteObject"}]
	        }
	      ]
	    }
	  ]
	}`
	model, err := DecodeModel(strings.NewReader(spec), "spec.json")
	require.NoError(t, err)

	runtimeObject := model.Domains[0].TypeDeclarations[0].Type
	callFrame := model.Domains[1].TypeDeclarations[0].Type.(*ObjectType)
	assert.Same(t, runtimeObject, callFrame.Members()[0].Type)
}

func TestDecodeModelUnresolvedReference(t *testing.T) {
	const spec = `{
	  "domains": [
	    {
	      "domain": "DOM",
	      "types": [
	        {"id": "Node", "type": "object", "members": [{"name": "child", "$ref": "MissingType"}]}
	      ]
	    }
	  ]
	}`
	_, err := DecodeModel(strings.NewReader(spec), "spec.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved type reference")
	assert.Contains(t, err.Error(), "DOM")
}

func TestDecodeModelArrayDeclaration(t *testing.T) {
	const spec = `{
	  "domains": [
	    {
	      "domain": "CSS",
	      "types": [
	        {"id": "Selector", "type": "string"},
	        {"id": "SelectorList", "type": "array", "items": {"$ref": "Selector"}}
	      ]
	    }
	  ]
	}`
	model, err := DecodeModel(strings.NewReader(spec), "spec.json")
	require.NoError(t, err)

	list := model.Domains[0].TypeDeclarations[1]
	array, ok := Resolve(list.Type).(*ArrayType)
	require.True(t, ok)
	element := array.ElementType()
	assert.Equal(t, "CSS.Selector", element.QualifiedName())
}

func TestDecodeModelUnknownFramework(t *testing.T) {
	_, err := DecodeModel(strings.NewReader(`{"framework": "gtk", "domains": []}`), "spec.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown framework")
}

func TestDecodeModelSupplementalAndGuard(t *testing.T) {
	const spec = `{
	  "domains": [
	    {"domain": "Canvas", "featureGuard": "ENABLE(CANVAS_PROFILING)", "availability": "web"},
	    {"domain": "BrowserExtras", "supplemental": true}
	  ]
	}`
	model, err := DecodeModel(strings.NewReader(spec), "spec.json")
	require.NoError(t, err)
	assert.Equal(t, "ENABLE(CANVAS_PROFILING)", model.Domains[0].FeatureGuard)
	assert.Equal(t, "web", model.Domains[0].Availability)
	assert.True(t, model.Domains[1].Supplemental)
}
