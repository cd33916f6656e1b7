package cpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// networkFixture declares a small Network domain: a RequestId alias, a
// Response object with required, optional and enum members, and the
// getResponseBody command.
func networkFixture(t *testing.T) (*protocol.Model, *gen.Config) {
	t.Helper()
	str := primitive(t, "string")
	integer := primitive(t, "integer")
	boolean := primitive(t, "boolean")

	network := &protocol.Domain{Name: "Network"}
	requestID := protocol.NewAliasedType("RequestId", network, str)

	response := protocol.NewObjectType("Response", network)
	responseMembers := []*protocol.TypeMember{
		{Name: "url", Type: str},
		{Name: "status", Type: integer},
		{Name: "source", Type: protocol.NewAnonymousEnumType(network, str, []string{"network", "cache", "unknown"})},
		{Name: "mimeType", Type: str, Optional: true},
	}
	response.BindMembers(responseMembers)

	network.TypeDeclarations = []*protocol.TypeDeclaration{
		{Name: "RequestId", Type: requestID},
		{Name: "Response", Type: response, Members: responseMembers},
	}
	network.Commands = []*protocol.Command{
		{
			Name: "getResponseBody",
			CallParameters: []*protocol.Parameter{
				{Name: "requestId", Type: requestID},
			},
			ReturnParameters: []*protocol.Parameter{
				{Name: "body", Type: str},
				{Name: "base64Encoded", Type: boolean},
			},
		},
	}

	model := &protocol.Model{Domains: []*protocol.Domain{network}, InputFile: "Network.json"}
	cfg := &gen.Config{
		Assertions: gen.AssertionConfig{RuntimeCasts: []string{"Network.Response"}},
	}
	return model, cfg
}

func TestProtocolObjectsEmitter(t *testing.T) {
	model, cfg := networkFixture(t)
	facts := gen.ComputeFacts(model, cfg)

	emitter := NewProtocolObjectsEmitter(model, cfg, facts)
	assert.Equal(t, "InspectorProtocolObjects.cpp", emitter.OutputFilename())

	out, err := emitter.Generate()
	require.NoError(t, err)

	// Enum table carries the anonymous member enum's values in declaration
	// order, indexed by their assigned encodings.
	table := []string{`    "network",`, `    "cache",`, `    "unknown",`}
	assert.Contains(t, out, strings.Join(table, "\n"))
	assert.Contains(t, out, "String getEnumConstantValue(int code)")

	// Response is in the runtime-cast allow-list: it gets a bespoke enum
	// assertion for the member, a structural validator and a checked cast.
	assert.Contains(t, out, "void assertNetworkResponseSource(Inspector::InspectorValue* value)")
	assert.Contains(t, out, `result == "network" || result == "cache" || result == "unknown"`)
	assert.Contains(t, out,
		"void BindingTraits<Inspector::Protocol::Network::Response>::assertValueHasExpectedType(Inspector::InspectorValue* value)")
	assert.Contains(t, out,
		"RefPtr<Inspector::Protocol::Network::Response> BindingTraits<Inspector::Protocol::Network::Response>::runtimeCast")

	// Three required members; the optional one increments the count only
	// when present, and the total is compared exactly.
	assert.Contains(t, out, "int foundPropertiesCount = 3;")
	assert.Contains(t, out, "++foundPropertiesCount;")
	assert.Contains(t, out, "if (foundPropertiesCount != object->size())")
}

func TestProtocolObjectsOpenFieldsSkipCount(t *testing.T) {
	model, cfg := networkFixture(t)
	cfg.Assertions.OpenFields = []string{"Network.Response"}
	facts := gen.ComputeFacts(model, cfg)

	out, err := NewProtocolObjectsEmitter(model, cfg, facts).Generate()
	require.NoError(t, err)

	// Open types keep their validator but never count properties, so extra
	// untyped keys pass through unchecked.
	assert.Contains(t, out, "BindingTraits<Inspector::Protocol::Network::Response>::assertValueHasExpectedType")
	assert.NotContains(t, out, "foundPropertiesCount")

	// Open members are exposed as named field constants, sorted by name.
	mimeType := `const char* Inspector::Protocol::Network::Response::MimeType = "mimeType";`
	source := `const char* Inspector::Protocol::Network::Response::Source = "source";`
	assert.Contains(t, out, mimeType)
	assert.Less(t, strings.Index(out, mimeType), strings.Index(out, source))
}

func TestProtocolObjectsSkipsTypesOutsideClosure(t *testing.T) {
	model, cfg := networkFixture(t)
	cfg.Assertions.RuntimeCasts = nil
	facts := gen.ComputeFacts(model, cfg)

	out, err := NewProtocolObjectsEmitter(model, cfg, facts).Generate()
	require.NoError(t, err)

	assert.NotContains(t, out, "assertValueHasExpectedType(Inspector::InspectorValue* value)")
	assert.NotContains(t, out, "runtimeCast")
	// The enum table is global and survives regardless of the closure.
	assert.Contains(t, out, `    "network",`)
}

func TestAlternateDispatcherHeaderEmitter(t *testing.T) {
	model, cfg := networkFixture(t)
	facts := gen.ComputeFacts(model, cfg)

	emitter := NewAlternateDispatcherHeaderEmitter(model, cfg, facts)
	assert.Equal(t, "InspectorAlternateBackendDispatchers.h", emitter.OutputFilename())

	out, err := emitter.Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "#ifndef InspectorAlternateBackendDispatchers_h")
	assert.Contains(t, out, "class AlternateNetworkBackendDispatcher : public AlternateBackendDispatcher {")
	// The alias resolves to String and the call identifier leads the formals.
	assert.Contains(t, out, "    virtual void getResponseBody(long callId, const String& in_requestId) = 0;")
}

func TestAlternateDispatcherGuardsPlatformDomains(t *testing.T) {
	model, cfg := networkFixture(t)
	model.Framework = protocol.FrameworkPlatform
	model.Domains[0].FeatureGuard = "ENABLE(NETWORK_DOMAIN)"
	facts := gen.ComputeFacts(model, cfg)

	out, err := NewAlternateDispatcherHeaderEmitter(model, cfg, facts).Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "#if ENABLE(NETWORK_DOMAIN)")
	assert.Contains(t, out, "#endif // ENABLE(NETWORK_DOMAIN)")
}

func TestEmittersSkipSupplementalDomains(t *testing.T) {
	model, cfg := networkFixture(t)
	model.Domains[0].Supplemental = true
	facts := gen.ComputeFacts(model, cfg)

	out, err := NewAlternateDispatcherHeaderEmitter(model, cfg, facts).Generate()
	require.NoError(t, err)
	assert.NotContains(t, out, "AlternateNetworkBackendDispatcher")
}
