package objc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// networkFixture declares a Network domain small enough to eyeball: the
// Response object with string, integer, enum and optional members, the
// getResponseBody command and the responseReceived event. Network is in the
// stock whitelists for all three artifact kinds.
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
		{Name: "source", Type: protocol.NewAnonymousEnumType(network, str, []string{"network", "cache"})},
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
				{Name: "maxLength", Type: integer, Optional: true},
			},
			ReturnParameters: []*protocol.Parameter{
				{Name: "body", Type: str},
				{Name: "base64Encoded", Type: boolean},
			},
		},
	}
	network.Events = []*protocol.Event{
		{Name: "responseReceived", Parameters: []*protocol.Parameter{
			{Name: "requestId", Type: requestID},
			{Name: "response", Type: response},
		}},
	}

	model := &protocol.Model{Domains: []*protocol.Domain{network}, InputFile: "Network.json"}
	return model, gen.DefaultConfig()
}

func TestProtocolTypesEmitter(t *testing.T) {
	model, cfg := networkFixture(t)
	facts := gen.ComputeFacts(model, cfg)

	emitter := NewProtocolTypesEmitter(model, cfg, facts)
	assert.Equal(t, "RIProtocolTypes.mm", emitter.OutputFilename())

	out, err := emitter.Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "@implementation RIProtocolNetworkResponse")

	// The initializer takes exactly the required members in declaration
	// order, with the first selector label upper-cased.
	assert.Contains(t, out,
		"- (instancetype)initWithUrl:(NSString *)url status:(int)status source:(RIProtocolNetworkResponseSource)source")
	assert.Contains(t, out, `    THROW_EXCEPTION_FOR_REQUIRED_PROPERTY(url, @"url");`)
	assert.Contains(t, out, "    self.url = url;")
	assert.Contains(t, out, "    self.status = status;")

	// Accessors go through the keyed base-class storage with conversions.
	assert.Contains(t, out, "- (void)setUrl:(NSString *)url\n{\n    [super setString:url forKey:@\"url\"];\n}")
	assert.Contains(t, out, "- (NSString *)url\n{\n    return [super stringForKey:@\"url\"];\n}")
	assert.Contains(t, out, `[super setString:toProtocolString(source) forKey:@"source"];`)
	assert.Contains(t, out, `return fromProtocolString<RIProtocolNetworkResponseSource>([super stringForKey:@"source"]);`)

	// Optional members get accessors but stay out of the initializer.
	assert.Contains(t, out, "- (void)setMimeType:(NSString *)mimeType")
	assert.NotContains(t, out, "initWithUrl:(NSString *)url status:(int)status source:(RIProtocolNetworkResponseSource)source mimeType")

	// Alias declarations produce no class of their own.
	assert.NotContains(t, out, "@implementation RIProtocolNetworkRequestId")
}

func TestProtocolTypesEmitterSkipsUnlistedDomain(t *testing.T) {
	model, cfg := networkFixture(t)
	model.Domains[0].Name = "Heap"
	facts := gen.ComputeFacts(model, cfg)

	out, err := NewProtocolTypesEmitter(model, cfg, facts).Generate()
	require.NoError(t, err)
	assert.NotContains(t, out, "@implementation")

	// The test framework bypasses whitelisting entirely.
	model.Framework = protocol.FrameworkTest
	out, err = NewProtocolTypesEmitter(model, cfg, facts).Generate()
	require.NoError(t, err)
	assert.Contains(t, out, "@implementation RIProtocolHeapResponse")
}

func TestBackendDispatchersEmitter(t *testing.T) {
	model, cfg := networkFixture(t)
	facts := gen.ComputeFacts(model, cfg)

	emitter := NewBackendDispatchersEmitter(model, cfg, facts)
	assert.Equal(t, "RIProtocolBackendDispatchers.mm", emitter.OutputFilename())

	out, err := emitter.Generate()
	require.NoError(t, err)

	assert.Contains(t, out,
		"void ObjCInspectorNetworkBackendDispatcher::getResponseBody(long requestId, const String& in_requestId, int in_maxLength)")

	// In-parameters convert to Objective-C values before the delegate call;
	// optional ones only when present.
	assert.Contains(t, out, "    NSString *o_in_requestId = in_requestId;")
	assert.Contains(t, out, "    int o_in_maxLength;")
	assert.Contains(t, out, "    if (in_maxLength)")
	assert.Contains(t, out,
		"    [m_delegate getResponseBodyWithErrorCallback:errorCallback successCallback:successCallback requestId:o_in_requestId maxLength:(in_maxLength ? &o_in_maxLength : nil)];")

	// The success block validates and re-exports the return parameters.
	assert.Contains(t, out, "id successCallback = ^(NSString *body, BOOL base64Encoded) {")
	assert.Contains(t, out, `        THROW_EXCEPTION_FOR_REQUIRED_PARAMETER(body, @"body");`)
	assert.Contains(t, out, `        resultObject->setString(ASCIILiteral("body"), body);`)
	assert.Contains(t, out, `        resultObject->setBoolean(ASCIILiteral("base64Encoded"), base64Encoded);`)
	assert.Contains(t, out, "        backendDispatcher()->sendResponse(requestId, WTFMove(resultObject));")
}

func TestConfigurationHeaderEmitter(t *testing.T) {
	model, cfg := networkFixture(t)
	facts := gen.ComputeFacts(model, cfg)

	emitter := NewConfigurationHeaderEmitter(model, cfg, facts)
	assert.Equal(t, "RIProtocolConfiguration.h", emitter.OutputFilename())

	out, err := emitter.Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "@interface RIProtocolConfiguration : NSObject")
	assert.Contains(t, out,
		"@property (nonatomic, retain, setter=setNetworkHandler:) id<RIProtocolNetworkDomainHandler> networkHandler;")
	assert.Contains(t, out,
		"@property (nonatomic, readonly) RIProtocolNetworkDomainEventDispatcher *networkEventDispatcher;")
}

func TestConfigurationImplementationEmitter(t *testing.T) {
	model, cfg := networkFixture(t)
	facts := gen.ComputeFacts(model, cfg)

	emitter := NewConfigurationImplementationEmitter(model, cfg, facts)
	assert.Equal(t, "RIProtocolConfiguration.mm", emitter.OutputFilename())

	out, err := emitter.Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "@implementation RIProtocolConfiguration")
	assert.Contains(t, out, "    id<RIProtocolNetworkDomainHandler> _networkHandler;")
	assert.Contains(t, out, "    RIProtocolNetworkDomainEventDispatcher *_networkEventDispatcher;")
	assert.Contains(t, out, "- (void)setNetworkHandler:(id<RIProtocolNetworkDomainHandler>)handler")
	assert.Contains(t, out, "std::make_unique<ObjCInspectorNetworkBackendDispatcher>(handler)")
	assert.Contains(t, out, "AlternateDispatchableAgent<NetworkBackendDispatcher, AlternateNetworkBackendDispatcher>")
	assert.Contains(t, out, "    [_networkHandler release];")
	assert.Contains(t, out, "- (RIProtocolNetworkDomainEventDispatcher *)networkEventDispatcher")
}

func TestInternalHeaderEmitter(t *testing.T) {
	model, cfg := networkFixture(t)
	facts := gen.ComputeFacts(model, cfg)

	emitter := NewInternalHeaderEmitter(model, cfg, facts)
	assert.Equal(t, "RIProtocolInternal.h", emitter.OutputFilename())

	out, err := emitter.Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "@interface RIProtocolNetworkDomainEventDispatcher (Private)")
	assert.Contains(t, out,
		"- (instancetype)initWithController:(Inspector::AugmentableInspectorController*)controller;")
}
