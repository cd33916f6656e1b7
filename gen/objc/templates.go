package objc

import "github.com/openinspect/protogen/gen"

var implementationPrelude = gen.MustTemplate("objcImplementationPrelude", `#import {{.PrimaryInclude}}

{{.SecondaryIncludes}}

using namespace Inspector;`)

var genericHeaderPrelude = gen.MustTemplate("objcGenericHeaderPrelude", `{{.Includes}}`)

var backendDispatcherHandlerImplementation = gen.MustTemplate("objcBackendDispatcherHandlerImplementation",
	`void ObjCInspector{{.DomainName}}BackendDispatcher::{{.CommandName}}({{.Parameters}})
{
    id errorCallback = ^(NSString *error) {
        backendDispatcher()->reportProtocolError(requestId, BackendDispatcher::ServerError, error);
        backendDispatcher()->sendPendingErrorsAndClearErrors();
    };

{{.SuccessCallback}}
{{.Conversions}}{{.Invocation}}
}`)

var configurationCommandProperty = gen.MustTemplate("objcConfigurationCommandProperty",
	`@property (nonatomic, retain, setter=set{{.DomainName}}Handler:) id<{{.ObjCPrefix}}{{.DomainName}}DomainHandler> {{.VariableNamePrefix}}Handler;`)

var configurationEventProperty = gen.MustTemplate("objcConfigurationEventProperty",
	`@property (nonatomic, readonly) {{.ObjCPrefix}}{{.DomainName}}DomainEventDispatcher *{{.VariableNamePrefix}}EventDispatcher;`)

var configurationCommandPropertyImplementation = gen.MustTemplate("objcConfigurationCommandPropertyImplementation",
	`- (void)set{{.DomainName}}Handler:(id<{{.ObjCPrefix}}{{.DomainName}}DomainHandler>)handler
{
    if (handler == _{{.VariableNamePrefix}}Handler)
        return;

    [_{{.VariableNamePrefix}}Handler release];
    _{{.VariableNamePrefix}}Handler = [handler retain];

    auto alternateDispatcher = std::make_unique<ObjCInspector{{.DomainName}}BackendDispatcher>(handler);
    auto alternateAgent = std::make_unique<AlternateDispatchableAgent<{{.DomainName}}BackendDispatcher, Alternate{{.DomainName}}BackendDispatcher>>(ASCIILiteral("{{.DomainName}}"), WTFMove(alternateDispatcher));
    _controller->appendExtraAgent(WTFMove(alternateAgent));
}

- (id<{{.ObjCPrefix}}{{.DomainName}}DomainHandler>){{.VariableNamePrefix}}Handler
{
    return _{{.VariableNamePrefix}}Handler;
}`)

var configurationEventDispatcherGetterImplementation = gen.MustTemplate("objcConfigurationEventDispatcherGetterImplementation",
	`- ({{.ObjCPrefix}}{{.DomainName}}DomainEventDispatcher *){{.VariableNamePrefix}}EventDispatcher
{
    if (!_{{.VariableNamePrefix}}EventDispatcher)
        _{{.VariableNamePrefix}}EventDispatcher = [[{{.ObjCPrefix}}{{.DomainName}}DomainEventDispatcher alloc] initWithController:_controller];
    return _{{.VariableNamePrefix}}EventDispatcher;
}`)
