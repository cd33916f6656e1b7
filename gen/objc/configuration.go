package objc

import (
	"fmt"
	"strings"

	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// ConfigurationHeaderEmitter produces the public configuration interface: a
// property per whitelisted domain for installing a command handler and for
// obtaining the domain's event dispatcher.
type ConfigurationHeaderEmitter struct {
	gen.Base
	mapper *Mapper
}

// NewConfigurationHeaderEmitter builds the emitter from shared run state.
func NewConfigurationHeaderEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *ConfigurationHeaderEmitter {
	return &ConfigurationHeaderEmitter{Base: gen.NewBase(model, cfg, facts), mapper: NewMapper(cfg)}
}

// OutputFilename implements gen.Emitter.
func (e *ConfigurationHeaderEmitter) OutputFilename() string {
	return e.mapper.Prefix() + "Configuration.h"
}

// Generate implements gen.Emitter.
func (e *ConfigurationHeaderEmitter) Generate() (string, error) {
	prelude, err := gen.Render(genericHeaderPrelude, map[string]any{
		"Includes": fmt.Sprintf("#import <WebInspector/%s.h>", e.mapper.Prefix()),
	})
	if err != nil {
		return "", err
	}

	interfaceText, err := e.generateConfigurationInterface()
	if err != nil {
		return "", err
	}

	sections := []string{e.GeneratedFileHeader(), prelude, interfaceText}
	return strings.Join(sections, "\n\n"), nil
}

func (e *ConfigurationHeaderEmitter) generateConfigurationInterface() (string, error) {
	lines := []string{
		`__attribute__((visibility ("default")))`,
		fmt.Sprintf("@interface %sConfiguration : NSObject", e.mapper.Prefix()),
	}
	for _, domain := range e.DomainsToGenerate() {
		args := map[string]any{
			"ObjCPrefix":         e.mapper.Prefix(),
			"DomainName":         domain.Name,
			"VariableNamePrefix": VariableNamePrefixForDomain(domain),
		}
		if len(domain.Commands) > 0 && covered(e.Model, e.Config.ObjC.CommandDomains, domain) {
			property, err := gen.Render(configurationCommandProperty, args)
			if err != nil {
				return "", errors.Wrapf(err, "domain %s", domain.Name)
			}
			lines = append(lines, property)
		}
		if len(domain.Events) > 0 && covered(e.Model, e.Config.ObjC.EventDomains, domain) {
			property, err := gen.Render(configurationEventProperty, args)
			if err != nil {
				return "", errors.Wrapf(err, "domain %s", domain.Name)
			}
			lines = append(lines, property)
		}
	}
	lines = append(lines, "@end")
	return strings.Join(lines, "\n"), nil
}

// ConfigurationImplementationEmitter produces the configuration class body:
// handler setters that install an alternate dispatcher agent on the
// controller, and lazily-allocated event dispatcher getters.
type ConfigurationImplementationEmitter struct {
	gen.Base
	mapper *Mapper
}

// NewConfigurationImplementationEmitter builds the emitter from shared run state.
func NewConfigurationImplementationEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *ConfigurationImplementationEmitter {
	return &ConfigurationImplementationEmitter{Base: gen.NewBase(model, cfg, facts), mapper: NewMapper(cfg)}
}

// OutputFilename implements gen.Emitter.
func (e *ConfigurationImplementationEmitter) OutputFilename() string {
	return e.mapper.Prefix() + "Configuration.mm"
}

// Generate implements gen.Emitter.
func (e *ConfigurationImplementationEmitter) Generate() (string, error) {
	secondaryHeaders := []string{
		fmt.Sprintf("\"%sInternal.h\"", e.mapper.Prefix()),
		fmt.Sprintf("\"%sBackendDispatchers.h\"", e.mapper.Prefix()),
		"<JavaScriptCore/AlternateDispatchableAgent.h>",
		"<JavaScriptCore/AugmentableInspectorController.h>",
		"<JavaScriptCore/InspectorAlternateBackendDispatchers.h>",
		"<JavaScriptCore/InspectorBackendDispatchers.h>",
	}
	imports := make([]string, len(secondaryHeaders))
	for i, header := range secondaryHeaders {
		imports[i] = "#import " + header
	}

	prelude, err := gen.Render(implementationPrelude, map[string]any{
		"PrimaryInclude":    fmt.Sprintf("\"%sConfiguration.h\"", e.mapper.Prefix()),
		"SecondaryIncludes": strings.Join(imports, "\n"),
	})
	if err != nil {
		return "", err
	}

	implementation, err := e.generateConfigurationImplementation()
	if err != nil {
		return "", err
	}

	sections := []string{e.GeneratedFileHeader(), prelude, implementation}
	return strings.Join(sections, "\n\n"), nil
}

func (e *ConfigurationImplementationEmitter) hasCommandHandler(domain *protocol.Domain) bool {
	return len(domain.Commands) > 0 && covered(e.Model, e.Config.ObjC.CommandDomains, domain)
}

func (e *ConfigurationImplementationEmitter) hasEventDispatcher(domain *protocol.Domain) bool {
	return len(domain.Events) > 0 && covered(e.Model, e.Config.ObjC.EventDomains, domain)
}

func (e *ConfigurationImplementationEmitter) generateConfigurationImplementation() (string, error) {
	domains := e.DomainsToGenerate()

	var lines []string
	lines = append(lines, fmt.Sprintf("@implementation %sConfiguration", e.mapper.Prefix()))
	lines = append(lines, "{", "    AugmentableInspectorController* _controller;")
	for _, domain := range domains {
		varPrefix := VariableNamePrefixForDomain(domain)
		if e.hasCommandHandler(domain) {
			lines = append(lines, fmt.Sprintf("    id<%s%sDomainHandler> _%sHandler;",
				e.mapper.Prefix(), domain.Name, varPrefix))
		}
		if e.hasEventDispatcher(domain) {
			lines = append(lines, fmt.Sprintf("    %s%sDomainEventDispatcher *_%sEventDispatcher;",
				e.mapper.Prefix(), domain.Name, varPrefix))
		}
	}
	lines = append(lines, "}", "")

	lines = append(lines,
		"- (instancetype)initWithController:(AugmentableInspectorController*)controller",
		"{",
		"    self = [super init];",
		"    if (!self)",
		"        return nil;",
		"    ASSERT(controller);",
		"    _controller = controller;",
		"    return self;",
		"}",
		"")

	lines = append(lines, "- (void)dealloc", "{")
	for _, domain := range domains {
		varPrefix := VariableNamePrefixForDomain(domain)
		if e.hasCommandHandler(domain) {
			lines = append(lines, fmt.Sprintf("    [_%sHandler release];", varPrefix))
		}
		if e.hasEventDispatcher(domain) {
			lines = append(lines, fmt.Sprintf("    [_%sEventDispatcher release];", varPrefix))
		}
	}
	lines = append(lines, "    [super dealloc];", "}", "")

	for _, domain := range domains {
		args := map[string]any{
			"ObjCPrefix":         e.mapper.Prefix(),
			"DomainName":         domain.Name,
			"VariableNamePrefix": VariableNamePrefixForDomain(domain),
		}
		if e.hasCommandHandler(domain) {
			setter, err := gen.Render(configurationCommandPropertyImplementation, args)
			if err != nil {
				return "", errors.Wrapf(err, "domain %s", domain.Name)
			}
			lines = append(lines, setter, "")
		}
		if e.hasEventDispatcher(domain) {
			getter, err := gen.Render(configurationEventDispatcherGetterImplementation, args)
			if err != nil {
				return "", errors.Wrapf(err, "domain %s", domain.Name)
			}
			lines = append(lines, getter, "")
		}
	}

	lines = append(lines, "@end")
	return strings.Join(lines, "\n"), nil
}
