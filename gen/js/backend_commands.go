// Package js generates the script-side backend command table: a registration
// call per command, event and enum carrying just enough positional metadata
// for the runtime dispatch table to validate and route calls without the
// static type system.
package js

import (
	"fmt"
	"strings"

	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// BackendCommandsEmitter produces InspectorBackendCommands.js.
type BackendCommandsEmitter struct {
	gen.Base
}

// NewBackendCommandsEmitter builds the emitter from shared run state.
func NewBackendCommandsEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *BackendCommandsEmitter {
	return &BackendCommandsEmitter{Base: gen.NewBase(model, cfg, facts)}
}

// OutputFilename implements gen.Emitter.
func (e *BackendCommandsEmitter) OutputFilename() string {
	return "InspectorBackendCommands.js"
}

// domainsToGenerate keeps domains contributing something to the dispatch
// table: at least one command, event, or declared enum type.
func (e *BackendCommandsEmitter) domainsToGenerate() []*protocol.Domain {
	var out []*protocol.Domain
	for _, domain := range e.DomainsToGenerate() {
		if len(domain.Commands) > 0 || len(domain.Events) > 0 || domainDeclaresEnum(domain) {
			out = append(out, domain)
		}
	}
	return out
}

func domainDeclaresEnum(domain *protocol.Domain) bool {
	for _, decl := range domain.TypeDeclarations {
		if _, ok := decl.Type.(*protocol.EnumType); ok {
			return true
		}
	}
	return false
}

// Generate implements gen.Emitter.
func (e *BackendCommandsEmitter) Generate() (string, error) {
	sections := []string{e.GeneratedFileHeader()}
	for _, domain := range e.domainsToGenerate() {
		sections = append(sections, e.generateDomain(domain))
	}
	return strings.Join(sections, "\n\n"), nil
}

func (e *BackendCommandsEmitter) generateDomain(domain *protocol.Domain) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("// %s.", domain.Name))

	hasAsyncCommands := false
	for _, command := range domain.Commands {
		if command.Async {
			hasAsyncCommands = true
			break
		}
	}
	if len(domain.Events) > 0 || hasAsyncCommands {
		lines = append(lines, fmt.Sprintf(
			`InspectorBackend.register%[1]sDispatcher = InspectorBackend.registerDomainDispatcher.bind(InspectorBackend, "%[1]s");`,
			domain.Name))
	}

	for _, decl := range domain.TypeDeclarations {
		if enum, ok := decl.Type.(*protocol.EnumType); ok {
			lines = append(lines, registerEnum(domain.Name, decl.Name, enum))
		}
		for _, member := range decl.Members {
			if enum, ok := member.Type.(*protocol.EnumType); ok && enum.Anonymous() {
				enumName := decl.Name + gen.UpperFirst(member.Name)
				lines = append(lines, registerEnum(domain.Name, enumName, enum))
			}
		}
	}

	for _, event := range domain.Events {
		for _, param := range event.Parameters {
			if enum, ok := param.Type.(*protocol.EnumType); ok && enum.Anonymous() {
				enumName := gen.UpperFirst(event.Name) + gen.UpperFirst(param.Name)
				lines = append(lines, registerEnum(domain.Name, enumName, enum))
			}
		}

		paramNames := make([]string, len(event.Parameters))
		for i, param := range event.Parameters {
			paramNames[i] = fmt.Sprintf("\"%s\"", param.Name)
		}
		lines = append(lines, fmt.Sprintf(`InspectorBackend.registerEvent("%s.%s", [%s]);`,
			domain.Name, event.Name, strings.Join(paramNames, ", ")))
	}

	for _, command := range domain.Commands {
		callParams := make([]string, len(command.CallParameters))
		for i, param := range command.CallParameters {
			callParams[i] = parameterObject(param)
		}
		returnParams := make([]string, len(command.ReturnParameters))
		for i, param := range command.ReturnParameters {
			returnParams[i] = fmt.Sprintf("\"%s\"", param.Name)
		}
		lines = append(lines, fmt.Sprintf(`InspectorBackend.registerCommand("%s.%s", [%s], [%s]);`,
			domain.Name, command.Name,
			strings.Join(callParams, ", "), strings.Join(returnParams, ", ")))
	}

	if len(domain.Commands) > 0 || len(domain.Events) > 0 {
		if domain.Availability != "" {
			lines = append(lines, fmt.Sprintf(`InspectorBackend.activateDomain("%s", "%s");`,
				domain.Name, domain.Availability))
		} else {
			lines = append(lines, fmt.Sprintf(`InspectorBackend.activateDomain("%s");`, domain.Name))
		}
	}

	return strings.Join(lines, "\n")
}

// parameterObject renders the positional metadata the runtime needs to
// validate one call parameter: name, collapsed runtime type name, and
// optionality.
func parameterObject(param *protocol.Parameter) string {
	return fmt.Sprintf(`{"name": "%s", "type": "%s", "optional": %t}`,
		param.Name, gen.JSNameForParameterType(param.Type), param.Optional)
}

func registerEnum(domainName, enumName string, enum *protocol.EnumType) string {
	pairs := make([]string, len(enum.Values()))
	for i, value := range enum.Values() {
		pairs[i] = fmt.Sprintf("%s: \"%s\"", gen.StylizedNameForEnumValue(value), value)
	}
	return fmt.Sprintf(`InspectorBackend.registerEnum("%s.%s", {%s});`,
		domainName, enumName, strings.Join(pairs, ", "))
}
