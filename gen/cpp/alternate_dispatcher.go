package cpp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

var nonIdentifierChars = regexp.MustCompile(`\W+`)

// AlternateDispatcherHeaderEmitter produces the alternate backend dispatcher
// header: one abstract handler interface per domain with commands, each
// command a pure-virtual method taking the call identifier plus its typed
// call parameters. Responses travel out-of-band through the dispatcher, so
// every method returns void.
type AlternateDispatcherHeaderEmitter struct {
	gen.Base
}

// NewAlternateDispatcherHeaderEmitter builds the emitter from shared run state.
func NewAlternateDispatcherHeaderEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *AlternateDispatcherHeaderEmitter {
	return &AlternateDispatcherHeaderEmitter{Base: gen.NewBase(model, cfg, facts)}
}

// OutputFilename implements gen.Emitter.
func (e *AlternateDispatcherHeaderEmitter) OutputFilename() string {
	return "InspectorAlternateBackendDispatchers.h"
}

// Generate implements gen.Emitter.
func (e *AlternateDispatcherHeaderEmitter) Generate() (string, error) {
	headers := []string{
		`"InspectorProtocolTypes.h"`,
		"<inspector/InspectorFrontendRouter.h>",
		"<inspector/InspectorBackendDispatcher.h>",
	}
	includes := make([]string, len(headers))
	for i, header := range headers {
		includes[i] = "#include " + header
	}

	headerGuard := nonIdentifierChars.ReplaceAllString(e.OutputFilename(), "_")
	prelude, err := gen.Render(headerPrelude, map[string]any{
		"HeaderGuard": headerGuard,
		"Includes":    strings.Join(includes, "\n"),
	})
	if err != nil {
		return "", err
	}
	postlude, err := gen.Render(headerPostlude, map[string]any{"HeaderGuard": headerGuard})
	if err != nil {
		return "", err
	}

	var declarations []string
	for _, domain := range e.DomainsToGenerate() {
		decl, err := e.generateHandlerDeclarationsForDomain(domain)
		if err != nil {
			return "", errors.Wrapf(err, "domain %s", domain.Name)
		}
		if decl != "" {
			declarations = append(declarations, decl)
		}
	}

	sections := []string{
		e.GeneratedFileHeader(),
		prelude,
		strings.Join(declarations, "\n"),
		postlude,
	}
	return strings.Join(sections, "\n\n"), nil
}

func (e *AlternateDispatcherHeaderEmitter) generateHandlerDeclarationsForDomain(domain *protocol.Domain) (string, error) {
	if len(domain.Commands) == 0 {
		return "", nil
	}

	var commandDeclarations []string
	for _, command := range domain.Commands {
		decl, err := e.generateHandlerDeclarationForCommand(command)
		if err != nil {
			return "", errors.Wrapf(err, "command %s", command.Name)
		}
		commandDeclarations = append(commandDeclarations, decl)
	}

	interfaceDecl, err := gen.Render(alternateDispatcherInterface, map[string]any{
		"DomainName":          domain.Name,
		"CommandDeclarations": strings.Join(commandDeclarations, "\n"),
	})
	if err != nil {
		return "", err
	}
	return e.WrapWithGuard(domain, interfaceDecl), nil
}

func (e *AlternateDispatcherHeaderEmitter) generateHandlerDeclarationForCommand(command *protocol.Command) (string, error) {
	parameters := []string{"long callId"}
	for _, param := range command.CallParameters {
		formalType, err := TypeForUncheckedFormalInParameter(param)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", param.Name)
		}
		parameters = append(parameters, fmt.Sprintf("%s in_%s", formalType, param.Name))
	}
	return fmt.Sprintf("    virtual void %s(%s) = 0;", command.Name, strings.Join(parameters, ", ")), nil
}
