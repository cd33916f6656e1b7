package objc

import (
	"fmt"
	"strings"

	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/gen/cpp"
	"github.com/openinspect/protogen/protocol"
)

// BackendDispatchersEmitter produces the backend dispatcher implementations:
// for each whitelisted domain with commands, a C++ handler method per command
// that converts the unchecked in-parameters to Objective-C values, invokes
// the registered delegate, and converts the delegate's results back into a
// protocol response through the success callback block.
type BackendDispatchersEmitter struct {
	gen.Base
	mapper *Mapper
}

// NewBackendDispatchersEmitter builds the emitter from shared run state.
func NewBackendDispatchersEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *BackendDispatchersEmitter {
	return &BackendDispatchersEmitter{Base: gen.NewBase(model, cfg, facts), mapper: NewMapper(cfg)}
}

// OutputFilename implements gen.Emitter.
func (e *BackendDispatchersEmitter) OutputFilename() string {
	return e.mapper.Prefix() + "BackendDispatchers.mm"
}

// Generate implements gen.Emitter.
func (e *BackendDispatchersEmitter) Generate() (string, error) {
	secondaryHeaders := []string{
		fmt.Sprintf("\"%sInternal.h\"", e.mapper.Prefix()),
		fmt.Sprintf("\"%sEnumConversionHelpers.h\"", e.mapper.Prefix()),
		"<JavaScriptCore/InspectorValues.h>",
	}
	includes := make([]string, len(secondaryHeaders))
	for i, header := range secondaryHeaders {
		includes[i] = "#include " + header
	}

	prelude, err := gen.Render(implementationPrelude, map[string]any{
		"PrimaryInclude":    fmt.Sprintf("\"%sBackendDispatchers.h\"", e.mapper.Prefix()),
		"SecondaryIncludes": strings.Join(includes, "\n"),
	})
	if err != nil {
		return "", err
	}

	sections := []string{e.GeneratedFileHeader(), prelude}
	for _, domain := range filterDomains(e.Model, e.Config.ObjC.CommandDomains, e.DomainsToGenerate()) {
		section, err := e.generateHandlerImplementations(domain)
		if err != nil {
			return "", errors.Wrapf(err, "domain %s", domain.Name)
		}
		if section != "" {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, "\n\n"), nil
}

func (e *BackendDispatchersEmitter) generateHandlerImplementations(domain *protocol.Domain) (string, error) {
	if len(domain.Commands) == 0 {
		return "", nil
	}
	var implementations []string
	for _, command := range domain.Commands {
		impl, err := e.generateHandlerImplementation(domain, command)
		if err != nil {
			return "", errors.Wrapf(err, "command %s", command.Name)
		}
		implementations = append(implementations, impl)
	}
	return strings.Join(implementations, "\n"), nil
}

func (e *BackendDispatchersEmitter) generateHandlerImplementation(domain *protocol.Domain, command *protocol.Command) (string, error) {
	parameters := []string{"long requestId"}
	for _, param := range command.CallParameters {
		formalType, err := cpp.TypeForUncheckedFormalInParameter(param)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", param.Name)
		}
		parameters = append(parameters, fmt.Sprintf("%s in_%s", formalType, param.Name))
	}

	successCallback, err := e.generateSuccessBlock(domain, command)
	if err != nil {
		return "", err
	}
	conversions, err := e.generateConversions(domain, command)
	if err != nil {
		return "", err
	}

	text, err := gen.Render(backendDispatcherHandlerImplementation, map[string]any{
		"DomainName":      domain.Name,
		"CommandName":     command.Name,
		"Parameters":      strings.Join(parameters, ", "),
		"SuccessCallback": successCallback,
		"Conversions":     conversions,
		"Invocation":      e.generateInvocation(command),
	})
	if err != nil {
		return "", err
	}
	return e.WrapWithGuard(domain, text), nil
}

// generateSuccessBlock emits the block the delegate calls on success. Return
// parameters are validated, converted back to protocol values and keyed into
// the result object before the response is sent.
func (e *BackendDispatchersEmitter) generateSuccessBlock(domain *protocol.Domain, command *protocol.Command) (string, error) {
	var lines []string

	if len(command.ReturnParameters) > 0 {
		blockParameters := make([]string, len(command.ReturnParameters))
		for i, param := range command.ReturnParameters {
			objcType, err := e.mapper.TypeForParam(domain, command.Name, param, true)
			if err != nil {
				return "", errors.Wrapf(err, "return parameter %s", param.Name)
			}
			blockParameters[i] = JoinTypeAndName(objcType, e.mapper.Identifier(param.Name))
		}
		lines = append(lines, fmt.Sprintf("    id successCallback = ^(%s) {", strings.Join(blockParameters, ", ")))
		lines = append(lines, "        Ref<InspectorObject> resultObject = InspectorObject::create();")

		for _, param := range command.ReturnParameters {
			if param.Optional || !IsPointerType(param.Type) {
				continue
			}
			varName := e.mapper.Identifier(param.Name)
			lines = append(lines, fmt.Sprintf("        THROW_EXCEPTION_FOR_REQUIRED_PARAMETER(%s, @\"%s\");", varName, varName))
			check, err := e.arrayElementClassCheck(param.Type, varName, false)
			if err != nil {
				return "", errors.Wrapf(err, "return parameter %s", param.Name)
			}
			if check != "" {
				lines = append(lines, check)
			}
		}
		for _, param := range command.ReturnParameters {
			if !param.Optional || !IsPointerType(param.Type) {
				continue
			}
			varName := e.mapper.Identifier(param.Name)
			lines = append(lines, fmt.Sprintf("        THROW_EXCEPTION_FOR_BAD_OPTIONAL_PARAMETER(%s, @\"%s\");", varName, varName))
			check, err := e.arrayElementClassCheck(param.Type, varName, true)
			if err != nil {
				return "", errors.Wrapf(err, "return parameter %s", param.Name)
			}
			if check != "" {
				lines = append(lines, check)
			}
		}

		for _, param := range command.ReturnParameters {
			setterMethod, err := cpp.SetterMethodForType(param.Type)
			if err != nil {
				return "", errors.Wrapf(err, "return parameter %s", param.Name)
			}
			varName := e.mapper.Identifier(param.Name)
			varExpression := varName
			if param.Optional {
				varExpression = "*" + varName
			}
			exportExpression, err := e.mapper.ProtocolExportExpressionForVariable(param.Type, varExpression)
			if err != nil {
				return "", errors.Wrapf(err, "return parameter %s", param.Name)
			}
			if param.Optional {
				lines = append(lines, fmt.Sprintf("        if (%s)", varName))
				lines = append(lines, fmt.Sprintf("            resultObject->%s(ASCIILiteral(\"%s\"), %s);", setterMethod, param.Name, exportExpression))
			} else {
				lines = append(lines, fmt.Sprintf("        resultObject->%s(ASCIILiteral(\"%s\"), %s);", setterMethod, param.Name, exportExpression))
			}
		}
		lines = append(lines, "        backendDispatcher()->sendResponse(requestId, WTFMove(resultObject));")
	} else {
		lines = append(lines, "    id successCallback = ^{")
		lines = append(lines, "        backendDispatcher()->sendResponse(requestId, InspectorObject::create());")
	}

	lines = append(lines, "    };")
	return strings.Join(lines, "\n"), nil
}

func (e *BackendDispatchersEmitter) arrayElementClassCheck(t protocol.Type, varName string, optional bool) (string, error) {
	elementClass, err := e.mapper.ClassForArrayType(t)
	if err != nil {
		return "", err
	}
	if elementClass == "" || !strings.HasPrefix(elementClass, e.mapper.Prefix()) {
		return "", nil
	}
	macro := "THROW_EXCEPTION_FOR_BAD_TYPE_IN_ARRAY"
	if optional {
		macro = "THROW_EXCEPTION_FOR_BAD_TYPE_IN_OPTIONAL_ARRAY"
	}
	return fmt.Sprintf("        %s(%s, [%s class]);", macro, varName, elementClass), nil
}

// inParamExpression adapts the unchecked formal to the expression the import
// conversion expects: structured values and optional scalars arrive behind a
// pointer level that has to be bridged.
func inParamExpression(paramName string, param *protocol.Parameter) string {
	t := protocol.Resolve(param.Type)
	if enum, ok := t.(*protocol.EnumType); ok {
		t = enum.PrimitiveBase()
	}
	if primitive, ok := t.(*protocol.PrimitiveType); ok {
		switch primitive.RawName() {
		case "array", "any", "object":
		default:
			if param.Optional {
				return "*" + paramName
			}
			return paramName
		}
	}
	if param.Optional {
		return paramName
	}
	return "&" + paramName
}

func (e *BackendDispatchersEmitter) generateConversions(domain *protocol.Domain, command *protocol.Command) (string, error) {
	var lines []string
	if len(command.CallParameters) > 0 {
		lines = append(lines, "")
	}

	for _, param := range command.CallParameters {
		inParamName := "in_" + param.Name
		objcInParamName := "o_" + inParamName
		objcType, err := e.mapper.TypeForParam(domain, command.Name, param, false)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", param.Name)
		}
		importExpression, err := e.mapper.ProtocolImportExpressionForParameter(
			inParamExpression(inParamName, param), domain, command.Name, param)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", param.Name)
		}
		if param.Optional {
			lines = append(lines, fmt.Sprintf("    %s;", JoinTypeAndName(objcType, objcInParamName)))
			lines = append(lines, fmt.Sprintf("    if (%s)", inParamName))
			lines = append(lines, fmt.Sprintf("        %s = %s;", objcInParamName, importExpression))
		} else {
			lines = append(lines, fmt.Sprintf("    %s = %s;", JoinTypeAndName(objcType, objcInParamName), importExpression))
		}
	}

	if len(lines) > 0 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n"), nil
}

func (e *BackendDispatchersEmitter) generateInvocation(command *protocol.Command) string {
	pairs := []string{"WithErrorCallback:errorCallback", "successCallback:successCallback"}
	for _, param := range command.CallParameters {
		inParamName := "in_" + param.Name
		objcInParamName := "o_" + inParamName
		if param.Optional {
			pairs = append(pairs, fmt.Sprintf("%s:(%s ? &%s : nil)", param.Name, inParamName, objcInParamName))
		} else {
			pairs = append(pairs, fmt.Sprintf("%s:%s", param.Name, objcInParamName))
		}
	}
	return fmt.Sprintf("    [m_delegate %s%s];", command.Name, strings.Join(pairs, " "))
}
