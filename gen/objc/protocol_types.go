package objc

import (
	"fmt"
	"strings"

	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// ProtocolTypesEmitter produces the protocol object implementations: one
// class per object declaration in the whitelisted domains, each backed by the
// keyed JSON object base class with typed accessors on top.
type ProtocolTypesEmitter struct {
	gen.Base
	mapper *Mapper
}

// NewProtocolTypesEmitter builds the emitter from shared run state.
func NewProtocolTypesEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *ProtocolTypesEmitter {
	return &ProtocolTypesEmitter{Base: gen.NewBase(model, cfg, facts), mapper: NewMapper(cfg)}
}

// OutputFilename implements gen.Emitter.
func (e *ProtocolTypesEmitter) OutputFilename() string {
	return e.mapper.Prefix() + "Types.mm"
}

// Generate implements gen.Emitter.
func (e *ProtocolTypesEmitter) Generate() (string, error) {
	secondaryHeaders := []string{
		fmt.Sprintf("\"%sEnumConversionHelpers.h\"", e.mapper.Prefix()),
		"<JavaScriptCore/InspectorValues.h>",
		"<wtf/Assertions.h>",
	}
	imports := make([]string, len(secondaryHeaders))
	for i, header := range secondaryHeaders {
		imports[i] = "#import " + header
	}

	prelude, err := gen.Render(implementationPrelude, map[string]any{
		"PrimaryInclude":    fmt.Sprintf("\"%sInternal.h\"", e.mapper.Prefix()),
		"SecondaryIncludes": strings.Join(imports, "\n"),
	})
	if err != nil {
		return "", err
	}

	sections := []string{e.GeneratedFileHeader(), prelude}
	for _, domain := range filterDomains(e.Model, e.Config.ObjC.TypeDomains, e.DomainsToGenerate()) {
		section, err := e.generateTypeImplementations(domain)
		if err != nil {
			return "", errors.Wrapf(err, "domain %s", domain.Name)
		}
		if section != "" {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, "\n\n"), nil
}

func (e *ProtocolTypesEmitter) generateTypeImplementations(domain *protocol.Domain) (string, error) {
	var implementations []string
	for _, decl := range domain.TypeDeclarations {
		if _, ok := decl.Type.(*protocol.ObjectType); !ok {
			continue
		}
		impl, err := e.generateTypeImplementation(domain, decl)
		if err != nil {
			return "", errors.Wrapf(err, "type %s", decl.Name)
		}
		implementations = append(implementations, impl)
	}
	return strings.Join(implementations, "\n\n"), nil
}

func (e *ProtocolTypesEmitter) generateTypeImplementation(domain *protocol.Domain, decl *protocol.TypeDeclaration) (string, error) {
	var lines []string
	lines = append(lines, fmt.Sprintf("@implementation %s", e.mapper.NameForType(decl.Type)))

	var required []*protocol.TypeMember
	for _, member := range decl.Members {
		if !member.Optional {
			required = append(required, member)
		}
	}
	if len(required) > 0 {
		initMethod, err := e.generateInitMethod(decl, required)
		if err != nil {
			return "", err
		}
		lines = append(lines, "", initMethod)
	}

	for _, member := range decl.Members {
		setter, err := e.generateSetter(decl, member)
		if err != nil {
			return "", errors.Wrapf(err, "member %s", member.Name)
		}
		getter, err := e.generateGetter(decl, member)
		if err != nil {
			return "", errors.Wrapf(err, "member %s", member.Name)
		}
		lines = append(lines, "", setter, "", getter)
	}

	lines = append(lines, "", "@end")
	return strings.Join(lines, "\n"), nil
}

// generateInitMethod emits the designated initializer taking exactly the
// required members, in declaration order.
func (e *ProtocolTypesEmitter) generateInitMethod(decl *protocol.TypeDeclaration, required []*protocol.TypeMember) (string, error) {
	pairs := make([]string, len(required))
	for i, member := range required {
		objcType, err := e.mapper.TypeForMember(decl, member)
		if err != nil {
			return "", errors.Wrapf(err, "member %s", member.Name)
		}
		varName := e.mapper.Identifier(member.Name)
		pairs[i] = fmt.Sprintf("%s:(%s)%s", varName, objcType, varName)
	}
	pairs[0] = gen.UpperFirst(pairs[0])

	var lines []string
	lines = append(lines, fmt.Sprintf("- (instancetype)initWith%s", strings.Join(pairs, " ")))
	lines = append(lines, "{",
		"    self = [super init];",
		"    if (!self)",
		"        return nil;",
		"")

	var pointerChecks []string
	for _, member := range required {
		if !IsPointerType(member.Type) {
			continue
		}
		varName := e.mapper.Identifier(member.Name)
		pointerChecks = append(pointerChecks,
			fmt.Sprintf("    THROW_EXCEPTION_FOR_REQUIRED_PROPERTY(%s, @\"%s\");", varName, varName))
		check, err := e.arrayElementClassCheck(member.Type, varName, "    ")
		if err != nil {
			return "", errors.Wrapf(err, "member %s", member.Name)
		}
		if check != "" {
			pointerChecks = append(pointerChecks, check)
		}
	}
	if len(pointerChecks) > 0 {
		lines = append(lines, pointerChecks...)
		lines = append(lines, "")
	}

	for _, member := range required {
		varName := e.mapper.Identifier(member.Name)
		lines = append(lines, fmt.Sprintf("    self.%s = %s;", varName, varName))
	}

	lines = append(lines, "", "    return self;", "}")
	return strings.Join(lines, "\n"), nil
}

// arrayElementClassCheck returns a runtime element-class check for arrays of
// generated classes, or "" when the element class is a platform type.
func (e *ProtocolTypesEmitter) arrayElementClassCheck(t protocol.Type, varName, indent string) (string, error) {
	elementClass, err := e.mapper.ClassForArrayType(t)
	if err != nil {
		return "", err
	}
	if elementClass == "" || !strings.HasPrefix(elementClass, e.mapper.Prefix()) {
		return "", nil
	}
	return fmt.Sprintf("%sTHROW_EXCEPTION_FOR_BAD_TYPE_IN_ARRAY(%s, [%s class]);", indent, varName, elementClass), nil
}

func (e *ProtocolTypesEmitter) generateSetter(decl *protocol.TypeDeclaration, member *protocol.TypeMember) (string, error) {
	objcType, err := e.mapper.TypeForMember(decl, member)
	if err != nil {
		return "", err
	}
	setterMethod, err := e.mapper.SetterMethodForMember(member)
	if err != nil {
		return "", err
	}
	varName := e.mapper.Identifier(member.Name)
	conversion, err := e.mapper.ToProtocolExpressionForMember(decl, member, varName)
	if err != nil {
		return "", err
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("- (void)set%s:(%s)%s", gen.UpperFirst(varName), objcType, varName))
	lines = append(lines, "{")
	check, err := e.arrayElementClassCheck(member.Type, varName, "    ")
	if err != nil {
		return "", err
	}
	if check != "" {
		lines = append(lines, check)
	}
	lines = append(lines, fmt.Sprintf("    [super %s:%s forKey:@\"%s\"];", setterMethod, conversion, member.Name))
	lines = append(lines, "}")
	return strings.Join(lines, "\n"), nil
}

func (e *ProtocolTypesEmitter) generateGetter(decl *protocol.TypeDeclaration, member *protocol.TypeMember) (string, error) {
	objcType, err := e.mapper.TypeForMember(decl, member)
	if err != nil {
		return "", err
	}
	getterMethod, err := e.mapper.GetterMethodForMember(member)
	if err != nil {
		return "", err
	}
	varName := e.mapper.Identifier(member.Name)
	basicExpression := fmt.Sprintf("[super %s:@\"%s\"]", getterMethod, member.Name)
	conversion, err := e.mapper.ProtocolToObjCExpressionForMember(decl, member, basicExpression)
	if err != nil {
		return "", err
	}

	return strings.Join([]string{
		fmt.Sprintf("- (%s)%s", objcType, varName),
		"{",
		fmt.Sprintf("    return %s;", conversion),
		"}",
	}, "\n"), nil
}
