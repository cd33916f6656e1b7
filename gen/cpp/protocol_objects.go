package cpp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// ProtocolObjectsEmitter produces the protocol objects implementation file:
// the enum constant table, open-field name constants, and, for types in the
// shape-assertion set, debug-only structural validators and checked runtime
// casts.
type ProtocolObjectsEmitter struct {
	gen.Base
}

// NewProtocolObjectsEmitter builds the emitter from shared run state.
func NewProtocolObjectsEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *ProtocolObjectsEmitter {
	return &ProtocolObjectsEmitter{Base: gen.NewBase(model, cfg, facts)}
}

// OutputFilename implements gen.Emitter.
func (e *ProtocolObjectsEmitter) OutputFilename() string {
	return "InspectorProtocolObjects.cpp"
}

// Generate implements gen.Emitter.
func (e *ProtocolObjectsEmitter) Generate() (string, error) {
	domains := e.DomainsToGenerate()

	prelude, err := gen.Render(implementationPrelude, map[string]any{
		"PrimaryInclude":    `"InspectorProtocolObjects.h"`,
		"SecondaryIncludes": "#include <wtf/text/CString.h>",
	})
	if err != nil {
		return "", err
	}
	postlude, err := gen.Render(implementationPostlude, nil)
	if err != nil {
		return "", err
	}

	sections := []string{
		e.GeneratedFileHeader(),
		prelude,
		"namespace Protocol {",
		e.generateEnumMapping(),
		e.generateOpenFieldNames(),
	}

	for _, domain := range domains {
		section, err := e.generateBuildersForDomain(domain)
		if err != nil {
			return "", errors.Wrapf(err, "domain %s", domain.Name)
		}
		if section != "" {
			sections = append(sections, section)
		}
	}

	sections = append(sections, "} // namespace Protocol", postlude)
	return strings.Join(sections, "\n\n"), nil
}

// generateEnumMapping emits the protocol-wide enum constant table. The slice
// index of each literal is its integer encoding, so every artifact relying
// on the shared facts agrees on the mapping.
func (e *ProtocolObjectsEmitter) generateEnumMapping() string {
	var lines []string
	lines = append(lines, "static const char* const enum_constant_values[] = {")
	for _, value := range e.Facts.AssignedEnumValues() {
		lines = append(lines, fmt.Sprintf("    \"%s\",", value))
	}
	lines = append(lines, "};", "",
		"String getEnumConstantValue(int code) {",
		"    return enum_constant_values[code];",
		"}")
	return strings.Join(lines, "\n")
}

// generateOpenFieldNames emits name constants for members of open-typed
// declarations so hand-written code reads and writes those extra fields
// through named constants. Members sort by name for stable output.
func (e *ProtocolObjectsEmitter) generateOpenFieldNames() string {
	var lines []string
	for _, domain := range e.DomainsToGenerate() {
		for _, decl := range domain.TypeDeclarations {
			if !e.TypeHasOpenFields(decl.Type) {
				continue
			}
			members := make([]*protocol.TypeMember, len(decl.Members))
			copy(members, decl.Members)
			sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
			for _, member := range members {
				fieldName := strings.Join([]string{
					"Inspector", "Protocol", domain.Name,
					gen.UpperFirst(decl.Name), gen.UpperFirst(member.Name),
				}, "::")
				lines = append(lines, fmt.Sprintf("const char* %s = \"%s\";", fieldName, member.Name))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (e *ProtocolObjectsEmitter) generateBuildersForDomain(domain *protocol.Domain) (string, error) {
	var sections []string

	for _, decl := range domain.TypeDeclarations {
		if !e.Facts.TypeNeedsShapeAssertions(decl.Type) {
			continue
		}

		for _, member := range decl.Members {
			if enum, ok := member.Type.(*protocol.EnumType); ok {
				section, err := e.generateAssertionForEnum(enum, member, decl)
				if err != nil {
					return "", errors.Wrapf(err, "member %s", member.Name)
				}
				sections = append(sections, section)
			}
		}

		if _, ok := decl.Type.(*protocol.ObjectType); ok {
			section, err := e.generateAssertionForObjectDeclaration(decl)
			if err != nil {
				return "", errors.Wrapf(err, "type %s", decl.Name)
			}
			sections = append(sections, section)

			if e.TypeNeedsRuntimeCasts(decl.Type) {
				cast, err := e.generateRuntimeCastForObjectDeclaration(decl)
				if err != nil {
					return "", errors.Wrapf(err, "type %s", decl.Name)
				}
				sections = append(sections, cast)
			}
		}
	}

	return strings.Join(sections, "\n\n"), nil
}

func (e *ProtocolObjectsEmitter) generateRuntimeCastForObjectDeclaration(decl *protocol.TypeDeclaration) (string, error) {
	objectType, err := ProtocolTypeForType(decl.Type)
	if err != nil {
		return "", err
	}
	return gen.Render(protocolObjectRuntimeCast, map[string]any{"ObjectType": objectType})
}

// generateAssertionForObjectDeclaration emits the structural validator: all
// required members present and type-checked, optional members type-checked
// when present, and, unless the type has open fields, an exact property
// count that catches unexpected keys as well as missing ones.
func (e *ProtocolObjectsEmitter) generateAssertionForObjectDeclaration(decl *protocol.TypeDeclaration) (string, error) {
	var required, optional []*protocol.TypeMember
	for _, member := range decl.Members {
		if member.Optional {
			optional = append(optional, member)
		} else {
			required = append(required, member)
		}
	}
	shouldCountProperties := !e.TypeHasOpenFields(decl.Type)

	protocolType, err := ProtocolTypeForType(decl.Type)
	if err != nil {
		return "", err
	}

	var lines []string
	lines = append(lines, "#if !ASSERT_DISABLED")
	lines = append(lines, fmt.Sprintf("void BindingTraits<%s>::assertValueHasExpectedType(Inspector::InspectorValue* value)", protocolType))
	lines = append(lines, `{
    ASSERT_ARG(value, value);
    RefPtr<InspectorObject> object;
    bool castSucceeded = value->asObject(object);
    ASSERT_UNUSED(castSucceeded, castSucceeded);`)

	for _, member := range required {
		assertMethod, err := AssertionMethodForTypeMember(member, decl)
		if err != nil {
			return "", errors.Wrapf(err, "member %s", member.Name)
		}
		lines = append(lines, fmt.Sprintf(`    {
        InspectorObject::iterator %[1]sPos = object->find(ASCIILiteral("%[1]s"));
        ASSERT(%[1]sPos != object->end());
        %[2]s(%[1]sPos->value.get());
    }`, member.Name, assertMethod))
	}

	if shouldCountProperties {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("    int foundPropertiesCount = %d;", len(required)))
	}

	for _, member := range optional {
		assertMethod, err := AssertionMethodForTypeMember(member, decl)
		if err != nil {
			return "", errors.Wrapf(err, "member %s", member.Name)
		}
		lines = append(lines, fmt.Sprintf(`    {
        InspectorObject::iterator %[1]sPos = object->find(ASCIILiteral("%[1]s"));
        if (%[1]sPos != object->end()) {
            %[2]s(%[1]sPos->value.get());`, member.Name, assertMethod))
		if shouldCountProperties {
			lines = append(lines, "            ++foundPropertiesCount;")
		}
		lines = append(lines, "        }", "    }")
	}

	if shouldCountProperties {
		lines = append(lines, "    if (foundPropertiesCount != object->size())")
		lines = append(lines, `        FATAL("Unexpected properties in object: %s\n", object->toJSONString().ascii().data());`)
	}
	lines = append(lines, "}", "#endif // !ASSERT_DISABLED")

	return strings.Join(lines, "\n"), nil
}

// generateAssertionForEnum emits the bespoke value check for a member
// declared as an enum at its site.
func (e *ProtocolObjectsEmitter) generateAssertionForEnum(enum *protocol.EnumType, member *protocol.TypeMember, decl *protocol.TypeDeclaration) (string, error) {
	assertMethod, err := AssertionMethodForTypeMember(member, decl)
	if err != nil {
		return "", err
	}

	conditions := make([]string, 0, len(enum.Values()))
	for _, value := range enum.Values() {
		conditions = append(conditions, fmt.Sprintf("result == \"%s\"", value))
	}

	lines := []string{
		"#if !ASSERT_DISABLED",
		fmt.Sprintf("void %s(Inspector::InspectorValue* value)", assertMethod),
		"{",
		"    ASSERT_ARG(value, value);",
		"    String result;",
		"    bool castSucceeded = value->asString(result);",
		"    ASSERT(castSucceeded);",
		fmt.Sprintf("    ASSERT(%s);", strings.Join(conditions, " || ")),
		"}",
		"#endif // !ASSERT_DISABLED",
	}
	return strings.Join(lines, "\n"), nil
}
