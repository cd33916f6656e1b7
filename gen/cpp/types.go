// Package cpp generates the C++ bindings: the protocol objects
// implementation with its debug-only shape assertions, and the alternate
// backend dispatcher interfaces.
package cpp

import (
	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// ProtocolTypeForType returns the C++ spelling of a protocol type. Aliases
// resolve first; enums spell as their primitive base.
func ProtocolTypeForType(t protocol.Type) (string, error) {
	switch concrete := protocol.Resolve(t).(type) {
	case *protocol.PrimitiveType:
		return protocolTypeForRawName(concrete.RawName())
	case *protocol.EnumType:
		return ProtocolTypeForType(concrete.PrimitiveBase())
	case *protocol.ObjectType:
		return "Inspector::Protocol::" + concrete.TypeDomain().Name + "::" + concrete.RawName(), nil
	case *protocol.ArrayType:
		element, err := ProtocolTypeForType(concrete.ElementType())
		if err != nil {
			return "", err
		}
		return "Inspector::Protocol::Array<" + element + ">", nil
	}
	return "", errors.AssertionFailedf("unhandled type variant for %s", t.QualifiedName())
}

func protocolTypeForRawName(rawName string) (string, error) {
	switch rawName {
	case "string":
		return "String", nil
	case "integer":
		return "int", nil
	case "number":
		return "double", nil
	case "boolean":
		return "bool", nil
	case "any":
		return "Inspector::InspectorValue", nil
	case "object":
		return "Inspector::InspectorObject", nil
	case "array":
		return "Inspector::InspectorArray", nil
	}
	return "", errors.AssertionFailedf("no C++ protocol type for primitive %q", rawName)
}

// TypeForUncheckedFormalInParameter returns the formal-parameter spelling
// used by dispatcher interfaces, before any value checking has happened:
// scalars pass by value, strings by const reference, structured values as
// RefPtr.
func TypeForUncheckedFormalInParameter(param *protocol.Parameter) (string, error) {
	t := protocol.Resolve(param.Type)
	if enum, ok := t.(*protocol.EnumType); ok {
		t = enum.PrimitiveBase()
	}

	switch concrete := t.(type) {
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "integer":
			return "int", nil
		case "number":
			return "double", nil
		case "boolean":
			return "bool", nil
		case "string":
			return "const String&", nil
		case "any":
			return "const RefPtr<Inspector::InspectorValue>&", nil
		case "object":
			return "const RefPtr<Inspector::InspectorObject>&", nil
		case "array":
			return "const RefPtr<Inspector::InspectorArray>&", nil
		}
	case *protocol.ObjectType:
		return "const RefPtr<Inspector::InspectorObject>&", nil
	case *protocol.ArrayType:
		return "const RefPtr<Inspector::InspectorArray>&", nil
	}
	return "", errors.AssertionFailedf("no C++ formal parameter type for %s", param.Name)
}

// SetterMethodForType returns the keyed setter selector on the generic
// protocol object for a value of the given type.
func SetterMethodForType(t protocol.Type) (string, error) {
	switch concrete := protocol.Resolve(t).(type) {
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "boolean":
			return "setBoolean", nil
		case "integer":
			return "setInteger", nil
		case "number":
			return "setDouble", nil
		case "string":
			return "setString", nil
		case "any":
			return "setValue", nil
		case "object":
			return "setObject", nil
		case "array":
			return "setArray", nil
		}
	case *protocol.EnumType:
		return "setString", nil
	case *protocol.ObjectType:
		return "setObject", nil
	case *protocol.ArrayType:
		return "setArray", nil
	}
	return "", errors.AssertionFailedf("no C++ setter for %s", t.QualifiedName())
}

// AssertionMethodForTypeMember returns the name of the debug assertion
// routine validating one member value. Enum members get a bespoke assertion
// function (their allowed values are specific to the declaration site);
// every other member reuses the BindingTraits assertion of its type.
func AssertionMethodForTypeMember(member *protocol.TypeMember, decl *protocol.TypeDeclaration) (string, error) {
	// Deliberately no alias resolution here: only members declared as enums
	// at the site get bespoke assertions, matching the emitter's walk. An
	// alias to an enum validates as its primitive base.
	if _, ok := member.Type.(*protocol.EnumType); ok {
		domain := decl.Type.TypeDomain()
		domainName := ""
		if domain != nil {
			domainName = domain.Name
		}
		return "assert" + domainName + gen.UpperFirst(decl.Name) + gen.UpperFirst(member.Name), nil
	}

	protocolType, err := ProtocolTypeForType(member.Type)
	if err != nil {
		return "", err
	}
	return "BindingTraits<" + protocolType + ">::assertValueHasExpectedType", nil
}
