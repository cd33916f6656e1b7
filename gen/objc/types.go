// Package objc generates the Objective-C bindings: native protocol object
// classes, backend dispatchers, the configuration class and the internal
// header. All spellings and conversions funnel through Mapper, the
// type-mapping module for this backend.
package objc

import (
	"strings"

	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// TypeCategory selects the conversion and accessor strategy for a type.
type TypeCategory int

const (
	// CategorySimple covers value scalars: integer, number, boolean.
	CategorySimple TypeCategory = iota
	// CategoryString covers protocol strings and string-backed enums.
	CategoryString
	// CategoryObject covers declared object types and untyped values.
	CategoryObject
	// CategoryArray covers arrays of any element type.
	CategoryArray
)

// CategoryForType classifies a type after alias resolution; enums classify
// as their primitive base.
func CategoryForType(t protocol.Type) (TypeCategory, error) {
	switch concrete := protocol.Resolve(t).(type) {
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "string":
			return CategoryString, nil
		case "object", "any":
			return CategoryObject, nil
		case "array":
			return CategoryArray, nil
		default:
			return CategorySimple, nil
		}
	case *protocol.ObjectType:
		return CategoryObject, nil
	case *protocol.ArrayType:
		return CategoryArray, nil
	case *protocol.EnumType:
		return CategoryForType(concrete.PrimitiveBase())
	}
	return 0, errors.AssertionFailedf("unhandled type variant for %s", t.QualifiedName())
}

// Mapper is the Objective-C type-mapping module: a stateless translation
// from protocol types to this backend's spellings, accessor semantics and
// conversion expressions. The class prefix and keyword renames come from
// configuration.
type Mapper struct {
	prefix         string
	renames        map[string]string
	reverseRenames map[string]string
}

// NewMapper builds the mapper from the backend configuration.
func NewMapper(cfg *gen.Config) *Mapper {
	reverse := make(map[string]string, len(cfg.ObjC.Renames))
	for from, to := range cfg.ObjC.Renames {
		reverse[to] = from
	}
	return &Mapper{
		prefix:         cfg.ObjC.ClassPrefix,
		renames:        cfg.ObjC.Renames,
		reverseRenames: reverse,
	}
}

// Prefix returns the configured class prefix.
func (m *Mapper) Prefix() string { return m.prefix }

// JSONObjectBase is the generated base class wrapping the generic keyed
// protocol value.
func (m *Mapper) JSONObjectBase() string { return m.prefix + "JSONObject" }

// Identifier adjusts protocol identifiers that collide with Objective-C
// keywords.
func (m *Mapper) Identifier(name string) string {
	if renamed, ok := m.renames[name]; ok {
		return renamed
	}
	return name
}

// ProtocolIdentifier maps a renamed identifier back to its protocol name.
func (m *Mapper) ProtocolIdentifier(name string) string {
	if original, ok := m.reverseRenames[name]; ok {
		return original
	}
	return name
}

// removeDuplicate collapses a doubled domain-name substring in one
// left-to-right pass. The pass never rescans its own output, so the
// collapse cannot cascade.
func removeDuplicate(s, possibleDuplicate string) string {
	return strings.Replace(s, possibleDuplicate+possibleDuplicate, possibleDuplicate, -1)
}

// NameForType returns the generated class or enum name for a declared type:
// the prefixed qualified name with the domain-name duplication stripped, so
// CSS.CSSRule yields <prefix>CSSRule rather than <prefix>CSSCSSRule.
func (m *Mapper) NameForType(t protocol.Type) string {
	name := strings.Replace(t.QualifiedName(), ".", "", 1)
	name = removeDuplicate(name, t.TypeDomain().Name)
	return m.prefix + name
}

// Anonymous enums have no standalone identity, so their generated names
// encode the full declaration path. Each site shape gets its own derivation,
// which keeps the naming injective per domain.

// EnumNameForAnonymousEnumDeclaration names an enum declared inline at a
// type-declaration site.
func (m *Mapper) EnumNameForAnonymousEnumDeclaration(decl *protocol.TypeDeclaration) string {
	domainName := decl.Type.TypeDomain().Name
	name := domainName + decl.Name
	return m.prefix + removeDuplicate(name, domainName)
}

// EnumNameForAnonymousEnumMember names an enum declared inline at a member
// site.
func (m *Mapper) EnumNameForAnonymousEnumMember(decl *protocol.TypeDeclaration, member *protocol.TypeMember) string {
	domainName := member.Type.TypeDomain().Name
	name := domainName + decl.Name + gen.UpperFirst(member.Name)
	return m.prefix + removeDuplicate(name, domainName)
}

// EnumNameForAnonymousEnumParameter names an enum declared inline at an
// event or command parameter site.
func (m *Mapper) EnumNameForAnonymousEnumParameter(domain *protocol.Domain, eventOrCommandName string, param *protocol.Parameter) string {
	name := domain.Name + gen.UpperFirst(eventOrCommandName) + gen.UpperFirst(param.Name)
	return m.prefix + removeDuplicate(name, domain.Name)
}

// EnumNameForNonAnonymousEnum names a declared enum type.
func (m *Mapper) EnumNameForNonAnonymousEnum(t protocol.Type) string {
	domainName := t.TypeDomain().Name
	name := strings.Replace(t.QualifiedName(), ".", "", 1)
	return m.prefix + removeDuplicate(name, domainName)
}

// enumName resolves the generated name for an enum at a member site.
func (m *Mapper) enumNameForMember(enum *protocol.EnumType, decl *protocol.TypeDeclaration, member *protocol.TypeMember) string {
	if enum.Anonymous() {
		return m.EnumNameForAnonymousEnumMember(decl, member)
	}
	return m.EnumNameForNonAnonymousEnum(enum)
}

// VariableNamePrefixForDomain lower-cases a domain name for use as a
// variable prefix, keeping leading DOM/CSS acronyms intact as a unit.
func VariableNamePrefixForDomain(domain *protocol.Domain) string {
	name := domain.Name
	if strings.HasPrefix(name, "DOM") {
		return "dom" + name[3:]
	}
	if strings.HasPrefix(name, "CSS") {
		return "css" + name[3:]
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// JoinTypeAndName concatenates an Objective-C type spelling and a variable
// name, omitting the space after a pointer star.
func JoinTypeAndName(typeStr, nameStr string) string {
	if strings.HasSuffix(typeStr, "*") {
		return typeStr + nameStr
	}
	return typeStr + " " + nameStr
}

func stripBlockCommentMarkers(s string) string {
	return strings.NewReplacer("/*", "", "*/", "").Replace(s)
}

// Raw-name spellings.

func (m *Mapper) typeForRawName(rawName string) (string, error) {
	switch rawName {
	case "string":
		return "NSString *", nil
	case "array":
		return "NSArray *", nil
	case "integer":
		return "int", nil
	case "number":
		return "double", nil
	case "boolean":
		return "BOOL", nil
	case "any", "object":
		return m.JSONObjectBase() + " *", nil
	}
	return "", errors.AssertionFailedf("no Objective-C type for primitive %q", rawName)
}

func (m *Mapper) classForRawName(rawName string) (string, error) {
	switch rawName {
	case "string":
		return "NSString", nil
	case "array":
		return "NSArray", nil
	case "integer", "number", "boolean":
		return "NSNumber", nil
	case "any", "object":
		return m.JSONObjectBase(), nil
	}
	return "", errors.AssertionFailedf("no Objective-C class for primitive %q", rawName)
}

func accessorSemanticsForRawName(rawName string) (string, error) {
	switch rawName {
	case "string", "array":
		return "copy", nil
	case "integer", "number", "boolean":
		return "assign", nil
	case "any", "object":
		return "retain", nil
	}
	return "", errors.AssertionFailedf("no accessor semantics for primitive %q", rawName)
}

// protocolTypeForType is the C++-side spelling used when picking among the
// typed array conversion helpers.
func (m *Mapper) protocolTypeForType(t protocol.Type) (string, error) {
	switch concrete := protocol.Resolve(t).(type) {
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "string":
			return "String", nil
		case "integer":
			return "int", nil
		case "number":
			return "double", nil
		case "boolean":
			return "bool", nil
		case "any", "object":
			return "InspectorObject", nil
		}
		return "", errors.AssertionFailedf("no protocol type for primitive %q", concrete.RawName())
	case *protocol.EnumType:
		return m.protocolTypeForType(concrete.PrimitiveBase())
	case *protocol.ObjectType:
		return "Inspector::Protocol::" + concrete.TypeDomain().Name + "::" + concrete.RawName(), nil
	case *protocol.ArrayType:
		element, err := m.protocolTypeForType(concrete.ElementType())
		if err != nil {
			return "", err
		}
		return "Inspector::Protocol::Array<" + element + ">", nil
	}
	return "", errors.AssertionFailedf("unhandled type variant for %s", t.QualifiedName())
}

// IsPointerType reports whether the Objective-C spelling of the type is an
// object pointer (and therefore nil-checkable).
func IsPointerType(t protocol.Type) bool {
	switch concrete := protocol.Resolve(t).(type) {
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "string", "array", "any", "object":
			return true
		}
		return false
	case *protocol.EnumType:
		return false
	case *protocol.ObjectType, *protocol.ArrayType:
		return true
	}
	return false
}

// ClassForType returns the Objective-C class backing a type, annotating
// array element classes in a block comment.
func (m *Mapper) ClassForType(t protocol.Type) (string, error) {
	switch concrete := protocol.Resolve(t).(type) {
	case *protocol.PrimitiveType:
		return m.classForRawName(concrete.RawName())
	case *protocol.EnumType:
		return m.classForRawName(concrete.PrimitiveBase().RawName())
	case *protocol.ObjectType:
		return m.NameForType(concrete), nil
	case *protocol.ArrayType:
		element, err := m.ClassForType(concrete.ElementType())
		if err != nil {
			return "", err
		}
		return "NSArray/*<" + stripBlockCommentMarkers(element) + ">*/", nil
	}
	return "", errors.AssertionFailedf("unhandled type variant for %s", t.QualifiedName())
}

// ClassForArrayType returns the element class of an array-typed member, or
// "" when the type is not an array.
func (m *Mapper) ClassForArrayType(t protocol.Type) (string, error) {
	if array, ok := protocol.Resolve(t).(*protocol.ArrayType); ok {
		return m.ClassForType(array.ElementType())
	}
	return "", nil
}

// AccessorSemanticsForMember returns the property attribute
// (copy/assign/retain) for a member's storage.
func (m *Mapper) AccessorSemanticsForMember(member *protocol.TypeMember) (string, error) {
	switch concrete := protocol.Resolve(member.Type).(type) {
	case *protocol.PrimitiveType:
		return accessorSemanticsForRawName(concrete.RawName())
	case *protocol.EnumType:
		return "assign", nil
	case *protocol.ObjectType:
		return "retain", nil
	case *protocol.ArrayType:
		return "copy", nil
	}
	return "", errors.AssertionFailedf("unhandled type variant for member %s", member.Name)
}

// TypeForMember returns the member-site spelling of a member's type.
func (m *Mapper) TypeForMember(decl *protocol.TypeDeclaration, member *protocol.TypeMember) (string, error) {
	switch concrete := protocol.Resolve(member.Type).(type) {
	case *protocol.PrimitiveType:
		return m.typeForRawName(concrete.RawName())
	case *protocol.EnumType:
		return m.enumNameForMember(concrete, decl, member), nil
	case *protocol.ObjectType:
		return m.NameForType(concrete) + " *", nil
	case *protocol.ArrayType:
		element, err := m.ClassForType(concrete.ElementType())
		if err != nil {
			return "", err
		}
		return "NSArray/*<" + stripBlockCommentMarkers(element) + ">*/ *", nil
	}
	return "", errors.AssertionFailedf("unhandled type variant for member %s", member.Name)
}

// TypeForParam returns the parameter-site spelling. Optional parameters gain
// an extra pointer level so absence is representable.
func (m *Mapper) TypeForParam(domain *protocol.Domain, eventOrCommandName string, param *protocol.Parameter, respectOptional bool) (string, error) {
	objcType, err := m.typeForParamInternal(domain, eventOrCommandName, param)
	if err != nil {
		return "", err
	}
	if respectOptional && param.Optional {
		if strings.HasSuffix(objcType, "*") {
			return objcType + "*", nil
		}
		return objcType + " *", nil
	}
	return objcType, nil
}

func (m *Mapper) typeForParamInternal(domain *protocol.Domain, eventOrCommandName string, param *protocol.Parameter) (string, error) {
	switch concrete := protocol.Resolve(param.Type).(type) {
	case *protocol.PrimitiveType:
		return m.typeForRawName(concrete.RawName())
	case *protocol.EnumType:
		if concrete.Anonymous() {
			return m.EnumNameForAnonymousEnumParameter(domain, eventOrCommandName, param), nil
		}
		return m.EnumNameForNonAnonymousEnum(concrete), nil
	case *protocol.ObjectType:
		return m.NameForType(concrete) + " *", nil
	case *protocol.ArrayType:
		element, err := m.ClassForType(concrete.ElementType())
		if err != nil {
			return "", err
		}
		return "NSArray/*<" + stripBlockCommentMarkers(element) + ">*/ *", nil
	}
	return "", errors.AssertionFailedf("unhandled type variant for parameter %s", param.Name)
}

// Conversions between the Objective-C representation and the generic
// protocol value representation.

// ProtocolExportExpressionForVariable converts an Objective-C value to its
// protocol representation for sending.
func (m *Mapper) ProtocolExportExpressionForVariable(varType protocol.Type, varName string) (string, error) {
	category, err := CategoryForType(varType)
	if err != nil {
		return "", err
	}
	switch category {
	case CategorySimple, CategoryString:
		if _, ok := protocol.Resolve(varType).(*protocol.EnumType); ok {
			return "toProtocolString(" + varName + ")", nil
		}
		return varName, nil
	case CategoryObject:
		return "[" + varName + " toInspectorObject]", nil
	case CategoryArray:
		array, ok := protocol.Resolve(varType).(*protocol.ArrayType)
		if !ok {
			return "", errors.AssertionFailedf("cannot export untyped array %s", varName)
		}
		protocolType, err := m.protocolTypeForType(array.ElementType())
		if err != nil {
			return "", err
		}
		objcClass, err := m.ClassForType(array.ElementType())
		if err != nil {
			return "", err
		}
		switch {
		case protocolType == "Inspector::Protocol::Array<String>":
			return "inspectorStringArrayArray(" + varName + ")", nil
		case protocolType == "String" && objcClass == "NSString":
			return "inspectorStringArray(" + varName + ")", nil
		case protocolType == "int" && objcClass == "NSNumber":
			return "inspectorIntegerArray(" + varName + ")", nil
		case protocolType == "double" && objcClass == "NSNumber":
			return "inspectorDoubleArray(" + varName + ")", nil
		default:
			return "inspectorObjectArray(" + varName + ")", nil
		}
	}
	return "", errors.AssertionFailedf("unhandled category for %s", varName)
}

// ProtocolImportExpressionForParameter converts a received protocol value
// into its Objective-C representation at a parameter site.
func (m *Mapper) ProtocolImportExpressionForParameter(name string, domain *protocol.Domain, eventOrCommandName string, param *protocol.Parameter) (string, error) {
	if enum, ok := protocol.Resolve(param.Type).(*protocol.EnumType); ok {
		if enum.Anonymous() {
			return "fromProtocolString<" + m.EnumNameForAnonymousEnumParameter(domain, eventOrCommandName, param) + ">(" + name + ")", nil
		}
		return "fromProtocolString<" + m.EnumNameForNonAnonymousEnum(enum) + ">(" + name + ")", nil
	}
	return m.protocolImportExpressionForVariable(param.Type, name)
}

func (m *Mapper) protocolImportExpressionForVariable(varType protocol.Type, varName string) (string, error) {
	category, err := CategoryForType(varType)
	if err != nil {
		return "", err
	}
	switch category {
	case CategorySimple, CategoryString:
		return varName, nil
	case CategoryObject:
		objcClass, err := m.ClassForType(varType)
		if err != nil {
			return "", err
		}
		return "[[[" + objcClass + " alloc] initWithInspectorObject:" + varName + "] autorelease]", nil
	case CategoryArray:
		array, ok := protocol.Resolve(varType).(*protocol.ArrayType)
		if !ok {
			return "", errors.AssertionFailedf("cannot import untyped array %s", varName)
		}
		objcClass, err := m.ClassForType(array.ElementType())
		if err != nil {
			return "", err
		}
		switch objcClass {
		case "NSString":
			return "objcStringArray(" + varName + ")", nil
		case "NSNumber":
			return "objcIntegerArray(" + varName + ")", nil
		default:
			return "objcArray<" + objcClass + ">(" + varName + ")", nil
		}
	}
	return "", errors.AssertionFailedf("unhandled category for %s", varName)
}

// ToProtocolExpressionForMember converts a member value from the
// Objective-C API to the keyed protocol representation for a setter.
func (m *Mapper) ToProtocolExpressionForMember(decl *protocol.TypeDeclaration, member *protocol.TypeMember, subExpression string) (string, error) {
	category, err := CategoryForType(member.Type)
	if err != nil {
		return "", err
	}
	switch category {
	case CategorySimple, CategoryString:
		if _, ok := protocol.Resolve(member.Type).(*protocol.EnumType); ok {
			return "toProtocolString(" + subExpression + ")", nil
		}
		return subExpression, nil
	case CategoryObject:
		return subExpression, nil
	case CategoryArray:
		array, ok := protocol.Resolve(member.Type).(*protocol.ArrayType)
		if !ok {
			return "", errors.AssertionFailedf("cannot convert untyped array member %s", member.Name)
		}
		objcClass, err := m.ClassForType(array.ElementType())
		if err != nil {
			return "", err
		}
		switch objcClass {
		case "NSString":
			return "inspectorStringArray(" + subExpression + ")", nil
		case "NSNumber":
			protocolType, err := m.protocolTypeForType(array.ElementType())
			if err != nil {
				return "", err
			}
			if protocolType == "double" {
				return "inspectorDoubleArray(" + subExpression + ")", nil
			}
			return "inspectorIntegerArray(" + subExpression + ")", nil
		default:
			return "inspectorObjectArray(" + subExpression + ")", nil
		}
	}
	return "", errors.AssertionFailedf("unhandled category for member %s", member.Name)
}

// ProtocolToObjCExpressionForMember converts a keyed protocol value to the
// Objective-C API representation for a getter.
func (m *Mapper) ProtocolToObjCExpressionForMember(decl *protocol.TypeDeclaration, member *protocol.TypeMember, subExpression string) (string, error) {
	category, err := CategoryForType(member.Type)
	if err != nil {
		return "", err
	}
	switch category {
	case CategorySimple, CategoryString:
		if enum, ok := protocol.Resolve(member.Type).(*protocol.EnumType); ok {
			return "fromProtocolString<" + m.enumNameForMember(enum, decl, member) + ">(" + subExpression + ")", nil
		}
		return subExpression, nil
	case CategoryObject:
		objcType, err := m.TypeForMember(decl, member)
		if err != nil {
			return "", err
		}
		return "(" + objcType + ")" + subExpression, nil
	case CategoryArray:
		array, ok := protocol.Resolve(member.Type).(*protocol.ArrayType)
		if !ok {
			return "", errors.AssertionFailedf("cannot convert untyped array member %s", member.Name)
		}
		objcClass, err := m.ClassForType(array.ElementType())
		if err != nil {
			return "", err
		}
		switch objcClass {
		case "NSString":
			return "objcStringArray(" + subExpression + ")", nil
		case "NSNumber":
			protocolType, err := m.protocolTypeForType(array.ElementType())
			if err != nil {
				return "", err
			}
			if protocolType == "double" {
				return "objcDoubleArray(" + subExpression + ")", nil
			}
			return "objcIntegerArray(" + subExpression + ")", nil
		default:
			return "objcArray<" + objcClass + ">(" + subExpression + ")", nil
		}
	}
	return "", errors.AssertionFailedf("unhandled category for member %s", member.Name)
}

// Keyed accessor selectors on the JSON object base class.

// SetterMethodForMember selects the keyed setter for a member's type.
func (m *Mapper) SetterMethodForMember(member *protocol.TypeMember) (string, error) {
	switch concrete := protocol.Resolve(member.Type).(type) {
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "boolean":
			return "setBool", nil
		case "integer":
			return "setInteger", nil
		case "number":
			return "setDouble", nil
		case "string":
			return "setString", nil
		case "any", "object":
			return "setObject", nil
		case "array":
			return "setInspectorArray", nil
		}
	case *protocol.EnumType:
		return "setString", nil
	case *protocol.ObjectType:
		return "setObject", nil
	case *protocol.ArrayType:
		return "setInspectorArray", nil
	}
	return "", errors.AssertionFailedf("no setter selector for member %s", member.Name)
}

// GetterMethodForMember selects the keyed getter for a member's type.
func (m *Mapper) GetterMethodForMember(member *protocol.TypeMember) (string, error) {
	switch concrete := protocol.Resolve(member.Type).(type) {
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "boolean":
			return "boolForKey", nil
		case "integer":
			return "integerForKey", nil
		case "number":
			return "doubleForKey", nil
		case "string":
			return "stringForKey", nil
		case "any", "object":
			return "objectForKey", nil
		case "array":
			return "inspectorArrayForKey", nil
		}
	case *protocol.EnumType:
		return "stringForKey", nil
	case *protocol.ObjectType:
		return "objectForKey", nil
	case *protocol.ArrayType:
		return "inspectorArrayForKey", nil
	}
	return "", errors.AssertionFailedf("no getter selector for member %s", member.Name)
}
