package protocol

import (
	"github.com/openinspect/protogen/errors"
)

// Type is the closed set of protocol type variants. Exactly five
// implementations exist: *PrimitiveType, *EnumType, *ObjectType, *ArrayType
// and *AliasedType. Every classification site type-switches over these five;
// an unknown variant is a programming defect and fails loudly.
type Type interface {
	// QualifiedName returns "Domain.Name" for declared types and the raw
	// primitive name for primitives.
	QualifiedName() string

	// RawName returns the name without domain qualification.
	RawName() string

	// TypeDomain returns the declaring domain, or nil for primitives and
	// array types.
	TypeDomain() *Domain

	sealed()
}

// PrimitiveType is one of the seven protocol base types: string, integer,
// number, boolean, any, object, array.
type PrimitiveType struct {
	name string
}

var primitives = map[string]*PrimitiveType{
	"string":  {name: "string"},
	"integer": {name: "integer"},
	"number":  {name: "number"},
	"boolean": {name: "boolean"},
	"any":     {name: "any"},
	"object":  {name: "object"},
	"array":   {name: "array"},
}

// PrimitiveByName returns the shared instance for a protocol base type name.
func PrimitiveByName(name string) (*PrimitiveType, error) {
	p, ok := primitives[name]
	if !ok {
		return nil, errors.Newf("unknown primitive type %q", name)
	}
	return p, nil
}

func (p *PrimitiveType) QualifiedName() string { return p.name }
func (p *PrimitiveType) RawName() string       { return p.name }
func (p *PrimitiveType) TypeDomain() *Domain   { return nil }
func (p *PrimitiveType) sealed()               {}

// EnumType is a primitive base type restricted to an ordered set of distinct
// string values. Anonymous enums are declared inline at a member or parameter
// site and have no standalone identity; their generated names are synthesized
// from the declaring context.
type EnumType struct {
	name      string
	domain    *Domain
	primitive *PrimitiveType
	values    []string
	anonymous bool
}

// NewEnumType creates a named, declared enum type.
func NewEnumType(name string, domain *Domain, primitive *PrimitiveType, values []string) *EnumType {
	return &EnumType{name: name, domain: domain, primitive: primitive, values: values}
}

// NewAnonymousEnumType creates an enum declared inline at a member or
// parameter site.
func NewAnonymousEnumType(domain *Domain, primitive *PrimitiveType, values []string) *EnumType {
	return &EnumType{domain: domain, primitive: primitive, values: values, anonymous: true}
}

func (e *EnumType) QualifiedName() string {
	if e.domain == nil || e.name == "" {
		return e.name
	}
	return e.domain.Name + "." + e.name
}
func (e *EnumType) RawName() string       { return e.name }
func (e *EnumType) TypeDomain() *Domain   { return e.domain }
func (e *EnumType) sealed()               {}

// PrimitiveBase returns the enum's underlying primitive type.
func (e *EnumType) PrimitiveBase() *PrimitiveType { return e.primitive }

// Values returns the ordered enum values.
func (e *EnumType) Values() []string { return e.values }

// Anonymous reports whether this enum was declared inline.
func (e *EnumType) Anonymous() bool { return e.anonymous }

// ObjectType is a struct-like type whose members come from its declaration.
type ObjectType struct {
	name    string
	domain  *Domain
	members []*TypeMember
}

// NewObjectType creates a declared object type. Members are bound after
// construction, once the declaration's member list has been resolved.
func NewObjectType(name string, domain *Domain) *ObjectType {
	return &ObjectType{name: name, domain: domain}
}

func (o *ObjectType) QualifiedName() string { return o.domain.Name + "." + o.name }
func (o *ObjectType) RawName() string       { return o.name }
func (o *ObjectType) TypeDomain() *Domain   { return o.domain }
func (o *ObjectType) sealed()               {}

// Members returns the ordered type members.
func (o *ObjectType) Members() []*TypeMember { return o.members }

// BindMembers attaches the declaration's resolved member list.
func (o *ObjectType) BindMembers(members []*TypeMember) { o.members = members }

// ArrayType holds an element type, recursively any variant.
type ArrayType struct {
	element Type
}

// NewArrayType creates an array of the given element type.
func NewArrayType(element Type) *ArrayType { return &ArrayType{element: element} }

func (a *ArrayType) QualifiedName() string { return "array" }
func (a *ArrayType) RawName() string       { return "array" }
func (a *ArrayType) TypeDomain() *Domain   { return nil }
func (a *ArrayType) sealed()               {}

// ElementType returns the array's element type.
func (a *ArrayType) ElementType() Type { return a.element }

// AliasedType is a transparent named wrapper forwarding to another type.
// Chains are acyclic; callers must Resolve before any category decision.
type AliasedType struct {
	name   string
	domain *Domain
	target Type
}

// NewAliasedType creates a named alias. The target may be bound later during
// reference resolution.
func NewAliasedType(name string, domain *Domain, target Type) *AliasedType {
	return &AliasedType{name: name, domain: domain, target: target}
}

func (a *AliasedType) QualifiedName() string { return a.domain.Name + "." + a.name }
func (a *AliasedType) RawName() string       { return a.name }
func (a *AliasedType) TypeDomain() *Domain   { return a.domain }
func (a *AliasedType) sealed()               {}

// AliasedTarget returns the aliased type.
func (a *AliasedType) AliasedTarget() Type { return a.target }

// BindTarget attaches the alias target once resolved.
func (a *AliasedType) BindTarget(target Type) { a.target = target }

// Resolve unwraps alias chains until a non-alias variant is reached. Chains
// are guaranteed acyclic by the loader, so this terminates.
func Resolve(t Type) Type {
	for {
		alias, ok := t.(*AliasedType)
		if !ok {
			return t
		}
		t = alias.target
	}
}
