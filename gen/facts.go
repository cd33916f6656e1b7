package gen

import (
	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/logger"
	"github.com/openinspect/protogen/protocol"
)

// ErrUnknownEnumValue is returned when an enum value was never registered
// during the interning traversal. A well-formed model cannot trigger it; it
// indicates an internal-consistency fault and must abort generation.
var ErrUnknownEnumValue = errors.New("unknown enum value")

// Facts is the immutable derived state shared by every emitter in one
// generation run: the global enum-value encoding table and the set of types
// requiring debug-only shape assertions.
//
// Facts are computed explicitly, once, before any emitter runs, and the same
// value is passed to all of them. Emitters that disagree on these tables
// would produce artifacts that disagree on encodings and validators, so
// there is no lazy per-emitter recomputation.
type Facts struct {
	enumValues      []string
	enumEncodings   map[string]int
	shapeAssertions map[protocol.Type]bool
}

// ComputeFacts derives facts over all non-supplemental domains. This is the
// standard entry point for a generation run.
func ComputeFacts(model *protocol.Model, cfg *Config) *Facts {
	return FactsForDomains(model, cfg, nonSupplemental(model))
}

// FactsForDomains derives facts with the shape-assertion closure rooted only
// in the given domains' declarations. The enum table is always global: enum
// encodings are a protocol-wide contract regardless of which domains an
// artifact covers.
//
// Each call computes a fresh, independent set; restricting the domains never
// mutates a previously computed Facts value.
func FactsForDomains(model *protocol.Model, cfg *Config, domains []*protocol.Domain) *Facts {
	f := &Facts{
		enumEncodings:   make(map[string]int),
		shapeAssertions: make(map[protocol.Type]bool),
	}
	f.assignEnumValues(model)
	f.gatherShapeAssertions(cfg, domains)
	return f
}

// AssignedEnumValues returns the ordered table of distinct enum value
// strings. Index in the slice is the value's integer encoding.
func (f *Facts) AssignedEnumValues() []string {
	out := make([]string, len(f.enumValues))
	copy(out, f.enumValues)
	return out
}

// EncodingForEnumValue returns the integer encoding assigned to the value.
func (f *Facts) EncodingForEnumValue(value string) (int, error) {
	encoding, ok := f.enumEncodings[value]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownEnumValue, "%q", value)
	}
	return encoding, nil
}

// TypeNeedsShapeAssertions reports whether the type was reached by the
// assertion closure walk.
func (f *Facts) TypeNeedsShapeAssertions(t protocol.Type) bool {
	return f.shapeAssertions[t]
}

// assignEnumValues walks the whole protocol in a fixed order (type
// declarations and their members, then event parameters, then command call
// and return parameters, domains in declaration order), assigning each
// distinct enum value string an integer on first sight. Every occurrence of
// the same literal anywhere in the protocol shares one encoding.
func (f *Facts) assignEnumValues(model *protocol.Model) {
	domains := nonSupplemental(model)

	var allTypes []protocol.Type
	for _, domain := range domains {
		for _, decl := range domain.TypeDeclarations {
			allTypes = append(allTypes, decl.Type)
			for _, member := range decl.Members {
				allTypes = append(allTypes, member.Type)
			}
		}
	}
	for _, domain := range domains {
		for _, event := range domain.Events {
			for _, param := range event.Parameters {
				allTypes = append(allTypes, param.Type)
			}
		}
	}
	for _, domain := range domains {
		for _, command := range domain.Commands {
			for _, param := range command.CallParameters {
				allTypes = append(allTypes, param.Type)
			}
			for _, param := range command.ReturnParameters {
				allTypes = append(allTypes, param.Type)
			}
		}
	}

	for _, t := range allTypes {
		enum, ok := t.(*protocol.EnumType)
		if !ok {
			continue
		}
		for _, value := range enum.Values() {
			if _, seen := f.enumEncodings[value]; seen {
				continue
			}
			f.enumEncodings[value] = len(f.enumValues)
			f.enumValues = append(f.enumValues, value)
		}
	}
}

// gatherShapeAssertions computes the reflexive-transitive closure, under
// member, element and alias edges, of every declaration whose qualified name
// is in the runtime-cast allow-list. Object and enum types reached by the
// walk are added; arrays and aliases are walked through; primitives
// terminate. Roots come only from the given domains, but the walk itself
// crosses domain boundaries.
func (f *Facts) gatherShapeAssertions(cfg *Config, domains []*protocol.Domain) {
	for _, domain := range domains {
		for _, decl := range domain.TypeDeclarations {
			if !cfg.TypeNeedsRuntimeCasts(decl.Type.QualifiedName()) {
				continue
			}
			logger.Debugw("gathering types referenced for shape assertions",
				"type", decl.Type.QualifiedName())
			f.gather(decl.Type)
		}
	}
}

func (f *Facts) gather(t protocol.Type) {
	if f.shapeAssertions[t] {
		return
	}
	switch concrete := t.(type) {
	case *protocol.ObjectType:
		f.shapeAssertions[t] = true
		for _, member := range concrete.Members() {
			f.gather(member.Type)
		}
	case *protocol.EnumType:
		f.shapeAssertions[t] = true
	case *protocol.AliasedType:
		f.gather(concrete.AliasedTarget())
	case *protocol.ArrayType:
		f.gather(concrete.ElementType())
	case *protocol.PrimitiveType:
		// Terminates the walk.
	}
}

func nonSupplemental(model *protocol.Model) []*protocol.Domain {
	var out []*protocol.Domain
	for _, domain := range model.Domains {
		if !domain.Supplemental {
			out = append(out, domain)
		}
	}
	return out
}
