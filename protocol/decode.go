package protocol

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/openinspect/protogen/errors"
)

// DecodeModel reads the JSON serialization of a protocol model, as produced
// by the external specification loader, and resolves all type references.
//
// This is deliberately a thin deserialization seam, not a parser for the
// authoring specification format: supplemental-domain merging, defaulting and
// schema validation happen upstream. Any dangling reference or alias cycle
// found here is a model-consistency fault and aborts the run.
func DecodeModel(r io.Reader, inputFile string) (*Model, error) {
	var raw modelJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding protocol model")
	}

	framework, err := FrameworkByName(raw.Framework)
	if err != nil {
		return nil, err
	}

	model := &Model{Framework: framework, InputFile: inputFile}
	res := &resolver{declared: make(map[string]Type)}

	// First pass: create domains and declared types so that cross-domain
	// references resolve regardless of declaration order.
	for _, rd := range raw.Domains {
		domain := &Domain{
			Name:         rd.Domain,
			FeatureGuard: rd.FeatureGuard,
			Availability: rd.Availability,
			Supplemental: rd.Supplemental,
		}
		model.Domains = append(model.Domains, domain)

		for _, rt := range rd.Types {
			declType, err := res.declareType(domain, rt)
			if err != nil {
				return nil, errors.Wrapf(err, "domain %s, type %s", domain.Name, rt.ID)
			}
			domain.TypeDeclarations = append(domain.TypeDeclarations, &TypeDeclaration{
				Name: rt.ID,
				Type: declType,
			})
		}
	}

	// Second pass: resolve member, parameter, alias and element references.
	for i, rd := range raw.Domains {
		domain := model.Domains[i]
		if err := res.resolveDomain(domain, rd); err != nil {
			return nil, errors.Wrapf(err, "domain %s", domain.Name)
		}
	}

	if err := res.checkAliasCycles(); err != nil {
		return nil, err
	}

	return model, nil
}

// JSON wire shapes for the serialized model.

type modelJSON struct {
	Framework string       `json:"framework,omitempty"`
	Domains   []domainJSON `json:"domains"`
}

type domainJSON struct {
	Domain       string         `json:"domain"`
	FeatureGuard string         `json:"featureGuard,omitempty"`
	Availability string         `json:"availability,omitempty"`
	Supplemental bool           `json:"supplemental,omitempty"`
	Types        []typeDeclJSON `json:"types,omitempty"`
	Commands     []commandJSON  `json:"commands,omitempty"`
	Events       []eventJSON    `json:"events,omitempty"`
}

type typeRefJSON struct {
	Type  string       `json:"type,omitempty"`
	Ref   string       `json:"$ref,omitempty"`
	Enum  []string     `json:"enum,omitempty"`
	Items *typeRefJSON `json:"items,omitempty"`
}

type typeDeclJSON struct {
	ID      string       `json:"id"`
	Type    string       `json:"type,omitempty"`
	Enum    []string     `json:"enum,omitempty"`
	Items   *typeRefJSON `json:"items,omitempty"`
	Members []paramJSON  `json:"members,omitempty"`
}

type paramJSON struct {
	Name     string       `json:"name"`
	Optional bool         `json:"optional,omitempty"`
	Type     string       `json:"type,omitempty"`
	Ref      string       `json:"$ref,omitempty"`
	Enum     []string     `json:"enum,omitempty"`
	Items    *typeRefJSON `json:"items,omitempty"`
}

type commandJSON struct {
	Name       string      `json:"name"`
	Async      bool        `json:"async,omitempty"`
	Parameters []paramJSON `json:"parameters,omitempty"`
	Returns    []paramJSON `json:"returns,omitempty"`
}

type eventJSON struct {
	Name       string      `json:"name"`
	Parameters []paramJSON `json:"parameters,omitempty"`
}

type pendingAlias struct {
	alias *AliasedType
	ref   typeRefJSON
	owner *Domain
}

type resolver struct {
	declared map[string]Type
	aliases  []pendingAlias
}

// declareType creates the declared type for a top-level declaration. Object
// and enum declarations become their own variants; everything else becomes a
// named alias around the referenced type, bound in the second pass.
func (r *resolver) declareType(domain *Domain, rt typeDeclJSON) (Type, error) {
	qualified := domain.Name + "." + rt.ID
	if _, exists := r.declared[qualified]; exists {
		return nil, errors.Newf("duplicate type declaration %s", qualified)
	}

	var declType Type
	switch {
	case len(rt.Enum) > 0:
		primitive, err := PrimitiveByName(rt.Type)
		if err != nil {
			return nil, err
		}
		declType = NewEnumType(rt.ID, domain, primitive, rt.Enum)
	case rt.Type == "object":
		declType = NewObjectType(rt.ID, domain)
	default:
		// Primitive, array and $ref declarations are transparent named
		// aliases; targets bind once every declaration exists.
		alias := NewAliasedType(rt.ID, domain, nil)
		r.aliases = append(r.aliases, pendingAlias{
			alias: alias,
			ref:   typeRefJSON{Type: rt.Type, Items: rt.Items},
			owner: domain,
		})
		declType = alias
	}

	r.declared[qualified] = declType
	return declType, nil
}

func (r *resolver) resolveDomain(domain *Domain, rd domainJSON) error {
	// Alias targets for this domain's declarations.
	remaining := r.aliases[:0]
	for _, pa := range r.aliases {
		if pa.owner != domain {
			remaining = append(remaining, pa)
			continue
		}
		target, err := r.resolveRef(domain, pa.ref)
		if err != nil {
			return errors.Wrapf(err, "type %s", pa.alias.RawName())
		}
		pa.alias.BindTarget(target)
	}
	r.aliases = remaining

	for i, rt := range rd.Types {
		decl := domain.TypeDeclarations[i]
		for _, rm := range rt.Members {
			memberType, err := r.resolveParamType(domain, rm)
			if err != nil {
				return errors.Wrapf(err, "type %s, member %s", decl.Name, rm.Name)
			}
			decl.Members = append(decl.Members, &TypeMember{
				Name:     rm.Name,
				Type:     memberType,
				Optional: rm.Optional,
			})
		}
		if obj, ok := decl.Type.(*ObjectType); ok {
			obj.BindMembers(decl.Members)
		}
	}

	for _, rc := range rd.Commands {
		command := &Command{Name: rc.Name, Async: rc.Async}
		for _, rp := range rc.Parameters {
			p, err := r.resolveParam(domain, rp)
			if err != nil {
				return errors.Wrapf(err, "command %s", rc.Name)
			}
			command.CallParameters = append(command.CallParameters, p)
		}
		for _, rp := range rc.Returns {
			p, err := r.resolveParam(domain, rp)
			if err != nil {
				return errors.Wrapf(err, "command %s", rc.Name)
			}
			command.ReturnParameters = append(command.ReturnParameters, p)
		}
		domain.Commands = append(domain.Commands, command)
	}

	for _, re := range rd.Events {
		event := &Event{Name: re.Name}
		for _, rp := range re.Parameters {
			p, err := r.resolveParam(domain, rp)
			if err != nil {
				return errors.Wrapf(err, "event %s", re.Name)
			}
			event.Parameters = append(event.Parameters, p)
		}
		domain.Events = append(domain.Events, event)
	}

	return nil
}

func (r *resolver) resolveParam(domain *Domain, rp paramJSON) (*Parameter, error) {
	t, err := r.resolveParamType(domain, rp)
	if err != nil {
		return nil, errors.Wrapf(err, "parameter %s", rp.Name)
	}
	return &Parameter{Name: rp.Name, Type: t, Optional: rp.Optional}, nil
}

// resolveParamType handles member/parameter sites, where inline enum values
// produce anonymous enum types.
func (r *resolver) resolveParamType(domain *Domain, rp paramJSON) (Type, error) {
	if len(rp.Enum) > 0 {
		primitive, err := PrimitiveByName(rp.Type)
		if err != nil {
			return nil, err
		}
		return NewAnonymousEnumType(domain, primitive, rp.Enum), nil
	}
	return r.resolveRef(domain, typeRefJSON{Type: rp.Type, Ref: rp.Ref, Items: rp.Items})
}

func (r *resolver) resolveRef(domain *Domain, ref typeRefJSON) (Type, error) {
	if ref.Ref != "" {
		qualified := ref.Ref
		if !strings.Contains(qualified, ".") {
			qualified = domain.Name + "." + qualified
		}
		t, ok := r.declared[qualified]
		if !ok {
			return nil, errors.Newf("unresolved type reference %q", ref.Ref)
		}
		return t, nil
	}

	if ref.Type == "array" && ref.Items != nil {
		element, err := r.resolveRef(domain, *ref.Items)
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}
		return NewArrayType(element), nil
	}

	if ref.Type == "" {
		return nil, errors.New("type reference carries neither $ref nor type")
	}
	return PrimitiveByName(ref.Type)
}

// checkAliasCycles verifies every declared alias chain terminates.
func (r *resolver) checkAliasCycles() error {
	for qualified, t := range r.declared {
		alias, ok := t.(*AliasedType)
		if !ok {
			continue
		}
		seen := map[Type]bool{}
		var walk Type = alias
		for {
			a, ok := walk.(*AliasedType)
			if !ok {
				break
			}
			if seen[a] {
				return errors.Newf("alias cycle through %s", qualified)
			}
			seen[a] = true
			walk = a.AliasedTarget()
			if walk == nil {
				return errors.Newf("unbound alias target for %s", qualified)
			}
		}
	}
	return nil
}
