// Package protocol holds the in-memory model of a remote inspection protocol
// specification: domains grouping type declarations, commands and events.
//
// The model is built once per generation run and is read-only afterwards.
// Generators hold references into it but never mutate it.
package protocol

import "github.com/openinspect/protogen/errors"

// Framework selects the generation flavor.
type Framework int

const (
	// FrameworkInspector is the unguarded default: inspector frontend
	// tooling consumes every domain unconditionally, so feature guards are
	// not emitted.
	FrameworkInspector Framework = iota

	// FrameworkPlatform is the native embedder build. Domain feature
	// guards wrap generated fragments so conditionally compiled features
	// stay out of builds that disable them.
	FrameworkPlatform

	// FrameworkTest bypasses per-backend domain whitelists so fixture
	// protocols exercise every artifact kind.
	FrameworkTest
)

// FrameworkByName maps a framework name to its constant. The empty string
// selects the unguarded default.
func FrameworkByName(name string) (Framework, error) {
	switch name {
	case "", "inspector":
		return FrameworkInspector, nil
	case "platform":
		return FrameworkPlatform, nil
	case "test":
		return FrameworkTest, nil
	}
	return 0, errors.Newf("unknown framework %q", name)
}

// Model is the root of a loaded protocol specification.
type Model struct {
	// Domains in declaration order.
	Domains []*Domain

	// Framework the artifacts are generated for.
	Framework Framework

	// InputFile is the originating specification path. It only feeds the
	// generated-file header comment and has no semantic weight.
	InputFile string
}

// Domain is a named grouping of related commands, events and types.
type Domain struct {
	Name             string
	TypeDeclarations []*TypeDeclaration
	Commands         []*Command
	Events           []*Event

	// FeatureGuard is an optional conditional-compilation expression
	// wrapped around the domain's generated fragments.
	FeatureGuard string

	// Availability tags the domain for runtime activation (e.g. "web").
	Availability string

	// Supplemental domains merge into another domain and are excluded from
	// primary generation passes.
	Supplemental bool
}

// TypeDeclaration is a named type plus, for object types, its ordered
// members.
type TypeDeclaration struct {
	Name    string
	Type    Type
	Members []*TypeMember
}

// TypeMember is a named, typed field of an object type declaration.
type TypeMember struct {
	Name     string
	Type     Type
	Optional bool
}

// Parameter is a named, typed command or event parameter.
type Parameter struct {
	Name     string
	Type     Type
	Optional bool
}

// Command is a protocol method with call and return parameters. Responses
// are delivered out-of-band through the dispatcher, never as return values.
type Command struct {
	Name             string
	CallParameters   []*Parameter
	ReturnParameters []*Parameter
	Async            bool
}

// Event is a notification pushed from the backend with ordered parameters.
type Event struct {
	Name       string
	Parameters []*Parameter
}
