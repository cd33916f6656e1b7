package gen

import (
	"path/filepath"
	"strings"

	"github.com/openinspect/protogen/protocol"
)

// Base is embedded by every emitter. It bundles the read-only model, the
// configuration and the precomputed facts, and provides the shared traversal
// and text helpers.
type Base struct {
	Model  *protocol.Model
	Config *Config
	Facts  *Facts
}

// NewBase builds the shared emitter state. The same Facts value must back
// every emitter of a run.
func NewBase(model *protocol.Model, cfg *Config, facts *Facts) Base {
	return Base{Model: model, Config: cfg, Facts: facts}
}

// DomainsToGenerate returns non-supplemental domains in declaration order.
// Emitters filter this further with their own predicates.
func (b *Base) DomainsToGenerate() []*protocol.Domain {
	return nonSupplemental(b.Model)
}

// GeneratedFileHeader returns the header comment placed at the top of every
// artifact, naming the originating specification file.
func (b *Base) GeneratedFileHeader() string {
	return "// Generated by protogen from " + filepath.Base(b.Model.InputFile) + " - DO NOT EDIT.\n" +
		"// Regenerate by rerunning the protocol bindings generator."
}

// WrapWithGuard wraps text in the domain's conditional-compilation guard.
// The inspector frontend framework consumes every domain unconditionally, so
// it passes text through unchanged.
func (b *Base) WrapWithGuard(domain *protocol.Domain, text string) string {
	if b.Model.Framework == protocol.FrameworkInspector {
		return text
	}
	if domain.FeatureGuard == "" {
		return text
	}
	return WrapWithGuard(domain.FeatureGuard, text)
}

// WrapWithGuard wraps text in a preprocessor conditional.
func WrapWithGuard(guard, text string) string {
	return strings.Join([]string{
		"#if " + guard,
		text,
		"#endif // " + guard,
	}, "\n")
}

// TypeNeedsRuntimeCasts reports whether the type is in the runtime-cast
// allow-list.
func (b *Base) TypeNeedsRuntimeCasts(t protocol.Type) bool {
	return b.Config.TypeNeedsRuntimeCasts(t.QualifiedName())
}

// TypeHasOpenFields reports whether the type permits extra untyped keys.
func (b *Base) TypeHasOpenFields(t protocol.Type) bool {
	return b.Config.TypeHasOpenFields(t.QualifiedName())
}

// Emitter is one output artifact: a fixed filename and the generation of its
// full text. Emitters are constructed per artifact and discarded afterwards.
// Generation is all-or-nothing; an error means no output for that artifact.
type Emitter interface {
	OutputFilename() string
	Generate() (string, error)
}
