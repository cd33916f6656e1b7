package gen

import (
	"strings"
	"text/template"

	"github.com/openinspect/protogen/errors"
)

// Emitters render artifact fragments through text/template with named
// placeholders. Templates parse at package init through MustTemplate, so a
// malformed template kills the generator before any output is attempted, and
// missing substitution keys fail the render instead of emitting "<no value>".

// MustTemplate parses a generator template, panicking on malformed template
// text. Call from package-level var initialization only.
func MustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// Render executes a template against its substitution data. A failure is a
// programming defect in the emitter and is fatal for the artifact.
func Render(t *template.Template, data map[string]any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "template %s", t.Name())
	}
	return sb.String(), nil
}
