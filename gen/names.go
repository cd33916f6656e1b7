package gen

import (
	"regexp"
	"strings"

	"github.com/openinspect/protogen/protocol"
)

// Acronym substrings force-uppercased wherever they appear as camel-cased
// subwords in stylized enum names.
var alwaysUppercasedEnumValueSubstrings = []string{"API", "CSS", "DOM", "HTML", "JIT", "XHR", "XML"}

var acronymPattern = regexp.MustCompile("(?i)(" + strings.Join(alwaysUppercasedEnumValueSubstrings, "|") + ")")

// UpperFirst upper-cases the first character of s.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StylizedNameForEnumValue converts a hyphen-separated lowercase enum
// literal into camel case, force-uppercasing the well-known acronyms:
// "disk-cache" becomes "DiskCache", "xhr-load" becomes "XHRLoad".
func StylizedNameForEnumValue(enumValue string) string {
	subwords := strings.Split(enumValue, "-")
	for i, word := range subwords {
		subwords[i] = UpperFirst(word)
	}
	return acronymPattern.ReplaceAllStringFunc(strings.Join(subwords, ""), strings.ToUpper)
}

// JSNameForParameterType returns the runtime type-name string used by the
// script dispatch table to validate a parameter: arrays, objects and "any"
// collapse to "object", integer and number collapse to "number".
func JSNameForParameterType(t protocol.Type) string {
	t = protocol.Resolve(t)
	if enum, ok := t.(*protocol.EnumType); ok {
		t = enum.PrimitiveBase()
	}

	switch concrete := t.(type) {
	case *protocol.ArrayType, *protocol.ObjectType:
		return "object"
	case *protocol.PrimitiveType:
		switch concrete.RawName() {
		case "object", "any":
			return "object"
		case "integer", "number":
			return "number"
		default:
			return concrete.RawName()
		}
	}
	return "object"
}
