package objc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/protocol"
)

// InternalHeaderEmitter produces the private header declaring the
// controller-backed initializer of each domain event dispatcher.
type InternalHeaderEmitter struct {
	gen.Base
	mapper *Mapper
}

// NewInternalHeaderEmitter builds the emitter from shared run state.
func NewInternalHeaderEmitter(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) *InternalHeaderEmitter {
	return &InternalHeaderEmitter{Base: gen.NewBase(model, cfg, facts), mapper: NewMapper(cfg)}
}

// OutputFilename implements gen.Emitter.
func (e *InternalHeaderEmitter) OutputFilename() string {
	return e.mapper.Prefix() + "Internal.h"
}

// Generate implements gen.Emitter.
func (e *InternalHeaderEmitter) Generate() (string, error) {
	headers := []string{
		fmt.Sprintf("\"%s.h\"", e.mapper.Prefix()),
		fmt.Sprintf("\"%sJSONObjectInternal.h\"", e.mapper.Prefix()),
		"<JavaScriptCore/InspectorValues.h>",
		"<JavaScriptCore/AugmentableInspectorController.h>",
	}
	sort.Strings(headers)
	imports := make([]string, len(headers))
	for i, header := range headers {
		imports[i] = "#import " + header
	}

	prelude, err := gen.Render(genericHeaderPrelude, map[string]any{
		"Includes": strings.Join(imports, "\n"),
	})
	if err != nil {
		return "", err
	}

	var interfaces []string
	for _, domain := range filterDomains(e.Model, e.Config.ObjC.EventDomains, e.DomainsToGenerate()) {
		if len(domain.Events) == 0 {
			continue
		}
		dispatcherName := fmt.Sprintf("%s%sDomainEventDispatcher", e.mapper.Prefix(), domain.Name)
		interfaces = append(interfaces, strings.Join([]string{
			fmt.Sprintf("@interface %s (Private)", dispatcherName),
			"- (instancetype)initWithController:(Inspector::AugmentableInspectorController*)controller;",
			"@end",
		}, "\n"))
	}

	sections := []string{e.GeneratedFileHeader(), prelude, strings.Join(interfaces, "\n\n")}
	return strings.Join(sections, "\n\n"), nil
}
