package objc

import "github.com/openinspect/protogen/protocol"

// covered reports whether the domain is whitelisted for an artifact kind.
// The test framework bypasses whitelisting so fixture protocols exercise
// every code path.
func covered(model *protocol.Model, whitelist []string, domain *protocol.Domain) bool {
	if model.Framework == protocol.FrameworkTest {
		return true
	}
	for _, name := range whitelist {
		if name == domain.Name {
			return true
		}
	}
	return false
}

func filterDomains(model *protocol.Model, whitelist []string, domains []*protocol.Domain) []*protocol.Domain {
	var out []*protocol.Domain
	for _, domain := range domains {
		if covered(model, whitelist, domain) {
			out = append(out, domain)
		}
	}
	return out
}
