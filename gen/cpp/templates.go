package cpp

import "github.com/openinspect/protogen/gen"

// Artifact skeleton templates. Parsed at init; a malformed template aborts
// the generator before any artifact is attempted.
var (
	implementationPrelude = gen.MustTemplate("cpp-impl-prelude",
		`#include "config.h"
#include {{.PrimaryInclude}}

{{.SecondaryIncludes}}

namespace Inspector {`)

	implementationPostlude = gen.MustTemplate("cpp-impl-postlude",
		`} // namespace Inspector`)

	headerPrelude = gen.MustTemplate("cpp-header-prelude",
		`#ifndef {{.HeaderGuard}}
#define {{.HeaderGuard}}

{{.Includes}}

namespace Inspector {`)

	headerPostlude = gen.MustTemplate("cpp-header-postlude",
		`} // namespace Inspector

#endif // !defined({{.HeaderGuard}})`)

	alternateDispatcherInterface = gen.MustTemplate("cpp-alternate-dispatcher-interface",
		`class Alternate{{.DomainName}}BackendDispatcher : public AlternateBackendDispatcher {
public:
    virtual ~Alternate{{.DomainName}}BackendDispatcher() { }
{{.CommandDeclarations}}
};`)

	protocolObjectRuntimeCast = gen.MustTemplate("cpp-runtime-cast",
		`RefPtr<{{.ObjectType}}> BindingTraits<{{.ObjectType}}>::runtimeCast(RefPtr<Inspector::InspectorValue>&& value)
{
    RefPtr<Inspector::InspectorObject> result;
    bool castSucceeded = value->asObject(result);
    ASSERT_UNUSED(castSucceeded, castSucceeded);
#if !ASSERT_DISABLED
    BindingTraits<{{.ObjectType}}>::assertValueHasExpectedType(result.get());
#endif // !ASSERT_DISABLED
    COMPILE_ASSERT(sizeof({{.ObjectType}}) == sizeof(Inspector::InspectorObjectBase), type_cast_problem);
    return static_cast<{{.ObjectType}}*>(static_cast<Inspector::InspectorObjectBase*>(result.get()));
}`)
)
