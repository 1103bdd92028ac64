package analyzer

import (
	"github.com/structscan/structscan/engine/parser"
)

// collectDependencies runs pass 2 for a single class: every raw type name
// the class references is resolved against the registry, and the resolved
// internal names form the outgoing edge set. Sources, in the order the
// declaration reads: supertypes, implemented interfaces, field types, method
// return and parameter types, and object-creation expressions in method
// bodies. Unresolved names are external and dropped without error.
func collectDependencies(
	file *parser.FileFacts,
	class *parser.ClassFacts,
	registry *Registry,
	includeSelfDeps bool,
) map[string]struct{} {
	deps := make(map[string]struct{})
	self := QualifiedName(file.PackageName, class.SimpleName)

	add := func(rawName string) {
		resolved, ok := Resolve(rawName, file.PackageName, file.Imports, registry)
		if !ok {
			return
		}
		if !includeSelfDeps && resolved == self {
			return
		}
		deps[resolved] = struct{}{}
	}

	for _, name := range class.Supertypes {
		add(name)
	}
	for _, name := range class.Interfaces {
		add(name)
	}
	for _, field := range class.Fields {
		add(field.Type)
	}
	for _, method := range class.Methods {
		add(method.ReturnType)
		for _, param := range method.ParamTypes {
			add(param)
		}
		for _, constructed := range method.ConstructedTypes {
			add(constructed)
		}
	}

	return deps
}
