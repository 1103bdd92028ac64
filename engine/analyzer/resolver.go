package analyzer

import (
	"strings"
)

// excludedTypeNames lists primitive keywords plus the short names of the
// most common standard-library types. Anything here can never be an
// internal dependency, whatever the registry holds.
var excludedTypeNames = map[string]struct{}{
	"boolean": {}, "byte": {}, "char": {}, "short": {}, "int": {},
	"long": {}, "float": {}, "double": {}, "void": {},
	"String": {}, "Object": {}, "Integer": {}, "Long": {}, "Double": {},
	"Float": {}, "Boolean": {}, "Character": {}, "Byte": {}, "Short": {},
	"Number": {}, "CharSequence": {}, "StringBuilder": {}, "StringBuffer": {},
	"List": {}, "ArrayList": {}, "LinkedList": {}, "Map": {}, "HashMap": {},
	"TreeMap": {}, "Set": {}, "HashSet": {}, "TreeSet": {}, "Collection": {},
	"Iterator": {}, "Iterable": {}, "Optional": {}, "Stream": {},
	"Exception": {}, "RuntimeException": {}, "Throwable": {}, "Error": {},
	"Thread": {}, "Runnable": {}, "Comparable": {}, "Comparator": {},
	"Class": {}, "Enum": {}, "Math": {}, "System": {},
}

// Resolve maps a raw type-name string to an internal fully-qualified class
// name. It is a pure ordered-fallback heuristic, not a type-checker: exact
// registry key, then current-package qualification, then the first import
// whose fully-qualified name ends with "." + name and is registered. It does
// not disambiguate same-named classes beyond import order, does not expand
// wildcard imports, and treats nested types as their enclosing lookup name.
//
// The boolean result is false for primitives, common library types, and
// anything not found in the registry: those are external, not errors.
func Resolve(rawTypeName, currentPackage string, imports []string, registry *Registry) (string, bool) {
	name := NormalizeTypeName(rawTypeName)
	if name == "" {
		return "", false
	}
	if _, excluded := excludedTypeNames[name]; excluded {
		return "", false
	}
	if strings.HasPrefix(name, "java.") || strings.HasPrefix(name, "javax.") {
		return "", false
	}

	if registry.Contains(name) {
		return name, true
	}

	qualified := QualifiedName(currentPackage, name)
	if registry.Contains(qualified) {
		return qualified, true
	}

	for _, imp := range imports {
		if strings.HasSuffix(imp, "."+name) && registry.Contains(imp) {
			return imp, true
		}
	}

	return "", false
}

// NormalizeTypeName strips generic type arguments and array brackets from a
// raw type-name string and trims surrounding whitespace.
func NormalizeTypeName(raw string) string {
	var b strings.Builder
	depth := 0
	for _, r := range raw {
		switch r {
		case '<':
			depth++
			continue
		case '>':
			if depth > 0 {
				depth--
			}
			continue
		case '[', ']':
			continue
		}
		if depth == 0 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
