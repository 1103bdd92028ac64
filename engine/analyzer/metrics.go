package analyzer

import (
	"sort"

	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/engine/parser"
)

// calculateMetrics fills in the per-class quality metrics. All of them
// operate on the class's own facts; CBO alone comes from the dependency
// graph and equals the out-degree computed in pass 2.
func calculateMetrics(record *core.ClassRecord, class *parser.ClassFacts) {
	record.Metrics = core.ClassMetrics{
		CBO:  record.CouplingOut,
		DIT:  calculateDIT(class),
		LCOM: calculateLCOM(methodFieldAccess(class)),
		RFC:  calculateRFC(class),
	}
}

// calculateDIT is the one-level inheritance indicator: 1 when the class has
// a non-empty supertype list, 0 otherwise. Whether the supertype is internal
// or external does not matter. This is not a tree-depth walk.
func calculateDIT(class *parser.ClassFacts) int {
	if len(class.Supertypes) > 0 {
		return 1
	}
	return 0
}

// methodFieldAccess builds the method-name to accessed-field-names mapping
// consumed by LCOM. Overloads collapse into one entry per name.
func methodFieldAccess(class *parser.ClassFacts) core.MethodFieldAccess {
	access := make(core.MethodFieldAccess, len(class.Methods))
	for _, method := range class.Methods {
		fields, ok := access[method.Name]
		if !ok {
			fields = make(map[string]struct{})
			access[method.Name] = fields
		}
		for name := range method.FieldAccesses {
			fields[name] = struct{}{}
		}
	}
	return access
}

// calculateLCOM is the classic pairwise formula: p counts method pairs with
// no accessed field in common, q counts pairs sharing at least one, and the
// result is max(p-q, 0). A class with at most one method that has recorded
// field-access info scores 0.
func calculateLCOM(access core.MethodFieldAccess) int {
	if len(access) <= 1 {
		return 0
	}

	names := make([]string, 0, len(access))
	for name := range access {
		names = append(names, name)
	}
	sort.Strings(names)

	p, q := 0, 0
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if disjointFields(access[names[i]], access[names[j]]) {
				p++
			} else {
				q++
			}
		}
	}
	if p > q {
		return p - q
	}
	return 0
}

func disjointFields(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for field := range a {
		if _, shared := b[field]; shared {
			return false
		}
	}
	return true
}

// calculateRFC approximates Response For a Class as the declared method
// count plus the number of distinct method-call names in all bodies. Names
// are not resolved to receivers, so identically-named calls collapse.
func calculateRFC(class *parser.ClassFacts) int {
	called := make(map[string]struct{})
	for _, method := range class.Methods {
		for name := range method.CalledMethods {
			called[name] = struct{}{}
		}
	}
	return len(class.Methods) + len(called)
}
