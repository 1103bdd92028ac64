package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/engine/parser"
)

func fieldSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func Test_CalculateLCOM(t *testing.T) {
	t.Run("Should be zero for a class with at most one method", func(t *testing.T) {
		assert.Equal(t, 0, calculateLCOM(core.MethodFieldAccess{}))
		assert.Equal(t, 0, calculateLCOM(core.MethodFieldAccess{
			"solo": fieldSet("a", "b"),
		}))
	})

	t.Run("Should count disjoint pairs minus sharing pairs", func(t *testing.T) {
		// getA/getB are disjoint, getA/getAB and getB/getAB each share.
		access := core.MethodFieldAccess{
			"getA":  fieldSet("a"),
			"getB":  fieldSet("b"),
			"getAB": fieldSet("a", "b"),
		}
		// p = 1, q = 2
		assert.Equal(t, 0, calculateLCOM(access))
	})

	t.Run("Should be positive when disjoint pairs dominate", func(t *testing.T) {
		access := core.MethodFieldAccess{
			"getA": fieldSet("a"),
			"getB": fieldSet("b"),
			"getC": fieldSet("c"),
		}
		// p = 3, q = 0
		assert.Equal(t, 3, calculateLCOM(access))
	})

	t.Run("Should treat methods without field access as disjoint from everything", func(t *testing.T) {
		access := core.MethodFieldAccess{
			"getA": fieldSet("a"),
			"noop": fieldSet(),
		}
		assert.Equal(t, 1, calculateLCOM(access))
	})

	t.Run("Should clamp the result at zero", func(t *testing.T) {
		access := core.MethodFieldAccess{
			"getA":  fieldSet("a"),
			"setA":  fieldSet("a"),
			"touch": fieldSet("a"),
		}
		// p = 0, q = 3
		assert.Equal(t, 0, calculateLCOM(access))
	})
}

func Test_MethodFieldAccess(t *testing.T) {
	t.Run("Should collapse overloads into one entry per name", func(t *testing.T) {
		class := &parser.ClassFacts{
			Methods: []*parser.MethodFacts{
				{Name: "set", FieldAccesses: fieldSet("a")},
				{Name: "set", FieldAccesses: fieldSet("b")},
				{Name: "get", FieldAccesses: fieldSet("a")},
			},
		}
		access := methodFieldAccess(class)
		assert.Len(t, access, 2)
		assert.Equal(t, fieldSet("a", "b"), access["set"])
		assert.Equal(t, fieldSet("a"), access["get"])
	})
}

func Test_CalculateRFC(t *testing.T) {
	t.Run("Should sum declared methods and distinct called names", func(t *testing.T) {
		class := &parser.ClassFacts{
			Methods: []*parser.MethodFacts{
				{Name: "run", CalledMethods: fieldSet("open", "close")},
				{Name: "stop", CalledMethods: fieldSet("close")},
			},
		}
		// 2 methods + {open, close}
		assert.Equal(t, 4, calculateRFC(class))
	})

	t.Run("Should be zero for a class without methods", func(t *testing.T) {
		assert.Equal(t, 0, calculateRFC(&parser.ClassFacts{}))
	})
}

func Test_CalculateDIT(t *testing.T) {
	t.Run("Should be one for any non-empty supertype list", func(t *testing.T) {
		assert.Equal(t, 1, calculateDIT(&parser.ClassFacts{Supertypes: []string{"Base"}}))
		assert.Equal(t, 1, calculateDIT(&parser.ClassFacts{Supertypes: []string{"A", "B"}}))
	})

	t.Run("Should be zero without an extends clause", func(t *testing.T) {
		assert.Equal(t, 0, calculateDIT(&parser.ClassFacts{Interfaces: []string{"Runnable"}}))
	})
}

func Test_CalculateMetrics(t *testing.T) {
	t.Run("Should derive CBO from the collected out-degree", func(t *testing.T) {
		record := core.NewClassRecord("p.C", "C", "p", "C.java")
		record.DependsOn = fieldSet("p.A", "p.B")
		record.CouplingOut = len(record.DependsOn)

		class := &parser.ClassFacts{
			Supertypes: []string{"A"},
			Methods: []*parser.MethodFacts{
				{Name: "go", FieldAccesses: fieldSet("a"), CalledMethods: fieldSet("run")},
			},
		}
		calculateMetrics(record, class)

		assert.Equal(t, 2, record.Metrics.CBO)
		assert.Equal(t, 1, record.Metrics.DIT)
		assert.Equal(t, 0, record.Metrics.LCOM)
		assert.Equal(t, 2, record.Metrics.RFC)
	})
}
