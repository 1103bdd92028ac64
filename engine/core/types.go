package core

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ID represents a unique identifier for an analysis run
type ID string

// NewID generates a new unique ID
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the string representation of the ID
func (id ID) String() string {
	return string(id)
}

// ClassMetrics holds the per-class object-oriented quality metrics
type ClassMetrics struct {
	CBO  int `json:"cbo"`
	DIT  int `json:"dit"`
	LCOM int `json:"lcom"`
	RFC  int `json:"rfc"`
}

// ClassRecord describes one declared class or interface and its coupling.
// A record is created during registry construction; DependsOn is written
// exactly once during dependency collection and DependedBy only during
// aggregation, after collection has finished for every class.
type ClassRecord struct {
	ClassName   string `json:"className"` // fully-qualified name, registry key
	SimpleName  string `json:"simpleName"`
	PackageName string `json:"packageName"`
	FilePath    string `json:"filePath"` // relative to the project root
	IsInterface bool   `json:"isInterface"`
	IsAbstract  bool   `json:"isAbstract"`
	MethodCount int    `json:"methodCount"`
	FieldCount  int    `json:"fieldCount"`

	// DependsOn and DependedBy are sets keyed by fully-qualified name.
	// CouplingOut and CouplingIn are always their cardinalities.
	DependsOn   map[string]struct{} `json:"-"`
	DependedBy  map[string]struct{} `json:"-"`
	CouplingOut int                 `json:"couplingOut"`
	CouplingIn  int                 `json:"couplingIn"`

	Metrics ClassMetrics `json:"metrics"`
}

// NewClassRecord creates an empty record for a declared class or interface
func NewClassRecord(className, simpleName, packageName, filePath string) *ClassRecord {
	return &ClassRecord{
		ClassName:   className,
		SimpleName:  simpleName,
		PackageName: packageName,
		FilePath:    filePath,
		DependsOn:   make(map[string]struct{}),
		DependedBy:  make(map[string]struct{}),
	}
}

// TotalCoupling returns the combined in- and outgoing coupling
func (c *ClassRecord) TotalCoupling() int {
	return c.CouplingOut + c.CouplingIn
}

// Instability returns the efferent share of the total coupling (0 when uncoupled)
func (c *ClassRecord) Instability() float64 {
	total := c.CouplingOut + c.CouplingIn
	if total == 0 {
		return 0
	}
	return float64(c.CouplingOut) / float64(total)
}

// DependsOnSorted returns the outgoing edges in lexicographic order.
// Set iteration order is not stable in Go, so serialization always goes
// through this snapshot to keep output reproducible.
func (c *ClassRecord) DependsOnSorted() []string {
	return sortedKeys(c.DependsOn)
}

// DependedBySorted returns the incoming edges in lexicographic order
func (c *ClassRecord) DependedBySorted() []string {
	return sortedKeys(c.DependedBy)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProjectAnalysis is the single immutable output document of a run.
// Classes are ordered by total coupling, descending, stable on ties.
type ProjectAnalysis struct {
	ProjectName          string         `json:"projectName"`
	ProjectPath          string         `json:"projectPath"`
	ProjectGroupID       string         `json:"projectGroupId"`
	TotalClasses         int            `json:"totalClasses"`
	AverageCoupling      float64        `json:"averageCoupling"`
	MaxCoupling          int            `json:"maxCoupling"`
	HighlyCoupledClasses int            `json:"highlyCoupledClasses"`
	Classes              []*ClassRecord `json:"classes"`
	AnalyzedAt           time.Time      `json:"analyzedAt"`
	DurationMs           int64          `json:"durationMs"`
}

// MethodFieldAccess maps method names to the set of fields each method
// reads. It is an intermediate structure consumed by the LCOM calculator
// and discarded afterwards.
type MethodFieldAccess map[string]map[string]struct{}
