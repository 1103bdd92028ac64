package analyzer

import (
	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/engine/parser"
	"github.com/structscan/structscan/pkg/logger"
)

// Registry is the project-wide map of fully-qualified class name to record.
// It is built in full before any dependency resolution starts: classes may
// reference each other cyclically, so build-then-resolve are two separate
// passes over all files, never one streaming pass.
//
// Write discipline per phase: insert-only while building, dependency-set
// writes during collection, incoming-edge writes during aggregation.
type Registry struct {
	records map[string]*core.ClassRecord
	order   []string // fully-qualified names in discovery order
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*core.ClassRecord)}
}

// BuildRegistry runs pass 1: one ClassRecord per declared class/interface
// across all parsed files. Two declarations of the same fully-qualified name
// resolve last-write-wins, kept from the original behavior but logged so
// duplicate-class bugs are not silent.
func BuildRegistry(files []*parser.FileFacts) *Registry {
	registry := NewRegistry()
	for _, file := range files {
		for _, class := range file.Classes {
			fqn := QualifiedName(file.PackageName, class.SimpleName)
			record := core.NewClassRecord(fqn, class.SimpleName, file.PackageName, file.Path)
			record.IsInterface = class.IsInterface
			record.IsAbstract = class.IsAbstract
			record.MethodCount = len(class.Methods)
			record.FieldCount = len(class.Fields)
			registry.Add(record)
		}
	}
	return registry
}

// QualifiedName joins package and simple name; a file without a package
// declaration contributes bare simple names.
func QualifiedName(packageName, simpleName string) string {
	if packageName == "" {
		return simpleName
	}
	return packageName + "." + simpleName
}

// Add inserts a record, overwriting any existing record with the same name
// while preserving the original discovery position.
func (r *Registry) Add(record *core.ClassRecord) {
	if existing, ok := r.records[record.ClassName]; ok {
		logger.Warn("duplicate class declaration, keeping the later one",
			"class", record.ClassName,
			"previous_file", existing.FilePath,
			"file", record.FilePath)
	} else {
		r.order = append(r.order, record.ClassName)
	}
	r.records[record.ClassName] = record
}

// Get returns the record for a fully-qualified name
func (r *Registry) Get(fqn string) (*core.ClassRecord, bool) {
	record, ok := r.records[fqn]
	return record, ok
}

// Contains reports whether a fully-qualified name is registered
func (r *Registry) Contains(fqn string) bool {
	_, ok := r.records[fqn]
	return ok
}

// Len returns the number of registered classes
func (r *Registry) Len() int {
	return len(r.records)
}

// InDiscoveryOrder returns all records in the order they were first seen
func (r *Registry) InDiscoveryOrder() []*core.ClassRecord {
	records := make([]*core.ClassRecord, 0, len(r.order))
	for _, fqn := range r.order {
		records = append(records, r.records[fqn])
	}
	return records
}
