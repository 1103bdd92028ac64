package parser

import (
	"context"
)

// Parser defines the interface for extracting structural facts from Java
// source files. It is a heuristic fact extractor, not a compiler: the facts
// it produces are raw type-name strings that the analyzer resolves against
// the project's own class registry.
type Parser interface {
	ParseProject(ctx context.Context, projectPath string, config *Config) (*ParseResult, error)
	ParseFile(ctx context.Context, filePath string) (*FileFacts, error)
}

// ParseResult contains the facts for every eligible file in a project
type ParseResult struct {
	ProjectPath string       // Root path of the project
	Files       []*FileFacts // Per-file facts, sorted by relative path
	FailedFiles []string     // Files skipped because they could not be parsed
	ParseTime   int64        // Time taken to parse in milliseconds
}

// FileFacts holds the declarations found in a single source file
type FileFacts struct {
	Path        string // Relative to the project root
	PackageName string // Empty when the file has no package declaration
	Imports     []string
	Classes     []*ClassFacts
}

// ClassFacts holds the declaration-level facts of one class or interface
type ClassFacts struct {
	SimpleName  string
	IsInterface bool
	IsAbstract  bool
	Supertypes  []string // extends clause, raw type names
	Interfaces  []string // implements clause, raw type names
	Fields      []FieldFacts
	Methods     []*MethodFacts
}

// FieldFacts describes a single field declaration
type FieldFacts struct {
	Name string
	Type string // raw declared type, generics and brackets included
}

// MethodFacts describes a declared method and what its body touches
type MethodFacts struct {
	Name             string
	ReturnType       string
	ParamTypes       []string
	FieldAccesses    map[string]struct{} // field names read in the body
	CalledMethods    map[string]struct{} // distinct invoked method names
	ConstructedTypes []string            // raw type names of new-expressions

	// rawBody is scratch space between extraction passes; cleared once the
	// class's field set is known and bare field reads are resolved.
	rawBody string
}

// Config represents parser configuration
type Config struct {
	SourceExt      string   // Source file extension, defaults to ".java"
	ExcludeDirs    []string // Path segments that mark build output or VCS dirs
	TestDirs       []string // Path segments that mark test trees
	IncludeTests   bool     // Parse files under test directories
	MaxConcurrency int      // Concurrent file parses, defaults to 4
}

// DefaultConfig returns the default parser configuration
func DefaultConfig() *Config {
	return &Config{
		SourceExt:      ".java",
		ExcludeDirs:    []string{".git", ".idea", ".vscode", "target", "build", "out", "node_modules"},
		TestDirs:       []string{"test"},
		IncludeTests:   false,
		MaxConcurrency: 4,
	}
}
