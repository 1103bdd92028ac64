package analyzer

import (
	"context"

	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/engine/parser"
)

// Analyzer defines the contract for the coupling analysis pipeline
type Analyzer interface {
	// AnalyzeProject runs the full three-pass analysis over parsed facts
	AnalyzeProject(ctx context.Context, input *AnalysisInput) (*core.ProjectAnalysis, error)
}

// AnalysisInput contains the input data for analysis
type AnalysisInput struct {
	ProjectName    string // From the manifest, or the directory name
	ProjectPath    string
	ProjectGroupID string // "unknown" when the manifest carries none
	ParseResult    *parser.ParseResult
}

// Config holds analyzer configuration
type Config struct {
	// TopQuantile is the positional share of the ranked class list that is
	// inspected for the highly-coupled count.
	TopQuantile float64
	// IncludeSelfDeps keeps self-edges (a class referencing its own type)
	// in the dependency set.
	IncludeSelfDeps bool
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig() *Config {
	return &Config{
		TopQuantile:     0.2,
		IncludeSelfDeps: true,
	}
}
