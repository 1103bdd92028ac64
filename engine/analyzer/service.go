package analyzer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/structscan/structscan/engine/core"
	"github.com/structscan/structscan/pkg/logger"
)

// service implements the Analyzer interface
type service struct {
	config *Config
}

// NewAnalyzer creates a new analyzer service
func NewAnalyzer(config *Config) Analyzer {
	if config == nil {
		config = DefaultConfig()
	}
	if config.TopQuantile <= 0 || config.TopQuantile > 1 {
		config.TopQuantile = 0.2
	}
	return &service{config: config}
}

// AnalyzeProject runs the three analysis passes over the parsed facts.
// The pass boundaries are hard barriers: the registry is complete before
// any dependency is resolved, and every dependency set is final before any
// incoming edge is derived. A class referenced before its own file was
// parsed resolves correctly only because of this staging.
func (s *service) AnalyzeProject(_ context.Context, input *AnalysisInput) (*core.ProjectAnalysis, error) {
	startTime := time.Now()

	files := input.ParseResult.Files
	if len(files) == 0 {
		return nil, core.NewError(
			fmt.Errorf("no analyzable files under %s", input.ProjectPath),
			core.ErrorCodeNoSourceFiles,
			map[string]any{"path": input.ProjectPath},
		)
	}

	logger.Info("building class registry", "files", len(files))
	registry := BuildRegistry(files)
	logger.Info("registry complete", "classes", registry.Len())

	logger.Info("collecting dependencies")
	edges := 0
	for _, file := range files {
		for _, class := range file.Classes {
			fqn := QualifiedName(file.PackageName, class.SimpleName)
			record, ok := registry.Get(fqn)
			if !ok {
				continue
			}
			// A duplicated name resolves to its later declaration; the stale
			// site must not contribute edges to the count.
			if record.FilePath != file.Path {
				continue
			}
			record.DependsOn = collectDependencies(file, class, registry, s.config.IncludeSelfDeps)
			record.CouplingOut = len(record.DependsOn)
			edges += record.CouplingOut
			calculateMetrics(record, class)
		}
	}
	logger.Info("dependency collection complete", "edges", edges)

	s.aggregateCoupling(registry)

	analysis := s.buildAnalysis(input, registry)
	analysis.AnalyzedAt = time.Now().UTC()
	analysis.DurationMs = time.Since(startTime).Milliseconds()

	logger.Info("analysis complete",
		"classes", analysis.TotalClasses,
		"highly_coupled", analysis.HighlyCoupledClasses,
		"duration", time.Since(startTime).Round(time.Millisecond))
	return analysis, nil
}

// aggregateCoupling is pass 3: invert the outgoing edge sets into incoming
// ones. DependsOn is already a set, so each (C, D) pair contributes exactly
// one incoming edge; the sums of couplingOut and couplingIn across the
// project always match.
func (s *service) aggregateCoupling(registry *Registry) {
	for _, record := range registry.InDiscoveryOrder() {
		for dep := range record.DependsOn {
			target, ok := registry.Get(dep)
			if !ok {
				continue
			}
			target.DependedBy[record.ClassName] = struct{}{}
			target.CouplingIn = len(target.DependedBy)
		}
	}
}

// buildAnalysis ranks the classes and computes the project summary
func (s *service) buildAnalysis(input *AnalysisInput, registry *Registry) *core.ProjectAnalysis {
	classes := registry.InDiscoveryOrder()

	// Stable sort: ties keep discovery order.
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].TotalCoupling() > classes[j].TotalCoupling()
	})

	totalCoupling := 0
	maxCoupling := 0
	for _, record := range classes {
		total := record.TotalCoupling()
		totalCoupling += total
		if total > maxCoupling {
			maxCoupling = total
		}
	}

	average := 0.0
	if len(classes) > 0 {
		average = float64(totalCoupling) / float64(len(classes))
	}

	groupID := input.ProjectGroupID
	if groupID == "" {
		groupID = "unknown"
	}

	return &core.ProjectAnalysis{
		ProjectName:          input.ProjectName,
		ProjectPath:          input.ProjectPath,
		ProjectGroupID:       groupID,
		TotalClasses:         len(classes),
		AverageCoupling:      average,
		MaxCoupling:          maxCoupling,
		HighlyCoupledClasses: s.countHighlyCoupled(classes),
		Classes:              classes,
	}
}

// countHighlyCoupled counts the classes with non-zero total coupling inside
// the first ceil(n * quantile) positions of the ranked list. The cutoff is
// positional: a class just past the cutoff with the same coupling as one
// inside it is excluded.
func (s *service) countHighlyCoupled(ranked []*core.ClassRecord) int {
	cutoff := int(math.Ceil(float64(len(ranked)) * s.config.TopQuantile))
	count := 0
	for i := 0; i < cutoff && i < len(ranked); i++ {
		if ranked[i].TotalCoupling() > 0 {
			count++
		}
	}
	return count
}
