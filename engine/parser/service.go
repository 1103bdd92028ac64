package parser

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/structscan/structscan/pkg/logger"
)

// Service implements the Parser interface
type Service struct {
	config *Config
}

// NewService creates a new parser service
func NewService(config *Config) Parser {
	if config == nil {
		config = DefaultConfig()
	}
	if config.SourceExt == "" {
		config.SourceExt = ".java"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	return &Service{config: config}
}

// ParseFile parses a single source file into declaration facts
func (s *Service) ParseFile(ctx context.Context, filePath string) (*FileFacts, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	facts, err := extractFileFacts(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	facts.Path = filePath
	return facts, nil
}

// ParseProject walks the project tree and parses every eligible file.
// Files are parsed concurrently; a file that fails to parse is recorded and
// skipped, never retried. The returned file list is sorted by relative path
// so discovery order is reproducible across runs.
func (s *Service) ParseProject(ctx context.Context, projectPath string, config *Config) (*ParseResult, error) {
	startTime := time.Now()

	if config != nil {
		s.config = config
	}

	paths, err := s.collectSourcePaths(projectPath)
	if err != nil {
		return nil, err
	}

	type parseOutcome struct {
		facts *FileFacts
		path  string
		err   error
	}

	sem := make(chan struct{}, s.config.MaxConcurrency)
	outcomes := make(chan parseOutcome, len(paths))
	var wg sync.WaitGroup

	for _, path := range paths {
		wg.Add(1)
		go func(filePath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				outcomes <- parseOutcome{path: filePath, err: ctx.Err()}
				return
			default:
			}

			facts, err := s.ParseFile(ctx, filePath)
			outcomes <- parseOutcome{facts: facts, path: filePath, err: err}
		}(path)
	}

	wg.Wait()
	close(outcomes)

	result := &ParseResult{ProjectPath: projectPath}
	for outcome := range outcomes {
		rel := relativeTo(projectPath, outcome.path)
		if outcome.err != nil {
			logger.Warn("failed to parse file", "file", rel, "error", outcome.err)
			result.FailedFiles = append(result.FailedFiles, rel)
			continue
		}
		outcome.facts.Path = rel
		result.Files = append(result.Files, outcome.facts)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Strings(result.FailedFiles)

	result.ParseTime = time.Since(startTime).Milliseconds()
	return result, nil
}

// collectSourcePaths walks the tree and applies the file-selection predicate
func (s *Service) collectSourcePaths(projectPath string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(projectPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirName := filepath.Base(path)
			if path != projectPath && s.isExcludedSegment(dirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.Eligible(relativeTo(projectPath, path)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	return paths, nil
}

// Eligible reports whether a relative path selects for analysis: it must
// carry the source extension and no path segment may name a test tree or a
// build-output directory. Matching is on whole segments, so a package like
// "contest" is not mistaken for a test tree.
func (s *Service) Eligible(relPath string) bool {
	if !strings.HasSuffix(relPath, s.config.SourceExt) {
		return false
	}
	segments := strings.Split(filepath.ToSlash(relPath), "/")
	for _, seg := range segments[:len(segments)-1] {
		if s.isExcludedSegment(seg) {
			return false
		}
	}
	return true
}

func (s *Service) isExcludedSegment(seg string) bool {
	for _, dir := range s.config.ExcludeDirs {
		if seg == dir {
			return true
		}
	}
	if !s.config.IncludeTests {
		for _, dir := range s.config.TestDirs {
			if seg == dir {
				return true
			}
		}
	}
	return false
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
