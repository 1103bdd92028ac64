package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/structscan/structscan/engine/core"
)

// Format represents the export format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// ParseFormat validates a format name from configuration or flags
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatTSV:
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", name)
	}
}

// Options contains options for exporting an analysis document
type Options struct {
	Format    Format `json:"format"`
	Pretty    bool   `json:"pretty"`    // For JSON: indented formatting
	Headers   bool   `json:"headers"`   // For CSV/TSV: include a header row
	Delimiter string `json:"delimiter"` // For CSV/TSV: custom delimiter
	// Deterministic omits run-local fields (timestamp, duration) so two
	// runs on the same input serialize byte-identically.
	Deterministic bool `json:"deterministic"`
}

// DefaultOptions returns default export options for a format
func DefaultOptions(format Format) *Options {
	opts := &Options{Format: format, Headers: true}
	switch format {
	case FormatJSON:
		opts.Pretty = true
	case FormatCSV:
		opts.Delimiter = ","
	case FormatTSV:
		opts.Delimiter = "\t"
	}
	return opts
}

// Exporter serializes a ProjectAnalysis to a writer
type Exporter struct {
	options *Options
}

// NewExporter creates a new exporter with the specified options
func NewExporter(options *Options) *Exporter {
	if options == nil {
		options = DefaultOptions(FormatJSON)
	}
	return &Exporter{options: options}
}

// Export writes the analysis document in the configured format
func (e *Exporter) Export(writer io.Writer, analysis *core.ProjectAnalysis) error {
	switch e.options.Format {
	case FormatJSON:
		return e.exportJSON(writer, analysis)
	case FormatCSV, FormatTSV:
		return e.exportCSV(writer, analysis)
	default:
		return core.NewError(
			fmt.Errorf("unsupported export format: %s", e.options.Format),
			core.ErrorCodeExportFailed, nil)
	}
}

// classDocument is the serialized shape of one class. The dependency sets
// are rendered as sorted slices so output order never depends on map
// iteration.
type classDocument struct {
	ClassName         string            `json:"className"`
	SimpleName        string            `json:"simpleName"`
	PackageName       string            `json:"packageName"`
	FilePath          string            `json:"filePath"`
	IsInterface       bool              `json:"isInterface"`
	IsAbstract        bool              `json:"isAbstract"`
	MethodCount       int               `json:"methodCount"`
	FieldCount        int               `json:"fieldCount"`
	DependsOn         []string          `json:"dependsOn"`
	DependedByClasses []string          `json:"dependedByClasses"`
	CouplingOut       int               `json:"couplingOut"`
	CouplingIn        int               `json:"couplingIn"`
	Metrics           core.ClassMetrics `json:"metrics"`
}

type projectDocument struct {
	ProjectName          string          `json:"projectName"`
	ProjectPath          string          `json:"projectPath"`
	ProjectGroupID       string          `json:"projectGroupId"`
	TotalClasses         int             `json:"totalClasses"`
	AverageCoupling      float64         `json:"averageCoupling"`
	MaxCoupling          int             `json:"maxCoupling"`
	HighlyCoupledClasses int             `json:"highlyCoupledClasses"`
	Classes              []classDocument `json:"classes"`
	AnalyzedAt           *time.Time      `json:"analyzedAt,omitempty"`
	DurationMs           *int64          `json:"durationMs,omitempty"`
}

func (e *Exporter) buildDocument(analysis *core.ProjectAnalysis) *projectDocument {
	doc := &projectDocument{
		ProjectName:          analysis.ProjectName,
		ProjectPath:          analysis.ProjectPath,
		ProjectGroupID:       analysis.ProjectGroupID,
		TotalClasses:         analysis.TotalClasses,
		AverageCoupling:      analysis.AverageCoupling,
		MaxCoupling:          analysis.MaxCoupling,
		HighlyCoupledClasses: analysis.HighlyCoupledClasses,
		Classes:              make([]classDocument, 0, len(analysis.Classes)),
	}
	for _, record := range analysis.Classes {
		doc.Classes = append(doc.Classes, classDocument{
			ClassName:         record.ClassName,
			SimpleName:        record.SimpleName,
			PackageName:       record.PackageName,
			FilePath:          record.FilePath,
			IsInterface:       record.IsInterface,
			IsAbstract:        record.IsAbstract,
			MethodCount:       record.MethodCount,
			FieldCount:        record.FieldCount,
			DependsOn:         emptyNotNil(record.DependsOnSorted()),
			DependedByClasses: emptyNotNil(record.DependedBySorted()),
			CouplingOut:       record.CouplingOut,
			CouplingIn:        record.CouplingIn,
			Metrics:           record.Metrics,
		})
	}
	if !e.options.Deterministic {
		analyzedAt := analysis.AnalyzedAt
		durationMs := analysis.DurationMs
		doc.AnalyzedAt = &analyzedAt
		doc.DurationMs = &durationMs
	}
	return doc
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (e *Exporter) exportJSON(writer io.Writer, analysis *core.ProjectAnalysis) error {
	doc := e.buildDocument(analysis)

	var data []byte
	var err error
	if e.options.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return err
	}
	_, err = writer.Write([]byte("\n"))
	return err
}

var csvColumns = []string{
	"className", "simpleName", "packageName", "filePath",
	"isInterface", "isAbstract", "methodCount", "fieldCount",
	"couplingOut", "couplingIn", "totalCoupling",
	"cbo", "dit", "lcom", "rfc",
	"dependsOn", "dependedByClasses",
}

func (e *Exporter) exportCSV(writer io.Writer, analysis *core.ProjectAnalysis) error {
	csvWriter := csv.NewWriter(writer)
	if e.options.Delimiter != "" {
		delimiter, _ := utf8.DecodeRuneInString(e.options.Delimiter)
		csvWriter.Comma = delimiter
	}
	defer csvWriter.Flush()

	if e.options.Headers {
		if err := csvWriter.Write(csvColumns); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, record := range analysis.Classes {
		row := []string{
			record.ClassName,
			record.SimpleName,
			record.PackageName,
			record.FilePath,
			strconv.FormatBool(record.IsInterface),
			strconv.FormatBool(record.IsAbstract),
			strconv.Itoa(record.MethodCount),
			strconv.Itoa(record.FieldCount),
			strconv.Itoa(record.CouplingOut),
			strconv.Itoa(record.CouplingIn),
			strconv.Itoa(record.TotalCoupling()),
			strconv.Itoa(record.Metrics.CBO),
			strconv.Itoa(record.Metrics.DIT),
			strconv.Itoa(record.Metrics.LCOM),
			strconv.Itoa(record.Metrics.RFC),
			strings.Join(record.DependsOnSorted(), ";"),
			strings.Join(record.DependedBySorted(), ";"),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
