package analyzer

import (
	"fmt"
	"sort"
	"sync"

	"StegoTool/pkg/filehandler"
	"StegoTool/pkg/models"
)

// Registry maps formats to the analyzers that can handle them
type Registry struct {
	mu       sync.RWMutex
	all      []FileAnalyzer
	byFormat map[string][]FileAnalyzer
}

// NewRegistry creates a new analyzer registry
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[string][]FileAnalyzer)}
}

// Register adds an analyzer under each of its formats. Registering the same
// analyzer twice is a no-op.
func (r *Registry) Register(a FileAnalyzer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.all {
		if existing == a {
			return
		}
	}
	r.all = append(r.all, a)
	for _, format := range a.SupportedFormats() {
		format = normalizeFormat(format)
		r.byFormat[format] = append(r.byFormat[format], a)
	}
}

// GetAnalyzersForFormat returns a copy of the analyzers for format
func (r *Registry) GetAnalyzersForFormat(format string) []FileAnalyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]FileAnalyzer(nil), r.byFormat[normalizeFormat(format)]...)
}

// GetAnalyzerByName finds an analyzer registered for format with the given name
func (r *Registry) GetAnalyzerByName(name, format string) FileAnalyzer {
	for _, a := range r.GetAnalyzersForFormat(format) {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// GetSupportedFormats returns every format with at least one analyzer, sorted
func (r *Registry) GetSupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.byFormat))
	for format := range r.byFormat {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// AnalyzeFile runs every analyzer registered for the file's format and keeps
// the first anomalous result, or the first result when none is anomalous.
// It only fails when no analyzer succeeds. Safe for concurrent use.
func (r *Registry) AnalyzeFile(filePath string, options AnalysisOptions) (*models.AnalysisResult, error) {
	format, err := filehandler.DetectFileFormat(filePath)
	if err != nil {
		return nil, err
	}

	analyzers := r.GetAnalyzersForFormat(format)
	if len(analyzers) == 0 {
		return nil, fmt.Errorf("%w: no analyzers available for %s", filehandler.ErrUnsupportedFormat, format)
	}

	options.Format = format
	var final *models.AnalysisResult
	var firstErr error
	for _, a := range analyzers {
		result, err := a.Analyze(filePath, options)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", a.Name(), err)
			}
			continue
		}
		if final == nil || (result.Anomalous && !final.Anomalous) {
			final = result
		}
	}

	if final == nil {
		return nil, firstErr
	}
	return final, nil
}
