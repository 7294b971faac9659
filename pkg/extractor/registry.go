package extractor

import (
	"fmt"
	"sort"
	"sync"

	"StegoTool/pkg/filehandler"
)

// Registry keeps extractors in registration order and indexes them by format
type Registry struct {
	mu       sync.RWMutex
	all      []DataExtractor
	byFormat map[string][]DataExtractor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[string][]DataExtractor)}
}

// Register adds e under each of its formats; registering it again is a no-op
func (r *Registry) Register(e DataExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.all {
		if existing == e {
			return
		}
	}
	r.all = append(r.all, e)
	for _, format := range e.SupportedFormats() {
		format = normalizeFormat(format)
		r.byFormat[format] = append(r.byFormat[format], e)
	}
}

// GetExtractorsForFormat returns a copy of the extractors for format
func (r *Registry) GetExtractorsForFormat(format string) []DataExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byFormat[normalizeFormat(format)]
	return append([]DataExtractor(nil), list...)
}

// GetExtractorByName finds an extractor by name. An empty format matches any.
func (r *Registry) GetExtractorByName(name, format string) DataExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.all
	if format != "" {
		candidates = r.byFormat[normalizeFormat(format)]
	}
	for _, e := range candidates {
		if e.Name() == name {
			return e
		}
	}
	return nil
}

// GetSupportedFormats returns every format with an extractor, sorted
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

// ForFile picks the first extractor for the format of filePath
func (r *Registry) ForFile(filePath string) (DataExtractor, string, error) {
	format, err := filehandler.DetectFileFormat(filePath)
	if err != nil {
		return nil, "", err
	}

	list := r.GetExtractorsForFormat(format)
	if len(list) == 0 {
		return nil, format, fmt.Errorf("%w: no extractor for %s, LSB payloads only survive lossless formats",
			filehandler.ErrUnsupportedFormat, format)
	}
	return list[0], format, nil
}
