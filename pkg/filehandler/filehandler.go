// Package filehandler reads carrier and payload files, sniffs image formats
// and writes extracted payloads.
package filehandler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxFileSize is the largest payload or carrier file read into memory
const MaxFileSize = 100 * 1024 * 1024 // 100MB

// sniffLen matches what http.DetectContentType looks at
const sniffLen = 512

var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// SupportedImageFormats maps lower-case file extensions to format names
var SupportedImageFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

var tiffMagic = [][]byte{
	[]byte("II*\x00"), // little endian
	[]byte("MM\x00*"), // big endian
}

// contentTypes maps sniffed MIME types to format names
var contentTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
}

// DetectFileFormat names the image format of a file, trusting a known
// extension and falling back to the file's first bytes.
func DetectFileFormat(filePath string) (string, error) {
	if format, ok := SupportedImageFormats[strings.ToLower(filepath.Ext(filePath))]; ok {
		return format, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	head, err := io.ReadAll(io.LimitReader(file, sniffLen))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return DetectFormatFromBytes(head)
}

// DetectFormatFromBytes sniffs the image format from the first bytes of a file
func DetectFormatFromBytes(head []byte) (string, error) {
	for _, magic := range tiffMagic {
		if bytes.HasPrefix(head, magic) {
			return "tiff", nil
		}
	}

	contentType := http.DetectContentType(head)
	if format, ok := contentTypes[strings.SplitN(contentType, ";", 2)[0]]; ok {
		return format, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
}

// ReadFileBytes reads a whole file, refusing anything above MaxFileSize
func ReadFileBytes(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is over 100MB", ErrFileTooLarge, filePath)
	}
	return data, nil
}

// SaveFile writes data next to filePath first and renames it into place, so
// readers never see a partly written payload.
func SaveFile(data []byte, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return os.Rename(tmp.Name(), filePath)
}

// FilesInDirectory walks dirPath and returns the regular files whose
// extension is in extensions, or every file when extensions is empty.
// Hidden subdirectories are skipped.
func FilesInDirectory(dirPath string, extensions []string) ([]string, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	err = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dirPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(wanted) == 0 || wanted[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// ImageExtensions returns the extensions of SupportedImageFormats, sorted
func ImageExtensions() []string {
	exts := make([]string, 0, len(SupportedImageFormats))
	for ext := range SupportedImageFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
