package filehandler

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const userAgent = "stegotool/1.0"

// downloadClient bounds how long a single download may take
var downloadClient = &http.Client{
	Timeout: 60 * time.Second,
}

// ReadLines returns the trimmed lines of a file, skipping blanks and # comments
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// IsURL reports whether s is an http or https URL
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DownloadFromURL fetches rawURL into outputDir, naming the file after the
// last path segment, and returns the local path.
func DownloadFromURL(rawURL, outputDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !IsURL(rawURL) {
		return "", fmt.Errorf("invalid URL %q", rawURL)
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := downloadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}
	if resp.ContentLength > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes (max 100MB)", ErrFileTooLarge, resp.ContentLength)
	}

	// One extra byte tells a full body from an oversized one
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read download: %w", err)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%w: more than 100MB", ErrFileTooLarge)
	}

	outputPath := filepath.Join(outputDir, downloadName(u))
	if err := SaveFile(data, outputPath); err != nil {
		return "", fmt.Errorf("failed to save downloaded file: %w", err)
	}
	return outputPath, nil
}

// downloadName keeps the URL's base name and extension and adds a tag derived
// from the whole URL, so /a/img.png and /b/img.png land in different files.
func downloadName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "downloaded_file"
	}
	ext := path.Ext(name)
	tag := uuid.NewSHA1(uuid.NameSpaceURL, []byte(u.String())).String()[:8]
	return strings.TrimSuffix(name, ext) + "_" + tag + ext
}
