package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-colorable"

	"StegoTool/pkg/diff"
	"StegoTool/pkg/embedder"
	"StegoTool/pkg/extractor"
	"StegoTool/pkg/filehandler"
	"StegoTool/pkg/models"
	"StegoTool/pkg/payload"
	"StegoTool/pkg/raster"
	"StegoTool/pkg/report"
	"StegoTool/pkg/stego"
)

var errNotText = errors.New("payload is not valid UTF-8 text")

func (a *app) runEmbed(args []string) error {
	fs := flag.NewFlagSet("embed", flag.ContinueOnError)
	in := fs.String("in", "", "Carrier image")
	out := fs.String("out", "", "Output image (.png, .bmp or .tiff)")
	text := fs.String("text", "", "Text message to hide")
	payloadPath := fs.String("payload", "", "File to hide")
	compress := fs.Bool("compress", a.cfg.Compression.Enabled, "Compress the payload with zstd before embedding")
	level := fs.Int("level", a.cfg.Compression.Level, "zstd compression level")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *in == "" || *out == "" {
		return usageError(fs, "-in and -out are required")
	}
	if isSet(fs, "text") == isSet(fs, "payload") {
		return usageError(fs, "exactly one of -text or -payload is required")
	}

	var data []byte
	source := "text message"
	if isSet(fs, "text") {
		data = []byte(*text)
	} else {
		var err error
		data, err = filehandler.ReadFileBytes(*payloadPath)
		if err != nil {
			return err
		}
		source = *payloadPath
	}

	printInfo("Embedding %d bytes (%s) into %s", len(data), source, *in)
	result, err := a.embedder.Embed(*in, *out, data, embedder.EmbedOptions{
		Packing: payload.Options{Compress: *compress, Level: *level},
		Verbose: a.verbose,
	})
	if err != nil {
		return err
	}

	displayEmbedResult(result)
	return nil
}

func displayEmbedResult(result *models.EmbedResult) {
	printSuccess("Wrote %s (%s)", result.Output, result.Format)
	if result.Compressed {
		fmt.Fprintf(console, "Payload: %d bytes, compressed to %d bytes\n", result.RawSize, result.PayloadSize)
	} else {
		fmt.Fprintf(console, "Payload: %d bytes\n", result.PayloadSize)
	}
	fmt.Fprintf(console, "Frame: %d of %d bytes (%.1f%% of capacity)\n",
		result.FrameSize, result.Capacity, float64(result.FrameSize)/float64(result.Capacity)*100)
	fmt.Fprintf(console, "Changed samples: %d of %d (%d pixels), max delta %d, mean delta %.6f\n",
		result.Diff.ChangedSamples, result.Diff.Samples, result.Diff.ChangedPixels,
		result.Diff.MaxDelta, result.Diff.MeanDelta)
}

func (a *app) runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	in := fs.String("in", "", "Image to extract from")
	outDir := fs.String("outdir", a.cfg.OutputDir, "Directory for extracted payloads")
	asText := fs.Bool("text", false, "Print the payload as text instead of saving it")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return usageError(fs, "-in is required")
	}

	ex, _, err := a.extractors.ForFile(*in)
	if err != nil {
		return err
	}

	options := extractor.ExtractionOptions{
		MaxOutputSize: a.cfg.Extraction.MaxOutputSize,
		Verbose:       a.verbose,
	}
	if !*asText {
		options.OutputDir = *outDir
	}

	result, err := ex.Extract(*in, options)
	if errors.Is(err, stego.ErrInvalidOrAbsentPayload) {
		return fmt.Errorf("no hidden data found in %s: %w", *in, err)
	}
	if err != nil {
		return err
	}

	if *asText {
		if !utf8.Valid(result.ExtractedData) {
			return fmt.Errorf("%w: %d bytes recovered, run without -text to save them", errNotText, result.DataSize)
		}
		printSuccess("Recovered %d bytes of text", result.DataSize)
		fmt.Fprintln(stdout, string(result.ExtractedData))
		return nil
	}

	printSuccess("Recovered %d bytes (%s, %s)", result.DataSize, result.DataType, result.MimeType)
	if result.Compressed {
		printInfo("Payload was zstd compressed (%v bytes in the image)", result.Details["frame_payload_size"])
	}
	for _, path := range result.OutputFiles {
		printSuccess("Saved to %s", path)
	}
	return nil
}

func (a *app) runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	filePath := fs.String("file", "", "Image to analyze")
	dirPath := fs.String("dir", "", "Directory of images to analyze")
	urlPath := fs.String("url", "", "URL of an image to download and analyze")
	urlFile := fs.String("urlfile", "", "File listing URLs to download and analyze")
	outDir := fs.String("outdir", a.cfg.OutputDir, "Directory for downloaded files")
	workers := fs.Int("workers", a.cfg.Workers, "Number of parallel analyses for directory scans")
	asJSON := fs.Bool("json", false, "Write a JSON report to stdout")
	reportPath := fs.String("report", "", "Also save the JSON report to this file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *filePath == "" && *dirPath == "" && *urlPath == "" && *urlFile == "" {
		return usageError(fs, "one of -file, -dir, -url or -urlfile is required")
	}
	if *workers < 1 {
		return usageError(fs, "-workers must be at least 1")
	}

	if *asJSON {
		prev := console
		console = colorable.NewColorableStderr()
		defer func() { console = prev }()
	}

	var paths, urls []string
	if *filePath != "" {
		if filehandler.IsURL(*filePath) {
			urls = append(urls, *filePath)
		} else {
			paths = append(paths, *filePath)
		}
	}
	if *urlPath != "" {
		urls = append(urls, *urlPath)
	}
	if *urlFile != "" {
		lines, err := filehandler.ReadLines(*urlFile)
		if err != nil {
			return fmt.Errorf("failed to read URL file: %w", err)
		}
		for _, line := range lines {
			if !filehandler.IsURL(line) {
				printWarning("Skipping %q: not an http(s) URL", line)
				continue
			}
			urls = append(urls, line)
		}
	}

	var fetchErrs []error
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if seen[u] {
			printWarning("Skipping duplicate URL %s", u)
			continue
		}
		seen[u] = true
		printInfo("Downloading from %s", u)
		path, err := filehandler.DownloadFromURL(u, filepath.Join(*outDir, "downloads"))
		if err != nil {
			printError("Failed to download from %s: %v", u, err)
			fetchErrs = append(fetchErrs, fmt.Errorf("%s: %w", u, err))
			continue
		}
		printSuccess("Downloaded to %s", path)
		paths = append(paths, path)
	}

	if *dirPath != "" {
		printInfo("Analyzing directory: %s", *dirPath)
		files, err := filehandler.FilesInDirectory(*dirPath, filehandler.ImageExtensions())
		if err != nil {
			return err
		}
		sort.Strings(files)
		printInfo("Found %d files to analyze", len(files))
		paths = append(paths, files...)
	}

	if len(paths) == 0 && len(fetchErrs) > 0 {
		return fmt.Errorf("nothing to analyze: %w", fetchErrs[0])
	}

	var rendered interface{}
	if len(paths) == 1 && *dirPath == "" && len(fetchErrs) == 0 {
		printInfo("Analyzing file: %s", paths[0])
		result, err := a.analyzeFile(paths[0])
		if err != nil {
			return err
		}
		if !*asJSON {
			displayAnalysisResult(result, a.verbose)
		}
		rendered = result
	} else {
		summary := a.scan(paths, *workers)
		for _, err := range fetchErrs {
			summary.Add(nil, err)
		}
		summary.Finish()
		if !*asJSON {
			printSummary(summary)
		}
		rendered = summary
	}

	if *asJSON {
		if err := report.Write(stdout, rendered); err != nil {
			return err
		}
	}
	if *reportPath != "" {
		if err := report.Save(*reportPath, rendered); err != nil {
			return err
		}
		printSuccess("Report saved to %s", *reportPath)
	}
	return nil
}

func (a *app) runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	in := fs.String("in", "", "Image to describe")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return usageError(fs, "-in is required")
	}

	result, err := a.analyzeFile(*in)
	if err != nil {
		return err
	}

	img := result.Image
	fmt.Fprintln(console, "\n--- Image Info ---")
	fmt.Fprintf(console, "File: %s\n", img.Filename)
	fmt.Fprintf(console, "Format: %s\n", img.Format)
	fmt.Fprintf(console, "Dimensions: %dx%d\n", img.Width, img.Height)
	fmt.Fprintf(console, "Channels: %d (%s)\n", img.Channels, img.ChannelLayout)
	fmt.Fprintf(console, "File size: %d bytes\n", img.FileSize)
	fmt.Fprintf(console, "Capacity: %d bytes (%.2f KiB)\n", img.Capacity, float64(img.Capacity)/1024)
	fmt.Fprintf(console, "Max payload: %d bytes\n", img.MaxPayload)
	fmt.Fprintf(console, "Mean LSB: %.4f\n", result.MeanLSB)

	switch {
	case result.Anomalous:
		printAlert("%s", result.Note)
	case result.Note != "":
		printInfo("%s", result.Note)
	default:
		printSuccess("LSB distribution looks natural")
	}

	if declared, ok := result.Details["declaredPayloadLength"].(uint32); ok && int64(declared) <= int64(img.MaxPayload) {
		printInfo("First 32 LSBs declare a %d byte payload; try the extract command", declared)
	}
	if !raster.LosslessFormats[img.Format] {
		printWarning("%s is lossy; embedded data would not survive saving in this format", img.Format)
	}
	return nil
}

func (a *app) runDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	first := fs.String("a", "", "Original image")
	second := fs.String("b", "", "Modified image")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *first == "" || *second == "" {
		return usageError(fs, "-a and -b are required")
	}

	bufA, _, err := raster.Load(*first)
	if err != nil {
		return err
	}
	bufB, _, err := raster.Load(*second)
	if err != nil {
		return err
	}

	d, err := diff.Compare(bufA, bufB)
	if err != nil {
		return err
	}

	fmt.Fprintln(console, "\n--- Difference Analysis ---")
	fmt.Fprintf(console, "Samples compared: %d\n", d.Samples)
	fmt.Fprintf(console, "Changed samples: %d\n", d.ChangedSamples)
	fmt.Fprintf(console, "Changed pixels: %d\n", d.ChangedPixels)
	fmt.Fprintf(console, "Max difference: %d\n", d.MaxDelta)
	fmt.Fprintf(console, "Mean difference: %.6f\n", d.MeanDelta)

	switch {
	case d.ChangedSamples == 0:
		printSuccess("Images are identical")
	case d.MaxDelta == 1:
		printWarning("Only least significant bits differ")
	}
	return nil
}

func (a *app) runFormats(args []string) error {
	fs := flag.NewFlagSet("formats", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	fmt.Fprintln(console, "Analyzers:")
	for _, format := range a.analyzers.GetSupportedFormats() {
		var names []string
		for _, an := range a.analyzers.GetAnalyzersForFormat(format) {
			names = append(names, an.Name())
		}
		fmt.Fprintf(console, "- %s: %s\n", format, strings.Join(names, ", "))
	}

	fmt.Fprintln(console, "\nExtractors:")
	for _, format := range a.extractors.GetSupportedFormats() {
		var names []string
		for _, ex := range a.extractors.GetExtractorsForFormat(format) {
			names = append(names, ex.Name())
		}
		fmt.Fprintf(console, "- %s: %s\n", format, strings.Join(names, ", "))
	}

	var outputs []string
	for format := range raster.LosslessFormats {
		if a.embedder.CanEmbed(format) {
			outputs = append(outputs, format)
		}
	}
	sort.Strings(outputs)
	fmt.Fprintf(console, "\nEmbedding output formats: %s\n", strings.Join(outputs, ", "))
	return nil
}

func (a *app) runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	out := fs.String("out", "", "Write the configuration to this YAML file instead of stdout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *out == "" {
		return a.cfg.Encode(stdout)
	}
	if err := a.cfg.Save(*out); err != nil {
		return err
	}
	printSuccess("Configuration written to %s", *out)
	return nil
}
