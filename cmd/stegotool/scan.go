package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"StegoTool/pkg/analyzer"
	"StegoTool/pkg/analyzer/image/lsb"
	"StegoTool/pkg/models"
	"StegoTool/pkg/progress"
)

type scanOutcome struct {
	path   string
	result *models.AnalysisResult
	err    error
}

// analyzeFile prints nothing so workers can share it
func (a *app) analyzeFile(path string) (*models.AnalysisResult, error) {
	return a.analyzers.AnalyzeFile(path, analyzer.AnalysisOptions{
		Verbose:    a.verbose,
		Thresholds: a.cfg.Detection.Thresholds,
	})
}

// scan analyzes paths with a pool of workers and collects a summary
func (a *app) scan(paths []string, workers int) *models.ScanSummary {
	summary := models.NewScanSummary()
	tracker := progress.NewTrackerTo(console, len(paths), consoleIsTerminal())

	jobs := make(chan string)
	outcomes := make(chan scanOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				tracker.Start(filepath.Base(path))
				result, err := a.analyzeFile(path)
				outcomes <- scanOutcome{path: path, result: result, err: err}
			}
		}()
	}

	go func() {
		for _, path := range paths {
			jobs <- path
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		status := "clean"
		err := o.err
		switch {
		case err != nil:
			err = fmt.Errorf("%s: %w", o.path, err)
			status = "failed"
		case o.result.Anomalous:
			status = "unusual LSB distribution"
		}
		summary.Add(o.result, err)
		tracker.Complete(filepath.Base(o.path), status)
	}
	tracker.Finish()

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Filename < summary.Results[j].Filename
	})
	sort.Strings(summary.Errors)
	return summary
}

func consoleIsTerminal() bool {
	f, ok := console.(*os.File)
	return ok && progress.IsTerminal(f)
}

func displayAnalysisResult(result *models.AnalysisResult, verbose bool) {
	fmt.Fprintln(console, "\n--- Analysis Results ---")

	// Basic info
	fmt.Fprintf(console, "File: %s\n", result.Filename)
	fmt.Fprintf(console, "Format: %s\n", result.FileType)
	fmt.Fprintf(console, "Image: %dx%d %s, capacity %d bytes\n",
		result.Image.Width, result.Image.Height, result.Image.ChannelLayout, result.Image.Capacity)

	if result.Anomalous {
		printAlert("Unusual LSB distribution (mean LSB %.4f)", result.MeanLSB)
	} else {
		printSuccess("No LSB anomaly detected (mean LSB %.4f)", result.MeanLSB)
		if result.Note != "" {
			fmt.Fprintf(console, "Note: %s\n", result.Note)
		}
	}

	if len(result.Findings) > 0 {
		fmt.Fprintln(console, "\nFindings:")
		for i, finding := range result.Findings {
			fmt.Fprintf(console, "%d. %s (Confidence: %.2f)\n", i+1, finding.Description, finding.Confidence)
			if verbose && finding.Details != "" {
				fmt.Fprintf(console, "   Details: %s\n", finding.Details)
			}
		}
	}

	if dist, ok := result.Details["distribution"].(*lsb.Distribution); ok && verbose {
		fmt.Fprintln(console, "\nLSB distribution:")
		names := make([]string, 0, len(dist.Channels))
		for name := range dist.Channels {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printChannelStats(name, dist.Channels[name])
		}
		printChannelStats("all", dist.Overall)
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(console, "\nRecommendations:")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(console, "%d. %s\n", i+1, rec)
		}
	}

	fmt.Fprintf(console, "Analysis took %v\n", result.AnalysisDuration.Round(time.Microsecond))
	fmt.Fprintln(console, "-------------------------")
}

func printChannelStats(name string, stats lsb.ChannelStats) {
	fmt.Fprintf(console, "  %-5s zeros %6.2f%%  ones %6.2f%%  entropy %.4f\n",
		name, stats.ZeroPercent*100, stats.OnePercent*100, stats.Entropy)
}

func printSummary(summary *models.ScanSummary) {
	fmt.Fprintln(console, "\n=== Analysis Summary ===")
	fmt.Fprintf(console, "Total files analyzed: %d in %v\n", summary.Total, summary.Duration.Round(time.Millisecond))
	printSuccess("Clean files: %d", summary.Clean)

	if summary.Anomalous > 0 {
		printAlert("Unusual LSB distribution: %d", summary.Anomalous)
		for _, result := range summary.Results {
			if result.Anomalous {
				fmt.Fprintf(console, "- %s (mean LSB %.4f)\n", result.Filename, result.MeanLSB)
			}
		}
	}

	if summary.Failed > 0 {
		printWarning("Failed: %d", summary.Failed)
		for _, msg := range summary.Errors {
			fmt.Fprintf(console, "- %s\n", msg)
		}
	}
}
