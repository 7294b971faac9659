package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"StegoTool/pkg/analyzer"
	rasteranalyzer "StegoTool/pkg/analyzer/image/raster"
	"StegoTool/pkg/config"
	embedlsb "StegoTool/pkg/embedder/image/lsb"
	"StegoTool/pkg/extractor"
	extractlsb "StegoTool/pkg/extractor/image/lsb"
)

const version = "1.0.0"

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()

	// console receives human readable output, stdout receives reports and
	// extracted text
	console io.Writer = colorable.NewColorableStdout()
	stdout  io.Writer = os.Stdout
)

// errUsage signals bad command line input; the message has already been printed
var errUsage = errors.New("usage error")

func printInfo(format string, args ...interface{}) {
	fmt.Fprintf(console, "%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Fprintf(console, "%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Fprintf(console, "%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(console, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func printAlert(format string, args ...interface{}) {
	fmt.Fprintf(console, "%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

type command struct {
	name    string
	summary string
	run     func(a *app, args []string) error
}

func commandTable() []command {
	return []command{
		{"embed", "Hide a text message or file in a lossless image", (*app).runEmbed},
		{"extract", "Recover a hidden payload", (*app).runExtract},
		{"detect", "Check images for an unusual LSB distribution", (*app).runDetect},
		{"info", "Show dimensions, channels and capacity of an image", (*app).runInfo},
		{"diff", "Compare the pixels of two images", (*app).runDiff},
		{"formats", "List supported formats", (*app).runFormats},
		{"config", "Print the effective configuration or write it to a file", (*app).runConfig},
	}
}

// app holds what every command needs
type app struct {
	cfg        *config.Config
	verbose    bool
	analyzers  *analyzer.Registry
	extractors *extractor.Registry
	embedder   *embedlsb.LSBEmbedder
}

func newApp(cfg *config.Config, verbose bool) *app {
	a := &app{
		cfg:        cfg,
		verbose:    verbose,
		analyzers:  analyzer.NewRegistry(),
		extractors: extractor.NewRegistry(),
		embedder:   embedlsb.NewLSBEmbedder(),
	}
	registerAnalyzers(a.analyzers)
	registerExtractors(a.extractors)
	return a
}

func registerAnalyzers(registry *analyzer.Registry) {
	registry.Register(rasteranalyzer.NewRasterAnalyzer())
}

func registerExtractors(registry *extractor.Registry) {
	registry.Register(extractlsb.NewLSBExtractor())
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code
func run(args []string) int {
	global := flag.NewFlagSet("stegotool", flag.ContinueOnError)
	global.SetOutput(console)
	configPath := global.String("config", "", "Path to a YAML configuration file")
	verbose := global.Bool("verbose", false, "Enable verbose output")
	noColor := global.Bool("nocolor", false, "Disable coloured output")
	global.Usage = func() { usage(global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if global.NArg() == 0 {
		usage(global)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		printError("%v", err)
		return 1
	}
	if *noColor || !cfg.Color {
		color.NoColor = true
	}

	if *verbose {
		fmt.Fprintf(console, "StegoTool v%s\n", version)
		fmt.Fprintln(console, "---------------------------------")
	}

	name := global.Arg(0)
	for _, cmd := range commandTable() {
		if cmd.name != name {
			continue
		}
		if err := cmd.run(newApp(cfg, *verbose), global.Args()[1:]); err != nil {
			if errors.Is(err, errUsage) {
				return 2
			}
			printError("%v", err)
			return 1
		}
		return 0
	}

	printError("Unknown command %q", name)
	usage(global)
	return 2
}

func usage(global *flag.FlagSet) {
	fmt.Fprintf(console, "StegoTool v%s\n", version)
	fmt.Fprintln(console, "Hide, recover and detect LSB payloads in lossless images")
	fmt.Fprintln(console, "\nUsage:")
	fmt.Fprintln(console, "  stegotool [global flags] <command> [flags]")
	fmt.Fprintln(console, "\nCommands:")
	for _, cmd := range commandTable() {
		fmt.Fprintf(console, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(console, "\nGlobal flags:")
	global.PrintDefaults()
}

// parseFlags parses a command's flags and rejects positional arguments
func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(console)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		return usageError(fs, "unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return nil
}

func usageError(fs *flag.FlagSet, format string, args ...interface{}) error {
	printError(format, args...)
	fmt.Fprintf(console, "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
	return errUsage
}

// isSet reports whether the flag was given explicitly
func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
