package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/mcncl/jsonview/internal/config"
	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/filter"
	"github.com/mcncl/jsonview/internal/models"
	"github.com/mcncl/jsonview/internal/parser"
	"github.com/mcncl/jsonview/internal/renderer"
	"github.com/mcncl/jsonview/internal/tree"
	"github.com/mcncl/jsonview/internal/watch"
)

// CLI defines the command-line interface
var CLI struct {
	Input         string   `help:"Path to input document. If not specified, reads from stdin." short:"i" type:"path"`
	Output        string   `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Path          string   `help:"Path of the subtree to output ($, $.key, $[0])." short:"p" default:"$"`
	Format        string   `help:"Output format." short:"F" enum:"json,yaml,tree" default:"json"`
	FilterNulls   bool     `help:"Remove null values from the document before output."`
	KeyCase       string   `help:"Rewrite object keys to a casing convention." enum:",camel,snake,kebab" default:""`
	Indent        int      `help:"Indent width for JSON and YAML output." default:"2"`
	Collapse      []string `help:"Tree-view paths to collapse. Repeatable."`
	CollapseDepth int      `help:"Collapse every container at this depth or deeper in tree view." default:"-1"`
	Watch         bool     `help:"Watch the input file and re-render after edits settle." short:"w"`
	Config        string   `help:"Path to config file." type:"path"`
	Debug         bool     `help:"Enable debug logging." short:"d"`
	Version       bool     `help:"Show version information." short:"v"`
	Interactive   bool     `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

// watchPollInterval is how often watch mode checks the input file for
// changes; the debounce window in the config gates the actual re-parse.
const watchPollInterval = 100 * time.Millisecond

func main() {
	// Parse CLI arguments with Kong
	cliParser := kong.Must(&CLI,
		kong.Name("jsonview"),
		kong.Description("A lenient JSON viewer: parse messy JSON, filter it, and render it as a tree, JSON, or YAML"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Parse the command line arguments
	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsonview version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonview --help\n")

		os.Exit(1)
	}
}

// newContext resolves the configuration and logger for this invocation
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Format, CLI.KeyCase, CLI.FilterNulls, CLI.Indent)
	if err != nil {
		return nil, errors.NewInputError("failed to load configuration", err)
	}

	level := slog.LevelWarn
	if CLI.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &Context{Debug: CLI.Debug, Config: cfg, Logger: logger}, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	if CLI.Watch {
		return runWatch(ctx)
	}

	text, err := readInput()
	if err != nil {
		return err
	}

	out, err := pipeline(ctx, text)
	if err != nil {
		return err
	}

	// Empty or whitespace-only input is "no document": nothing to
	// render, but not an error either.
	if out == "" {
		ctx.Logger.Debug("no document to render")
		return nil
	}

	return writeOutput(out)
}

// pipeline runs parse -> filter -> extract -> render and returns the
// final output text. An empty string with a nil error means there was
// no document to render.
func pipeline(ctx *Context, text string) (string, error) {
	cfg := ctx.Config

	p := parser.New()
	p.MaxDepth = cfg.MaxDepth

	start := time.Now()
	doc, err := p.ParseString(text)
	if err != nil {
		return "", err
	}
	ctx.Logger.Debug("parsed document", "duration", time.Since(start), "empty", doc.IsEmpty())

	if doc.IsEmpty() {
		return "", nil
	}

	root := doc.Root
	if cfg.FilterNulls {
		root = filter.RemoveNulls(root)
	}
	if kc := filter.KeyCase(cfg.KeyCase); kc != filter.KeyCaseNone {
		root = filter.RenameKeys(root, kc)
	}

	// Resolve the requested subtree before rendering. Collapse state is
	// irrelevant here: extraction always returns the underlying value.
	path, err := models.ParsePath(CLI.Path)
	if err != nil {
		return "", errors.NewPathError(err.Error(), errors.ErrInvalidPath)
	}
	sub, ok := tree.NewView(root).Extract(path)
	if !ok {
		return "", errors.NewPathError(
			fmt.Sprintf("path %s does not resolve in this document", CLI.Path),
			errors.ErrPathNotFound,
		)
	}

	r := renderer.NewRenderer(cfg.Indent)

	switch cfg.Format {
	case config.FormatTree:
		view := tree.NewView(sub)
		for _, raw := range CLI.Collapse {
			cp, err := models.ParsePath(raw)
			if err != nil {
				return "", errors.NewPathError(err.Error(), errors.ErrInvalidPath)
			}
			view.Toggle(cp)
		}
		if CLI.CollapseDepth >= 0 {
			view.CollapseDeeper(CLI.CollapseDepth)
		}
		return r.RenderTree(view), nil
	case config.FormatYAML:
		b, err := r.MarshalYAML(sub)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		b, err := r.MarshalJSON(sub)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	}
}

// runWatch re-renders the input file whenever it changes, after the
// configured quiescence window with no further edits
func runWatch(ctx *Context) error {
	if CLI.Input == "" {
		return errors.NewInputError("watch mode requires an input file (-i)", errors.ErrNoInput)
	}

	render := func() {
		text, err := readInput()
		if err == nil {
			var out string
			out, err = pipeline(ctx, text)
			if err == nil && out != "" {
				err = writeOutput(out)
			}
		}
		if err != nil {
			// Parse failures are the current error state for this
			// version of the document, not a reason to stop watching.
			fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		}
	}

	render()
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", CLI.Input)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	quiescence := time.Duration(ctx.Config.DebounceMs) * time.Millisecond
	err := watch.WatchFile(sigCtx, CLI.Input, watchPollInterval, quiescence, func() {
		ctx.Logger.Debug("input changed", "file", CLI.Input)
		render()
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

// readInput reads the document text from file or stdin
func readInput() (string, error) {
	if CLI.Input != "" {
		data, err := os.ReadFile(CLI.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.NewInputError(
					fmt.Sprintf("file '%s' not found", CLI.Input),
					errors.ErrFileNotFound,
				)
			}
			return "", errors.NewInputError(
				fmt.Sprintf("failed to read file '%s'", CLI.Input),
				err,
			)
		}
		return string(data), nil
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}

	return string(data), nil
}

// writeOutput writes rendered text to file or stdout
func writeOutput(out string) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, []byte(out), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	_, err := fmt.Print(out)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste a
// document and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "jsonview Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your document below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			builder.WriteString(line)
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
		builder.WriteString(line)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing document...")
	return builder.String(), nil
}
