package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"schematic/config"
	"schematic/demo"
	"schematic/diagram"
	"schematic/export"
	"schematic/font"
	"schematic/importer"
	"schematic/render"
	"schematic/server"
	"schematic/terminal"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitOverflow = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	example    bool
	format     string
	output     string
	metrics    string
	strict     bool
	validate   bool
	preview    bool
	serve      bool
	block      int
	configPath string
	logLevel   string
	help       bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("schematic", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.BoolVar(&opts.example, "example", false, "Render the built-in example figure")
	fs.StringVar(&opts.format, "format", "", "Export format: svg, png, ascii, json, msgpack (default from config)")
	fs.StringVar(&opts.output, "o", "", "Output file (default: stdout)")
	fs.StringVar(&opts.metrics, "metrics", "", "Text metrics: go or mono (default from config)")
	fs.BoolVar(&opts.strict, "strict", false, "Fail when the layout overflows")
	fs.BoolVar(&opts.validate, "validate", false, "Report layout diagnostics; exit 2 if any")
	fs.BoolVar(&opts.preview, "preview", false, "Preview the page in the terminal")
	fs.BoolVar(&opts.serve, "serve", false, "Run the HTTP render server")
	fs.IntVar(&opts.block, "block", 0, "Fenced block to render from a Markdown file, 1-based (default: first)")
	fs.StringVar(&opts.configPath, "config", "schematic.yaml", "Configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.help, "help", false, "Show help")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: schematic [options] [document.yaml]\n\n")
		fmt.Fprintf(stderr, "Lays out and renders declarative schematic documents.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  schematic figure.yaml                    # SVG to stdout\n")
		fmt.Fprintf(stderr, "  schematic -format png -o fig.png figure.yaml\n")
		fmt.Fprintf(stderr, "  schematic -example -preview              # Browse the example in the terminal\n")
		fmt.Fprintf(stderr, "  schematic -validate figure.yaml          # Exit 2 on layout overflow\n")
		fmt.Fprintf(stderr, "  schematic -block 2 README.md             # Second fenced document\n")
		fmt.Fprintf(stderr, "  schematic -serve                         # POST documents to /api/render\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.help {
		fs.Usage()
	}
	return opts, fs.Args(), nil
}

// configure loads the configuration file and applies flag overrides.
func configure(opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.format != "" {
		cfg.Render.Format = opts.format
	}
	if opts.metrics != "" {
		cfg.Render.Metrics = opts.metrics
	}
	if opts.strict {
		cfg.Render.Strict = true
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if opts.help {
		return exitOK
	}

	cfg, err := configure(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	metrics, err := font.New(cfg.Render.Metrics)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if opts.serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.New(cfg, metrics, logger).Start(ctx); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	doc, name, err := loadDocument(opts, rest)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading document: %v\n", err)
		return exitError
	}
	logger.Debug("document loaded", "name", name, "regions", len(doc.Regions()), "connectors", len(doc.Connectors()))

	exportOpts := export.Options{
		Metrics:     metrics,
		Strict:      cfg.Render.Strict,
		Logger:      logger,
		PNGScale:    cfg.Render.PNGScale,
		CellWidth:   cfg.Render.CellWidth,
		CellHeight:  cfg.Render.CellHeight,
		MaxPageSize: cfg.Render.MaxPageSize,
	}

	if opts.preview {
		if err := preview(doc, name, exportOpts); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	format, err := export.ParseFormat(cfg.Render.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Available formats: %s\n", formatList())
		return exitError
	}
	exporter, err := export.NewExporter(format, exportOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating exporter: %v\n", err)
		return exitError
	}

	data, res, err := exporter.Export(doc)
	if err != nil {
		var overflow *render.OverflowError
		if errors.As(err, &overflow) {
			for _, o := range overflow.Overflows {
				fmt.Fprintf(stderr, "overflow: %s\n", o)
			}
		}
		fmt.Fprintf(stderr, "Error rendering document: %v\n", err)
		return exitError
	}

	if err := writeOutput(data, opts.output, stdout); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return exitError
	}

	if opts.validate {
		for _, o := range res.Overflows {
			fmt.Fprintf(stderr, "overflow: %s\n", o)
		}
		if res.HasOverflow() {
			fmt.Fprintf(stderr, "\n%d layout diagnostic(s)\n", len(res.Overflows))
			return exitOverflow
		}
		fmt.Fprintf(stderr, "layout ok: %d drawing calls\n", res.Calls)
	}
	return exitOK
}

// loadDocument returns the example figure or the named document file.
func loadDocument(opts *options, args []string) (*diagram.Document, string, error) {
	if opts.example {
		doc, err := demo.Figure()
		return doc, "example", err
	}
	if len(args) == 0 {
		return nil, "", errors.New("please provide a document file or -example")
	}
	reg := importer.NewRegistry()
	if opts.block != 0 {
		reg.Register(importer.NewMarkdownImporter(opts.block))
	}
	doc, err := reg.ImportFile(args[0])
	return doc, filepath.Base(args[0]), err
}

// preview renders doc as a character grid and opens it in the terminal.
func preview(doc *diagram.Document, name string, opts export.Options) error {
	exporter, err := export.NewExporter(export.FormatASCII, opts)
	if err != nil {
		return err
	}
	data, _, err := exporter.Export(doc)
	if err != nil {
		return err
	}
	return terminal.Preview(strings.Split(string(data), "\n"), name)
}

func writeOutput(data []byte, path string, stdout io.Writer) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' && isText(data) {
			_, err := io.WriteString(stdout, "\n")
			return err
		}
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}

// isText reports whether data looks like a text format rather than binary.
func isText(data []byte) bool {
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}

func formatList() string {
	formats := export.AvailableFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
