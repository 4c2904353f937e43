package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/goliatone/go-attachedimages/pkg/config"
	"github.com/goliatone/go-attachedimages/pkg/formset"
	"github.com/goliatone/go-attachedimages/pkg/orchestrator"
	"github.com/goliatone/go-attachedimages/pkg/prompt"
	"github.com/goliatone/go-attachedimages/pkg/render"
	"github.com/goliatone/go-attachedimages/pkg/upload"
)

type options struct {
	form        string
	config      string
	user        string
	format      string
	output      string
	lang        string
	interactive bool
	debug       bool
	files       []string
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the command and returns the process exit code. Deferred
// cleanup runs before the caller exits.
func execute(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := newLogger(opts.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var driver prompt.Driver
	if opts.interactive {
		driver = prompt.NewSurveyDriver(os.Stderr)
	}

	if err := runTo(ctx, opts, driver, logger); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return 130
		}
		logger.Error("attached images", zap.Error(err))
		return 1
	}
	return 0
}

// runTo runs the command writing to stdout or to opts.output. A failed run
// leaves no partial output file behind.
func runTo(ctx context.Context, opts options, driver prompt.Driver, logger *zap.Logger) (err error) {
	if opts.output == "" {
		return run(ctx, opts, driver, os.Stdout, logger)
	}

	file, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output %s: %w", opts.output, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(opts.output)
		}
	}()
	return run(ctx, opts, driver, file, logger)
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("attachedimages-cli", flag.ContinueOnError)
	fs.StringVar(&opts.form, "form", "", "existing form fields (YAML, JSON or urlencoded)")
	fs.StringVar(&opts.config, "config", "", "inline configuration file (YAML or JSON)")
	fs.StringVar(&opts.user, "user", "", "id of the user the images are attributed to")
	fs.StringVar(&opts.format, "format", "urlencoded", "output format: urlencoded, json or html")
	fs.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	fs.StringVar(&opts.lang, "lang", "", "uploader language, overrides the configuration")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for the user, files and resize options")
	fs.BoolVar(&opts.debug, "debug", false, "development logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch opts.format {
	case "urlencoded", "json", "html":
	default:
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	opts.files = fs.Args()
	return opts, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func run(ctx context.Context, opts options, driver prompt.Driver, out io.Writer, logger *zap.Logger) error {
	cfg := config.Default()
	if opts.config != "" {
		loaded, err := config.Load(opts.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.lang != "" {
		cfg.Lang = opts.lang
		if err := cfg.WithDefaults().Validate(); err != nil {
			return err
		}
	}

	snapshot, err := loadSnapshot(opts.form)
	if err != nil {
		return err
	}

	userID := opts.user
	files := opts.files
	resize := upload.Resize{Enabled: cfg.MaxWidth > 0, Width: cfg.MaxWidth}
	if driver != nil {
		answers, err := prompt.Collect(ctx, driver, prompt.Defaults{
			UserID: userID,
			Files:  files,
			Resize: resize,
		})
		if err != nil {
			return err
		}
		userID, files, resize = answers.UserID, answers.Files, answers.Resize
	}

	batch := upload.NewBatch()
	for _, path := range files {
		entry, err := upload.FromFile(path)
		if err != nil {
			return err
		}
		batch.Add(entry)
	}

	prefix := cfg.Prefix()
	source := formset.SnapshotSource(prefix, snapshot, userID, batch.Len())

	logger.Debug("reconciling form",
		zap.String("prefix", prefix.String()),
		zap.Int("existing_fields", snapshot.Len()),
		zap.Int("files", batch.Len()),
	)

	orch := orchestrator.New(
		orchestrator.WithConfig(cfg),
		orchestrator.WithLogger(logger),
	)
	req := orchestrator.Request{Source: source, Batch: batch, Resize: &resize}

	if opts.format == "html" {
		html, err := orch.Generate(ctx, req)
		if err != nil {
			return err
		}
		_, err = out.Write(html)
		return err
	}

	fields, err := orch.Submit(ctx, req)
	if err != nil {
		return err
	}
	return writeFields(out, opts.format, fields)
}

func writeFields(out io.Writer, format string, fields *formset.FieldSet) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(render.HiddenFields(fields))
	}
	_, err := fmt.Fprintln(out, render.Encode(fields))
	return err
}
