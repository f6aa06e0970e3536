package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"

	"github.com/sydlexius/shoreline/internal/config"
	"github.com/sydlexius/shoreline/internal/logging"
	"github.com/sydlexius/shoreline/internal/naming"
	"github.com/sydlexius/shoreline/internal/pathing"
	"github.com/sydlexius/shoreline/internal/rules"
	"github.com/sydlexius/shoreline/internal/watcher"
)

// request is one NDJSON input line: a metadata-provider record plus the
// release context the provider does not carry.
type request struct {
	naming.ProviderRecord
	ID        string `json:"id"`
	Folder    string `json:"folder,omitempty"`
	Year      string `json:"year,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Extension string `json:"extension,omitempty"`
	Parts     int    `json:"parts,omitempty"`
}

// response is the engine output for one request.
type response struct {
	RunID     string                `json:"run_id"`
	Book      naming.NormalizedBook `json:"book"`
	Series    *naming.SeriesInfo    `json:"series,omitempty"`
	Authors   []string              `json:"authors,omitempty"`
	Credits   []naming.RoleCredit   `json:"credits,omitempty"`
	Path      pathing.Result        `json:"path"`
	Ancillary []pathing.Result      `json:"ancillary,omitempty"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("SL_CONFIG_PATH"), "path to config.yaml")
	inputPath := flag.String("input", "-", "NDJSON input file, or - for stdin")
	watch := flag.Bool("watch", false, "reload naming rules when the config file changes")
	flag.Parse()

	cfg, table, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logManager, logger := logging.New(cfg.Logging)
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)

	handle := rules.NewHandle(table)

	// Path settings are published the same way the rule table is: the
	// reload callback runs on the watcher goroutine while the processing
	// loop reads them per line.
	pathCfg := &atomic.Pointer[config.PathConfig]{}
	pathCfg.Store(&cfg.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *watch && *configPath != "" {
		w := watcher.NewService(*configPath, handle, logger)
		w.OnReload(func(c *config.Config) {
			logManager.SetLevel(c.Logging.Level)
			p := c.Path
			pathCfg.Store(&p)
		})
		go func() {
			if err := w.Start(ctx); err != nil {
				logger.Error("config watcher failed", "error", err)
			}
		}()
	}

	in := os.Stdin
	if *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
		in = f
	}

	return process(ctx, in, os.Stdout, pathCfg, handle, logger)
}

// process reads one request per line and writes one response per line. Each
// line resolves against the rule table and path settings live at that
// moment; a concurrent reload publishes new snapshots rather than mutating
// the ones in use.
func process(ctx context.Context, in io.Reader, out io.Writer, pathCfg *atomic.Pointer[config.PathConfig], handle *rules.Handle, logger *slog.Logger) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Error("skipping malformed input line", "error", err)
			continue
		}

		resp := resolve(req, pathCfg.Load(), handle.Current())
		logger.Info("release named",
			"run_id", resp.RunID,
			"title", resp.Book.DisplayTitle,
			"swapped", resp.Book.WasSwapped,
			"truncated", resp.Path.Truncated,
			"dropped", resp.Path.Dropped,
			"length", resp.Path.Length,
		)

		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// resolve runs the full pipeline for one request: author filtering, series
// resolution, title/subtitle normalization, and path building for the
// primary file plus each configured ancillary extension. path and table are
// immutable snapshots taken by the caller.
func resolve(req request, path *config.PathConfig, table *rules.Table) response {
	var authorNames []string
	for _, a := range req.Authors {
		authorNames = append(authorNames, a.Name)
	}
	primaryAuthors, credits := naming.FilterAuthors(authorNames, table)

	book := naming.Normalize(req.ProviderRecord, req.Folder, req.ID, table)
	series := naming.ResolveSeries(&req.ProviderRecord, req.Folder, req.Title, table)

	author := ""
	if len(primaryAuthors) > 0 {
		author = primaryAuthors[0]
	}
	ext := req.Extension
	if ext == "" {
		ext = ".m4b"
	}
	tag := req.Tag
	if tag == "" {
		tag = path.Tag
	}

	comp := pathing.Components{
		Series:    book.SeriesName,
		Volume:    naming.PositionToken(book.SeriesPosition, true),
		Title:     book.DisplayTitle,
		Arc:       book.ArcName,
		Year:      req.Year,
		Author:    author,
		ID:        req.ID,
		Tag:       tag,
		Extension: ext,
		PartCount: req.Parts,
	}

	primary, ancillary := pathing.BuildAll(comp, table, path.MaxLength, path.AncillaryExtensions)

	return response{
		RunID:     uuid.New().String(),
		Book:      book,
		Series:    series,
		Authors:   primaryAuthors,
		Credits:   credits,
		Path:      primary,
		Ancillary: ancillary,
	}
}
