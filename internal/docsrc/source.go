package docsrc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"invoice-qc/constants"
)

// Document is one decoded input document. Err is set for hard failures
// (unreadable source); the document still occupies its slot in the batch so
// accounting stays consistent: every input maps to exactly one output record.
type Document struct {
	ID   string
	Path string
	Text string
	Err  string
}

// DirStats aggregates a directory read.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// Source reads document text from the local filesystem. Text files are read
// directly; PDFs go through a pdftotext shell-out behind the Runner interface.
type Source struct {
	logger      *slog.Logger
	runner      Runner
	pdfToText   string
	execTimeout time.Duration
}

func NewSource(logger *slog.Logger, pdfToText string) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if pdfToText == "" {
		pdfToText = "pdftotext"
	}
	return &Source{logger: logger, runner: execRunner{logger: logger}, pdfToText: pdfToText}
}

// WithRunner swaps the command runner; tests use this to stub pdftotext.
func (s *Source) WithRunner(r Runner) *Source {
	s.runner = r
	return s
}

// WithExecTimeout bounds each pdftotext invocation. Zero means no bound.
func (s *Source) WithExecTimeout(d time.Duration) *Source {
	s.execTimeout = d
	return s
}

// ReadPath decodes one document. A failure is reported in the returned
// Document, not as an error: a bad file must not abort sibling documents.
func (s *Source) ReadPath(ctx context.Context, path string) Document {
	doc := Document{
		ID:   docID(path),
		Path: path,
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	switch ext {
	case "pdf":
		runCtx := ctx
		if s.execTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, s.execTimeout)
			defer cancel()
		}
		out, err := s.runner.Run(runCtx, s.pdfToText, "-layout", path, "-")
		if err != nil {
			doc.Err = err.Error()
			return doc
		}
		doc.Text = string(out)
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			doc.Err = fmt.Sprintf("read: %v", err)
			return doc
		}
		if !utf8.Valid(b) {
			doc.Err = "not valid utf-8 text"
			return doc
		}
		doc.Text = string(b)
	}

	if strings.TrimSpace(doc.Text) == "" {
		doc.Err = "empty document"
	}
	return doc
}

// ReadDirectory walks root, filters by the allowed extensions, skips hidden
// files if requested, and reads each matching file. Per-file failures are
// recorded on the Document; the walk itself only fails for an unusable root.
func (s *Source) ReadDirectory(ctx context.Context, root string, skipHidden bool) ([]Document, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var docs []Document
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			docs = append(docs, Document{ID: docID(path), Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return nil
		}
		stats.Matched++

		doc := s.ReadPath(ctx, path)
		docs = append(docs, doc)
		if doc.Err != "" {
			stats.Failed++
			s.logger.Warn("document unreadable", "path", path, "error", doc.Err)
		} else {
			stats.Succeeded++
		}
		return nil
	})

	if err != nil {
		return docs, stats, fmt.Errorf("walk: %w", err)
	}
	s.logger.Info("directory read",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	return docs, stats, nil
}

// docID is the filename stem, the default per-document identifier.
func docID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
