package code_analyzer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
	"github.com/meysamhadeli/codigest/code_analyzer/reducers"
	"github.com/meysamhadeli/codigest/utils"
)

const toolName = "codigest"

// Renderer assembles the digest: banner, tree block and one section per
// selected file.
type Renderer struct {
	clock    func() time.Time
	version  string
	revision string
	cache    ContentCache
	logger   *pterm.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithClock sets the clock used for the banner timestamp.
func WithClock(clock func() time.Time) RendererOption {
	return func(r *Renderer) { r.clock = clock }
}

// WithVersion sets the tool version printed in the banner.
func WithVersion(version string) RendererOption {
	return func(r *Renderer) { r.version = version }
}

// WithRevision adds the repository revision of the root to the banner.
func WithRevision(revision string) RendererOption {
	return func(r *Renderer) { r.revision = revision }
}

// WithCache enables caching of reduced file content.
func WithCache(cache ContentCache) RendererOption {
	return func(r *Renderer) { r.cache = cache }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *pterm.Logger) RendererOption {
	return func(r *Renderer) { r.logger = logger }
}

func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		clock:   time.Now,
		version: "dev",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the digest for the selected files. Files that fail to read
// get an inline error marker; only cancellation aborts rendering.
func (r *Renderer) Render(ctx context.Context, root string, filter *PathFilter, files []models.FileCandidate, config models.ScanConfiguration) (*models.Digest, error) {
	digest := &models.Digest{
		Header: r.banner(root, len(files), config),
	}

	tree, err := r.renderTree(ctx, root, filter, config)
	if err != nil {
		return nil, err
	}
	digest.Tree = tree

	digest.FileData = make([]models.FileData, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		digest.FileData = append(digest.FileData, r.renderFile(file, config))
	}

	return digest, nil
}

func (r *Renderer) banner(root string, fileCount int, config models.ScanConfiguration) string {
	var b strings.Builder
	b.WriteString("# Project Digest\n")
	fmt.Fprintf(&b, "# Tool: %s %s\n", toolName, r.version)
	fmt.Fprintf(&b, "# Root: %s\n", root)
	if r.revision != "" {
		fmt.Fprintf(&b, "# Revision: %s\n", r.revision)
	}
	fmt.Fprintf(&b, "# Generated: %s\n", r.clock().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "# Files: %d\n", fileCount)
	fmt.Fprintf(&b, "# Configuration: %s\n", config.Summary())
	return b.String()
}

func (r *Renderer) renderTree(ctx context.Context, root string, filter *PathFilter, config models.ScanConfiguration) (string, error) {
	if !config.IncludeTree {
		return filepath.Base(root) + "/\n", nil
	}
	if config.TreeSummaryOnly {
		summary, err := Summarize(ctx, root, filter, config)
		if err != nil {
			return "", err
		}
		return FormatSummary(summary), nil
	}
	return FullTree(ctx, root, filter, config)
}

// renderFile reads at most MaxBytesPerFile bytes, reduces the decoded text and
// applies the per-file line cap.
func (r *Renderer) renderFile(file models.FileCandidate, config models.ScanConfiguration) models.FileData {
	fd := models.FileData{
		RelativePath: file.RelativePath,
		Category:     file.Category(),
	}

	raw, truncated, err := readLimited(file.AbsolutePath, config.MaxBytesPerFile)
	if err != nil {
		r.debug("file read failed", "path", file.RelativePath, "error", err)
		fd.Err = err
		fd.Content = fmt.Sprintf("[error reading file: %v]", err)
		return fd
	}
	fd.Truncated = truncated

	reducer, variant := reducers.ForFile(file.RelativePath, fd.Category, config.StripSourceToSignatures, config.MaxLinesPerFile)
	cacheVariant := fmt.Sprintf("%s|%d", variant, config.MaxBytesPerFile)

	reduced, cached := r.cachedReduction(file.AbsolutePath, cacheVariant)
	if !cached {
		reduced = reducer.Reduce(utils.DecodeText(raw))
		if r.cache != nil {
			if err := r.cache.SetReducedContent(file.AbsolutePath, cacheVariant, reduced); err != nil {
				r.debug("cache write failed", "path", file.RelativePath, "error", err)
			}
		}
	}

	content := reduced
	if _, capped := reducer.(reducers.Passthrough); !capped {
		content = reducers.TruncateLines(reduced, config.MaxLinesPerFile)
	}
	if truncated {
		marker := fmt.Sprintf("... [truncated at %d bytes]", config.MaxBytesPerFile)
		if content = strings.TrimSuffix(content, "\n"); content != "" {
			marker = "\n" + marker
		}
		content += marker
	}
	fd.Content = content

	r.debug("file rendered", "path", file.RelativePath, "reducer", variant, "cached", cached, "truncated", truncated)
	return fd
}

func (r *Renderer) cachedReduction(path, variant string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	return r.cache.GetReducedContent(path, variant)
}

func (r *Renderer) debug(msg string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Debug(msg, r.logger.Args(args...))
}

// readLimited reads up to limit bytes and reports whether the file was longer.
func readLimited(path string, limit int) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, int64(limit)+1))
	if err != nil {
		return nil, false, err
	}
	if len(raw) > limit {
		return raw[:limit], true, nil
	}
	return raw, false, nil
}
