package code_analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"

	"github.com/meysamhadeli/codigest/code_analyzer/contracts"
	"github.com/meysamhadeli/codigest/code_analyzer/models"
	"github.com/meysamhadeli/codigest/utils"
)

// ErrCacheDisabled is returned by cache operations when caching is off.
var ErrCacheDisabled = errors.New("cache is disabled")

// CodeAnalyzer runs the digest pipeline: walk, select, render.
type CodeAnalyzer struct {
	Cwd          string
	cacheManager *CacheManager
	version      string
	clock        func() time.Time
	logger       *pterm.Logger
}

// AnalyzerOptions configures NewCodeAnalyzer. Zero values are usable.
type AnalyzerOptions struct {
	UseCache bool
	CacheDir string
	Version  string
	Clock    func() time.Time
	Logger   *pterm.Logger
}

// NewCodeAnalyzer initializes a new CodeAnalyzer.
func NewCodeAnalyzer(cwd string, options AnalyzerOptions) contracts.ICodeAnalyzer {
	analyzer := &CodeAnalyzer{
		Cwd:     cwd,
		version: options.Version,
		clock:   options.Clock,
		logger:  options.Logger,
	}
	if analyzer.version == "" {
		analyzer.version = "dev"
	}
	if analyzer.clock == nil {
		analyzer.clock = time.Now
	}
	if analyzer.logger == nil {
		analyzer.logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}

	if options.UseCache {
		cacheManager, err := NewCacheManager(options.CacheDir)
		if err != nil {
			// Run uncached rather than fail
			analyzer.logger.Warn("failed to initialize cache manager", analyzer.logger.Args("error", err))
		} else {
			analyzer.cacheManager = cacheManager
		}
	}

	return analyzer
}

// GenerateDigest validates the configuration, walks root, selects the files
// within budget and renders the digest.
func (analyzer *CodeAnalyzer) GenerateDigest(ctx context.Context, root string, config models.ScanConfiguration) (*models.Digest, error) {
	root, filter, err := analyzer.prepare(root, config)
	if err != nil {
		return nil, err
	}

	started := analyzer.clock()
	candidates, err := NewWalker(filter).Collect(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("scan of %s aborted: %w", root, err)
	}

	selected := SelectFiles(candidates, config)
	analyzer.logger.Debug("files selected", analyzer.logger.Args("candidates", len(candidates), "selected", len(selected)))

	opts := []RendererOption{
		WithClock(analyzer.clock),
		WithVersion(analyzer.version),
		WithLogger(analyzer.logger),
	}
	if analyzer.cacheManager != nil {
		opts = append(opts, WithCache(analyzer.cacheManager))
	}
	if revision, err := utils.NewGitOperations(root).Revision(); err == nil {
		opts = append(opts, WithRevision(revision))
	} else {
		analyzer.logger.Debug("no repository revision", analyzer.logger.Args("root", root, "error", err))
	}

	digest, err := NewRenderer(opts...).Render(ctx, root, filter, selected, config)
	if err != nil {
		return nil, fmt.Errorf("rendering digest: %w", err)
	}

	analyzer.logger.Debug("digest rendered", analyzer.logger.Args("root", root, "files", len(digest.FileData), "elapsed", analyzer.clock().Sub(started)))
	return digest, nil
}

// RenderTree renders only the directory tree block for root.
func (analyzer *CodeAnalyzer) RenderTree(ctx context.Context, root string, config models.ScanConfiguration) (string, error) {
	root, filter, err := analyzer.prepare(root, config)
	if err != nil {
		return "", err
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

// prepare validates the configuration and root and builds the path filter.
func (analyzer *CodeAnalyzer) prepare(root string, config models.ScanConfiguration) (string, *PathFilter, error) {
	if err := config.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid scan configuration: %w", err)
	}

	if root == "" {
		root = analyzer.Cwd
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(analyzer.Cwd, root)
	}
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return "", nil, fmt.Errorf("root path %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("root path %s is not a directory", root)
	}

	var filter *PathFilter
	if config.RespectGitignore {
		matcher, err := utils.LoadGitignore(root)
		if err != nil {
			analyzer.logger.Warn("ignoring unreadable .gitignore", analyzer.logger.Args("root", root, "error", err))
		}
		filter = NewPathFilter(config, matcher)
	} else {
		filter = NewPathFilter(config, nil)
	}

	return root, filter, nil
}

// GetCacheStats returns cache statistics for the reset-cache command
func (analyzer *CodeAnalyzer) GetCacheStats() (*models.CacheStats, error) {
	if analyzer.cacheManager == nil {
		return nil, ErrCacheDisabled
	}
	return analyzer.cacheManager.GetCacheStats()
}

// ClearCache removes every cached reduction
func (analyzer *CodeAnalyzer) ClearCache() error {
	if analyzer.cacheManager == nil {
		return ErrCacheDisabled
	}
	return analyzer.cacheManager.ClearCache()
}
