package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Category groups extensions that share a selection cap and a reducer.
type Category string

const (
	SolutionManifest Category = "solution-manifest"
	ProjectManifest  Category = "project-manifest"
	Source           Category = "source"
	StructuredData   Category = "structured-data"
	MarkupTemplate   Category = "markup-template"
	ConfigManifest   Category = "config-manifest"
	ConfigData       Category = "config-data"
)

// CategoryOrder is the fixed concatenation order used by the selector.
var CategoryOrder = []Category{
	SolutionManifest,
	ProjectManifest,
	Source,
	StructuredData,
	MarkupTemplate,
	ConfigManifest,
	ConfigData,
}

var extensionCategories = map[string]Category{
	".sln":     SolutionManifest,
	".csproj":  ProjectManifest,
	".fsproj":  ProjectManifest,
	".vbproj":  ProjectManifest,
	".cs":      Source,
	".json":    StructuredData,
	".razor":   MarkupTemplate,
	".cshtml":  MarkupTemplate,
	".props":   ConfigManifest,
	".targets": ConfigManifest,
	".config":  ConfigData,
	".xml":     ConfigData,
	".yml":     ConfigData,
	".yaml":    ConfigData,
}

// CategoryForExtension maps a lower-cased extension to its category. Unknown
// extensions fall into ConfigData, the lowest priority bucket.
func CategoryForExtension(ext string) Category {
	if c, ok := extensionCategories[strings.ToLower(ext)]; ok {
		return c
	}
	return ConfigData
}

// ScanConfiguration is the immutable input of a single scan.
type ScanConfiguration struct {
	AllowedExtensions       map[string]struct{}
	ExcludedDirectories     map[string]struct{} // lower-cased names
	GeneratedFileSuffixes   []string            // lower-cased suffixes
	CategoryCaps            map[Category]int
	MaxFiles                int
	MaxLinesPerFile         int
	MaxBytesPerFile         int
	MaxTreeDepth            int
	MaxFilesPerDirectory    int
	IncludeTree             bool
	TreeSummaryOnly         bool
	StripSourceToSignatures bool
	OnlyHighSignal          bool
	RespectGitignore        bool
}

// DefaultScanConfiguration returns the configuration used when the caller
// does not override anything.
func DefaultScanConfiguration() ScanConfiguration {
	return NewScanConfiguration(
		[]string{".sln", ".csproj", ".fsproj", ".vbproj", ".cs", ".json", ".razor", ".cshtml", ".props", ".targets", ".config", ".xml", ".yml", ".yaml"},
		[]string{".git", ".vs", ".vscode", ".idea", "bin", "obj", "node_modules", "packages", "testresults", "artifacts", "dist", "out", ".cache"},
		[]string{".designer.cs", ".g.cs", ".g.i.cs", ".generated.cs", ".assemblyinfo.cs", ".assemblyattributes.cs", ".min.json"},
	)
}

// NewScanConfiguration builds a configuration from plain lists, normalizing
// case, and fills every limit with its default value.
func NewScanConfiguration(extensions, excludedDirs, generatedSuffixes []string) ScanConfiguration {
	cfg := ScanConfiguration{
		AllowedExtensions:   make(map[string]struct{}, len(extensions)),
		ExcludedDirectories: make(map[string]struct{}, len(excludedDirs)),
		CategoryCaps: map[Category]int{
			SolutionManifest: 5,
			ProjectManifest:  60,
			Source:           250,
			StructuredData:   30,
			MarkupTemplate:   40,
			ConfigManifest:   15,
			ConfigData:       15,
		},
		MaxFiles:                400,
		MaxLinesPerFile:         300,
		MaxBytesPerFile:         256 * 1024,
		MaxTreeDepth:            10,
		MaxFilesPerDirectory:    40,
		IncludeTree:             true,
		StripSourceToSignatures: true,
		OnlyHighSignal:          true,
		RespectGitignore:        true,
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.AllowedExtensions[ext] = struct{}{}
	}
	for _, dir := range excludedDirs {
		cfg.ExcludedDirectories[strings.ToLower(strings.TrimSpace(dir))] = struct{}{}
	}
	for _, suffix := range generatedSuffixes {
		if suffix = strings.ToLower(strings.TrimSpace(suffix)); suffix != "" {
			cfg.GeneratedFileSuffixes = append(cfg.GeneratedFileSuffixes, suffix)
		}
	}
	return cfg
}

// CapFor returns the cap of a category. Categories without an explicit cap
// are bounded by the global cap only.
func (c ScanConfiguration) CapFor(category Category) int {
	if n, ok := c.CategoryCaps[category]; ok {
		return n
	}
	return c.MaxFiles
}

// Validate reports every invalid value at once.
func (c ScanConfiguration) Validate() error {
	var errs []error

	if len(c.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("allowed_extensions must not be empty"))
	}
	for _, ext := range sortedKeys(c.AllowedExtensions) {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("allowed extension %q must start with a dot", ext))
		}
	}
	if c.MaxFiles < 0 {
		errs = append(errs, fmt.Errorf("max_files must be >= 0, got %d", c.MaxFiles))
	}
	if c.MaxLinesPerFile < 1 {
		errs = append(errs, fmt.Errorf("max_lines_per_file must be >= 1, got %d", c.MaxLinesPerFile))
	}
	if c.MaxBytesPerFile < 1 {
		errs = append(errs, fmt.Errorf("max_bytes_per_file must be >= 1, got %d", c.MaxBytesPerFile))
	}
	if c.MaxTreeDepth < 0 {
		errs = append(errs, fmt.Errorf("max_tree_depth must be >= 0, got %d", c.MaxTreeDepth))
	}
	if c.MaxFilesPerDirectory < 0 {
		errs = append(errs, fmt.Errorf("max_files_per_directory must be >= 0, got %d", c.MaxFilesPerDirectory))
	}
	for _, category := range CategoryOrder {
		if n, ok := c.CategoryCaps[category]; ok && n < 0 {
			errs = append(errs, fmt.Errorf("cap for %s must be >= 0, got %d", category, n))
		}
	}

	return errors.Join(errs...)
}

// Summary renders the active limits as a single banner line.
func (c ScanConfiguration) Summary() string {
	caps := make([]string, 0, len(CategoryOrder))
	for _, category := range CategoryOrder {
		caps = append(caps, fmt.Sprintf("%s=%d", category, c.CapFor(category)))
	}
	return fmt.Sprintf(
		"max_files=%d max_lines_per_file=%d max_bytes_per_file=%d max_tree_depth=%d max_files_per_directory=%d include_tree=%t tree_summary_only=%t strip_source_to_signatures=%t only_high_signal=%t respect_gitignore=%t caps[%s] extensions[%s]",
		c.MaxFiles, c.MaxLinesPerFile, c.MaxBytesPerFile, c.MaxTreeDepth, c.MaxFilesPerDirectory,
		c.IncludeTree, c.TreeSummaryOnly, c.StripSourceToSignatures, c.OnlyHighSignal, c.RespectGitignore,
		strings.Join(caps, " "), strings.Join(sortedKeys(c.AllowedExtensions), " "),
	)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
