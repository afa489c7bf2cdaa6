package code_analyzer

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/meysamhadeli/codigest/code_analyzer/models"
	"github.com/meysamhadeli/codigest/utils"
)

// PathFilter decides which files and directories take part in a scan.
type PathFilter struct {
	config    models.ScanConfiguration
	gitignore *ignore.GitIgnore
}

// NewPathFilter creates a filter for the given configuration. The gitignore
// matcher is optional.
func NewPathFilter(config models.ScanConfiguration, gitignore *ignore.GitIgnore) *PathFilter {
	return &PathFilter{config: config, gitignore: gitignore}
}

// IsIncluded reports whether a file path has an allowed extension and does
// not look like a generated file. Both checks are case-insensitive; generated
// suffixes are compared against the whole file name.
func (f *PathFilter) IsIncluded(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return false
	}
	if _, ok := f.config.AllowedExtensions[ext]; !ok {
		return false
	}
	for _, suffix := range f.config.GeneratedFileSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

// IsExcludedDirectory reports whether a directory name is in the exclusion set.
func (f *PathFilter) IsExcludedDirectory(name string) bool {
	_, ok := f.config.ExcludedDirectories[strings.ToLower(name)]
	return ok
}

// IsIgnored reports whether .gitignore rules remove a root-relative path.
func (f *PathFilter) IsIgnored(relativePath string, isDir bool) bool {
	if !f.config.RespectGitignore {
		return false
	}
	return utils.IsGitIgnored(f.gitignore, relativePath, isDir)
}

// acceptsFile combines the file predicates used by the walker and tree views.
func (f *PathFilter) acceptsFile(relativePath string) bool {
	return f.IsIncluded(relativePath) && !f.IsIgnored(relativePath, false)
}

// acceptsDirectory combines the directory predicates used by the walker and tree views.
func (f *PathFilter) acceptsDirectory(name, relativePath string) bool {
	return !f.IsExcludedDirectory(name) && !f.IsIgnored(relativePath, true)
}
