package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	ignore "github.com/sabhiram/go-gitignore"
)

const gitignoreCacheSize = 64

// gitignoreCacheEntry holds a compiled matcher with the mod time it was built from
type gitignoreCacheEntry struct {
	matcher *ignore.GitIgnore
	modTime time.Time
}

// Compiled .gitignore files by path, shared by every scan in the process
var gitignoreCache, _ = lru.New[string, *gitignoreCacheEntry](gitignoreCacheSize)

// LoadGitignore compiles the .gitignore at the root of a scan.
// If the file does not exist, it returns a nil matcher and no error.
func LoadGitignore(root string) (*ignore.GitIgnore, error) {
	gitignorePath := filepath.Join(root, ".gitignore")

	fileInfo, err := os.Stat(gitignorePath)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking .gitignore: %w", err)
	}

	if cached, exists := gitignoreCache.Get(gitignorePath); exists && fileInfo.ModTime().Equal(cached.modTime) {
		return cached.matcher, nil
	}

	matcher, err := ignore.CompileIgnoreFile(gitignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile .gitignore: %w", err)
	}

	gitignoreCache.Add(gitignorePath, &gitignoreCacheEntry{
		matcher: matcher,
		modTime: fileInfo.ModTime(),
	})

	return matcher, nil
}

// IsGitIgnored reports whether a root-relative path is matched by the
// compiled patterns. Directories are matched with a trailing slash so that
// "dir/" patterns apply to them.
func IsGitIgnored(matcher *ignore.GitIgnore, relativePath string, isDir bool) bool {
	if matcher == nil || relativePath == "" || relativePath == "." {
		return false
	}
	relativePath = filepath.ToSlash(relativePath)
	if isDir && !strings.HasSuffix(relativePath, "/") {
		return matcher.MatchesPath(relativePath) || matcher.MatchesPath(relativePath+"/")
	}
	return matcher.MatchesPath(relativePath)
}

// ClearGitignoreCache clears all compiled matchers
func ClearGitignoreCache() {
	gitignoreCache.Purge()
}
