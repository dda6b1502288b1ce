// Package batch runs the full parse-and-preprocess pipeline over many
// drawing files: glob discovery, sequential per-file processing with
// progress callbacks, and a filesystem watcher for continuous mode.
//
// Concurrency note: each file gets its own orchestrator run; nothing mutable
// is shared between files, so callers may shard the discovered list across
// goroutines if they need to.
package batch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery handles drawing-file discovery with glob patterns and ignore
// rules.
type Discovery struct {
	rootDir         string
	drawingPatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// NewDiscovery creates a discovery instance for rootDir.
func NewDiscovery(rootDir string, drawingPatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	for _, pattern := range drawingPatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.drawingPatterns = append(d.drawingPatterns, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}
	return d, nil
}

// Discover walks the directory tree and returns matching drawing files.
func (d *Discovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return nil
		}
		if d.matchesAnyPattern(relPath, d.drawingPatterns) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Matches reports whether one relative path is a drawing file per the
// configured patterns. Used by the watcher for single-file events.
func (d *Discovery) Matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	if d.shouldIgnore(relPath) {
		return false
	}
	return d.matchesAnyPattern(relPath, d.drawingPatterns)
}

func (d *Discovery) shouldIgnore(relPath string) bool {
	// The results directory is never a drawing source.
	if strings.HasPrefix(relPath, ".girder/") || relPath == ".girder" {
		return true
	}
	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}
	// Also check if this is a directory that would match with /** suffix.
	return d.matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Root-level files have no slash; let "**/*.dxf" match "plan.dxf" the
	// way users expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}
	return false
}
