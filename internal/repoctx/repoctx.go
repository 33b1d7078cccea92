// Package repoctx builds a read-only view of the repository surrounding a
// file under inspection.
//
// Every filesystem read in this package fails open: a missing directory,
// unreadable file or absent version-control marker yields empty context
// fields, never an error. Checks that need context they cannot get simply
// produce no finding.
package repoctx

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// vcsMarkers are the directory entries that identify a repository root.
var vcsMarkers = []string{".git", ".hg", ".svn"}

// Context is the repository view for one invocation. It is computed fresh
// per invocation and never cached: files can change between hook runs.
type Context struct {
	// Root is the nearest ancestor directory containing a version-control
	// marker, or Dir when no marker is found.
	Root string
	// Dir is the directory containing the inspected file.
	Dir string
	// Siblings are the basenames of regular files in Dir.
	Siblings []string
	// Gitignore is the content of <Root>/.gitignore, empty if absent.
	Gitignore string
	// HasGitignore distinguishes an absent .gitignore from an empty one.
	HasGitignore bool
}

// Build constructs the context for filePath. The file itself does not need
// to exist (pre-write invocations inspect paths before creation).
func Build(filePath string) *Context {
	dir := filepath.Dir(filePath)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	ctx := &Context{Root: findRoot(dir), Dir: dir}

	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if e.Type().IsRegular() {
				ctx.Siblings = append(ctx.Siblings, e.Name())
			}
		}
		sort.Strings(ctx.Siblings)
	}

	if data, err := os.ReadFile(filepath.Join(ctx.Root, ".gitignore")); err == nil {
		ctx.Gitignore = string(data)
		ctx.HasGitignore = true
	}

	return ctx
}

// findRoot walks upward from dir until a version-control marker is found,
// giving up at the filesystem root.
func findRoot(dir string) string {
	cur := dir
	for {
		for _, marker := range vcsMarkers {
			if _, err := os.Stat(filepath.Join(cur, marker)); err == nil {
				return cur
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// HasSibling reports whether a file with the given basename exists next to
// the inspected file.
func (c *Context) HasSibling(name string) bool {
	for _, s := range c.Siblings {
		if s == name {
			return true
		}
	}
	return false
}

// TerraformFiles returns the contents of the *.tf files in Dir, ordered by
// filename for reproducible findings. Unreadable files are skipped.
func (c *Context) TerraformFiles() []string {
	var contents []string
	for _, name := range c.Siblings {
		if !strings.HasSuffix(name, ".tf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.Dir, name))
		if err != nil {
			continue
		}
		contents = append(contents, string(data))
	}
	return contents
}

// GitignoreCovers reports whether any non-comment .gitignore line contains
// the given fragment. Pattern matching here is deliberately loose: the
// integrity checks only need to know that some pattern addresses state or
// env files at all.
func (c *Context) GitignoreCovers(fragment string) bool {
	for _, line := range strings.Split(c.Gitignore, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}
