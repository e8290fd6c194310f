// Package prompt loads the LLM prompt templates: defaults embedded in the
// binary, each overridable at runtime by a file of the same name in the
// directory named by RULESMITH_PROMPTS.
//
// The Loader is safe for concurrent use.
package prompt

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Template names the assistant renders.
const (
	TemplateGenerate       = "generate.md"
	TemplateGeneratePart   = "generate_part.md"
	TemplateGenerateRefine = "generate_refine.md"
	TemplateAnalyze        = "analyze.md"
)

// OverrideEnv names the environment variable pointing at a directory of
// replacement template files.
const OverrideEnv = "RULESMITH_PROMPTS"

// defaultTemplates embeds the template files shipped with the binary.
// The templates/ directory must exist at compile time (relative to this
// file's package).
//
//go:embed templates/*.md
var defaultTemplates embed.FS

// Loader reads prompt templates. It caches file contents after the first
// read; call Reload to invalidate the cache.
type Loader struct {
	overrideDir string // runtime override directory (may be empty)
	cache       map[string]string
	mu          sync.RWMutex
}

// NewLoader creates a Loader whose override directory comes from the
// RULESMITH_PROMPTS environment variable (empty = embedded defaults only).
func NewLoader() *Loader {
	return NewLoaderWithDir(os.Getenv(OverrideEnv))
}

// NewLoaderWithDir creates a Loader reading overrides from dir before the
// embedded defaults. An empty dir uses only the embedded defaults.
func NewLoaderWithDir(dir string) *Loader {
	return &Loader{
		overrideDir: dir,
		cache:       make(map[string]string),
	}
}

// Load returns the content of the named template file (e.g. "generate.md").
//
// Priority:
//  1. Disk file at overrideDir/name (runtime override)
//  2. Embedded default at templates/name
//
// A disk read error other than absence logs a warning and falls back to the
// embedded default. A template missing from both layers is an error: these
// are required assets, not optional user files.
func (l *Loader) Load(name string) (string, error) {
	// Fast path: cache hit under read lock
	l.mu.RLock()
	if val, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return val, nil
	}
	l.mu.RUnlock()

	// Load without any lock (pure I/O)
	content, err := l.loadUncached(name)
	if err != nil {
		return "", err
	}

	// Double-check under write lock to avoid duplicate entries when two
	// goroutines race through the read-lock miss at the same time.
	l.mu.Lock()
	if val, ok := l.cache[name]; ok {
		l.mu.Unlock()
		return val, nil
	}
	l.cache[name] = content
	l.mu.Unlock()

	return content, nil
}

// loadUncached does the actual file read without touching the cache.
func (l *Loader) loadUncached(name string) (string, error) {
	// Try disk file first (runtime override)
	if l.overrideDir != "" {
		diskPath := filepath.Join(l.overrideDir, name)
		data, err := os.ReadFile(diskPath)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			log.Printf("[Prompt] Warning: read %q failed: %v; falling back to embedded default", diskPath, err)
		}
		// os.IsNotExist: silently fall through to embed
	}

	data, err := fs.ReadFile(defaultTemplates, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("unknown prompt template %q: %w", name, err)
	}
	return string(data), nil
}

// Render returns the named template with every {{key}} placeholder replaced
// by vars[key]. Placeholders without a matching key are left intact.
func (l *Loader) Render(name string, vars map[string]string) (string, error) {
	content, err := l.Load(name)
	if err != nil {
		return "", err
	}
	for key, value := range vars {
		content = strings.ReplaceAll(content, "{{"+key+"}}", value)
	}
	return content, nil
}

// Reload clears the internal cache so that subsequent Load calls re-read
// override files from disk. Safe for concurrent use.
func (l *Loader) Reload() {
	l.mu.Lock()
	l.cache = make(map[string]string)
	l.mu.Unlock()
}
