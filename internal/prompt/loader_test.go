package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ── Load() tests ──────────────────────────────────────────────────────────────

func TestLoad_EmbedDefault(t *testing.T) {
	// No override directory set: must return the embedded default.
	l := NewLoaderWithDir("")
	got, err := l.Load(TemplateGenerate)
	if err != nil {
		t.Fatalf("Load(%s): %v", TemplateGenerate, err)
	}
	if !strings.Contains(got, "Drools rules expert") {
		t.Errorf("Load(%s) content missing expert preamble: %q", TemplateGenerate, got)
	}
	if !strings.Contains(got, "{{context}}") || !strings.Contains(got, "{{requirements}}") {
		t.Errorf("Load(%s) missing placeholders", TemplateGenerate)
	}
}

func TestLoad_AllTemplatesEmbedded(t *testing.T) {
	l := NewLoaderWithDir("")
	for _, name := range []string{TemplateGenerate, TemplateGeneratePart, TemplateGenerateRefine, TemplateAnalyze} {
		if _, err := l.Load(name); err != nil {
			t.Errorf("Load(%s): %v", name, err)
		}
	}
}

func TestLoad_DiskOverridesEmbed(t *testing.T) {
	dir := t.TempDir()
	customContent := "custom generate override {{context}}"
	if err := os.WriteFile(filepath.Join(dir, TemplateGenerate), []byte(customContent), 0600); err != nil {
		t.Fatalf("write override: %v", err)
	}

	l := NewLoaderWithDir(dir)
	got, err := l.Load(TemplateGenerate)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != customContent {
		t.Errorf("Load() = %q, want %q", got, customContent)
	}
}

func TestLoad_MissingBoth(t *testing.T) {
	l := NewLoaderWithDir(t.TempDir())
	if _, err := l.Load("nonexistent_file.md"); err == nil {
		t.Error("Load(nonexistent) should error; templates are required assets")
	}
}

func TestLoad_IOError_FallsBackToEmbed(t *testing.T) {
	// A directory with the same name as the target file causes os.ReadFile to
	// fail with "is a directory"; the loader should fall back to the embed.
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, TemplateGenerate), 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	l := NewLoaderWithDir(dir)
	got, err := l.Load(TemplateGenerate)
	if err != nil {
		t.Fatalf("Load with IO error should fall back to embedded default, got error: %v", err)
	}
	if !strings.Contains(got, "Drools rules expert") {
		t.Errorf("fallback content wrong: %q", got)
	}
}

func TestLoad_Cached(t *testing.T) {
	// Load an override, then change the file. Second load must still return
	// the cached first content; Reload() must pick up the new content.
	dir := t.TempDir()
	path := filepath.Join(dir, TemplateAnalyze)
	if err := os.WriteFile(path, []byte("first"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := NewLoaderWithDir(dir)
	first, err := l.Load(TemplateAnalyze)
	if err != nil || first != "first" {
		t.Fatalf("first load = %q, %v; want %q", first, err, "first")
	}

	if err := os.WriteFile(path, []byte("second"), 0600); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	second, _ := l.Load(TemplateAnalyze)
	if second != "first" {
		t.Errorf("second load = %q, want cached %q", second, "first")
	}

	l.Reload()
	third, _ := l.Load(TemplateAnalyze)
	if third != "second" {
		t.Errorf("load after Reload = %q, want %q", third, "second")
	}
}

// ── Render() tests ────────────────────────────────────────────────────────────

func TestRender_Substitution(t *testing.T) {
	l := NewLoaderWithDir("")
	got, err := l.Render(TemplateGenerate, map[string]string{
		"context":      "CONTEXT-BODY",
		"requirements": "REQ-BODY",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "CONTEXT-BODY") || !strings.Contains(got, "REQ-BODY") {
		t.Errorf("substituted values missing:\n%s", got)
	}
	if strings.Contains(got, "{{context}}") || strings.Contains(got, "{{requirements}}") {
		t.Errorf("placeholders left behind:\n%s", got)
	}
}

func TestRender_PartLabels(t *testing.T) {
	l := NewLoaderWithDir("")
	got, err := l.Render(TemplateGenerateRefine, map[string]string{
		"part":         "2",
		"total":        "3",
		"context":      "c",
		"requirements": "r",
		"draft":        "d",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "PART 2 OF 3") {
		t.Errorf("part labels not rendered:\n%s", got)
	}
}
