package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rulesmith/rulesmith/internal/assistant"
	"github.com/rulesmith/rulesmith/internal/chunker"
	"github.com/rulesmith/rulesmith/internal/config"
	"github.com/rulesmith/rulesmith/internal/llm"
	"github.com/rulesmith/rulesmith/internal/prompt"
	"github.com/rulesmith/rulesmith/internal/ratelimit"
)

// fakeProvider returns a canned reply for every call.
type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) CallLLM(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	if f.err != nil {
		return llm.Message{}, f.err
	}
	return llm.Message{Role: llm.RoleAssistant, Content: f.reply}, nil
}

func (f *fakeProvider) GetName() string { return "fake" }

func newTestApp(t *testing.T, input string) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &app{
		cfg: &config.Config{},
		in:  bufio.NewReader(strings.NewReader(input)),
		out: &out,
	}, &out
}

func testAssistant(t *testing.T, p llm.Provider) *assistant.Assistant {
	t.Helper()
	limiter, err := ratelimit.New(ratelimit.DefaultCapacity, ratelimit.DefaultWindow)
	if err != nil {
		t.Fatalf("ratelimit.New: %v", err)
	}
	splitter, err := chunker.New(chunker.DefaultTargetTokens)
	if err != nil {
		t.Fatalf("chunker.New: %v", err)
	}
	a, err := assistant.New(p, limiter, splitter, prompt.NewLoader())
	if err != nil {
		t.Fatalf("assistant.New: %v", err)
	}
	return a
}

func fixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	model := filepath.Join(dir, "src", "model")
	if err := os.MkdirAll(model, 0o755); err != nil {
		t.Fatal(err)
	}
	java := "public class Customer {\n    private String name;\n}\n"
	if err := os.WriteFile(filepath.Join(model, "Customer.java"), []byte(java), 0o644); err != nil {
		t.Fatal(err)
	}
	drl := "rule \"Discount\"\nwhen\nthen\nend\n"
	if err := os.WriteFile(filepath.Join(dir, "discount.drl"), []byte(drl), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// ── shell tests ──────────────────────────────────────────────────────────

func TestRunShell_ScanListQuit(t *testing.T) {
	repo := fixtureRepo(t)
	a, out := newTestApp(t, "scan "+repo+"\nlist\nquit\n")

	if err := a.runShell(); err != nil {
		t.Fatalf("runShell: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"=== Rulesmith - Interactive Mode ===",
		"Scanning repository: " + repo,
		"Found: 1 Java model files, 1 DRL files, 0 GDST files",
		"Repository scan completed successfully!",
		"=== Java Model Files ===",
		"=== DRL Rule Files ===",
		"Goodbye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("shell output missing %q\n%s", want, got)
		}
	}
}

func TestRunShell_UnknownCommand(t *testing.T) {
	a, out := newTestApp(t, "frobnicate\nquit\n")
	if err := a.runShell(); err != nil {
		t.Fatalf("runShell: %v", err)
	}
	if !strings.Contains(out.String(), "Unknown command: frobnicate. Type 'help' for available commands.") {
		t.Errorf("missing unknown-command message:\n%s", out.String())
	}
}

func TestRunShell_ListBeforeScan(t *testing.T) {
	a, out := newTestApp(t, "list\nquit\n")
	if err := a.runShell(); err != nil {
		t.Fatalf("runShell: %v", err)
	}
	if !strings.Contains(out.String(), "Please scan a repository first using 'scan' command") {
		t.Errorf("missing scan-first message:\n%s", out.String())
	}
}

func TestRunShell_ViewUsage(t *testing.T) {
	a, out := newTestApp(t, "view\nquit\n")
	if err := a.runShell(); err != nil {
		t.Fatalf("runShell: %v", err)
	}
	if !strings.Contains(out.String(), "Usage: view <file_path>") {
		t.Errorf("missing usage message:\n%s", out.String())
	}
}

func TestRunShell_HelpAndEOF(t *testing.T) {
	a, out := newTestApp(t, "help\n")
	if err := a.runShell(); err != nil {
		t.Fatalf("runShell: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "=== Rulesmith Commands ===") {
		t.Errorf("missing help header:\n%s", got)
	}
	if !strings.Contains(got, "Goodbye!") {
		t.Errorf("EOF should end the shell:\n%s", got)
	}
}

// ── command flow tests ───────────────────────────────────────────────────

func TestScanRepository_MissingPath(t *testing.T) {
	a, out := newTestApp(t, "")
	a.scanRepository(filepath.Join(t.TempDir(), "nope"))
	if !strings.Contains(out.String(), "does not exist") {
		t.Errorf("missing error message:\n%s", out.String())
	}
}

func TestScanRepository_EmptyRepo(t *testing.T) {
	a, out := newTestApp(t, "")
	a.scanRepository(t.TempDir())
	got := out.String()
	if !strings.Contains(got, "Found: 0 Java model files, 0 DRL files, 0 GDST files") {
		t.Errorf("missing zero summary:\n%s", got)
	}
	if !strings.Contains(got, "No relevant files found in the repository.") {
		t.Errorf("missing no-files message:\n%s", got)
	}
	if a.scan == nil {
		t.Error("scan result should still be recorded for list")
	}
}

func TestGenerateRule_NoAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	a, out := newTestApp(t, "")
	a.generateRule(context.Background(), "discount rule", "")
	if !strings.Contains(out.String(), "Error: Groq API key not configured. Use 'config set-api-key' command first.") {
		t.Errorf("missing key error:\n%s", out.String())
	}
}

func TestGenerateRule_SavesToOutputFile(t *testing.T) {
	a, out := newTestApp(t, "")
	a.assistant = testAssistant(t, &fakeProvider{
		reply: "<think>plan</think>\n```drl\nrule \"Discount\"\nwhen\nthen\nend\n```",
	})
	a.scanRepository(fixtureRepo(t))

	dest := filepath.Join(t.TempDir(), "out.drl")
	a.generateRule(context.Background(), "apply a discount", dest)

	if !strings.Contains(out.String(), "Generated rule saved to: "+dest) {
		t.Fatalf("missing save message:\n%s", out.String())
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got := string(data); got != "rule \"Discount\"\nwhen\nthen\nend" {
		t.Errorf("saved rule = %q", got)
	}
}

func TestGenerateRule_PrintsAndOffersSave(t *testing.T) {
	a, out := newTestApp(t, "n\n")
	a.assistant = testAssistant(t, &fakeProvider{reply: "rule \"X\"\nwhen\nthen\nend"})
	a.scanRepository(fixtureRepo(t))

	a.generateRule(context.Background(), "anything", "")

	got := out.String()
	if !strings.Contains(got, "Generating rule... This may take a moment.") {
		t.Errorf("missing progress message:\n%s", got)
	}
	if !strings.Contains(got, "=== Generated Rule ===") {
		t.Errorf("missing rule header:\n%s", got)
	}
	if !strings.Contains(got, "Save this rule to a file? (y/n): ") {
		t.Errorf("missing save prompt:\n%s", got)
	}
	if strings.Contains(got, "Rule saved to:") {
		t.Errorf("declined save should not write:\n%s", got)
	}
}

func TestGenerateRule_SaveAccepted(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "kept.drl")
	a, out := newTestApp(t, "y\n"+dest+"\n")
	a.assistant = testAssistant(t, &fakeProvider{reply: "rule \"Y\"\nwhen\nthen\nend"})

	a.generateRule(context.Background(), "anything", "")

	if !strings.Contains(out.String(), "Rule saved to: "+dest) {
		t.Fatalf("missing saved message:\n%s", out.String())
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestGenerateRule_EmptyRequirements(t *testing.T) {
	a, out := newTestApp(t, "")
	a.assistant = testAssistant(t, &fakeProvider{reply: "unused"})
	a.generateRule(context.Background(), "", "")
	got := out.String()
	if !strings.Contains(got, "Enter your rule requirements (press Ctrl+D or Ctrl+Z when finished):") {
		t.Errorf("missing requirements prompt:\n%s", got)
	}
	if !strings.Contains(got, "Error: No requirements provided") {
		t.Errorf("missing empty-requirements error:\n%s", got)
	}
}

func TestGenerateRule_WarnsWithoutContext(t *testing.T) {
	a, out := newTestApp(t, "n\n")
	a.assistant = testAssistant(t, &fakeProvider{reply: "rule \"Z\"\nwhen\nthen\nend"})
	a.generateRule(context.Background(), "anything", "")
	if !strings.Contains(out.String(), "Warning: No repository context available. Consider scanning a repository first.") {
		t.Errorf("missing context warning:\n%s", out.String())
	}
}

func TestAnalyzeRule_FromFile(t *testing.T) {
	a, out := newTestApp(t, "")
	a.assistant = testAssistant(t, &fakeProvider{
		reply: `{"summary": "Looks fine", "issues": ["none"], "suggestions": "keep it", "compatibility": "good", "performance": "fast"}`,
	})
	rulePath := filepath.Join(t.TempDir(), "r.drl")
	if err := os.WriteFile(rulePath, []byte("rule \"R\"\nwhen\nthen\nend\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	a.analyzeRule(context.Background(), rulePath)

	got := out.String()
	for _, want := range []string{
		"Analyzing rule... This may take a moment.",
		"=== Rule Analysis ===",
		"SUMMARY:\nLooks fine",
		"PERFORMANCE:\nfast",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("analysis output missing %q\n%s", want, got)
		}
	}
}

func TestAnalyzeRule_MissingFile(t *testing.T) {
	a, out := newTestApp(t, "")
	a.assistant = testAssistant(t, &fakeProvider{reply: "unused"})
	missing := filepath.Join(t.TempDir(), "ghost.drl")
	a.analyzeRule(context.Background(), missing)
	if !strings.Contains(out.String(), "Error: File '"+missing+"' does not exist") {
		t.Errorf("missing file error:\n%s", out.String())
	}
}

func TestAnalyzeRule_EmptyStdin(t *testing.T) {
	a, out := newTestApp(t, "")
	a.assistant = testAssistant(t, &fakeProvider{reply: "unused"})
	a.analyzeRule(context.Background(), "")
	if !strings.Contains(out.String(), "Error: No rule content provided") {
		t.Errorf("missing empty-rule error:\n%s", out.String())
	}
}

func TestShowContext_Truncates(t *testing.T) {
	a, out := newTestApp(t, "")
	a.scanRepository(fixtureRepo(t))
	out.Reset()

	a.showContext(20)

	got := out.String()
	if !strings.Contains(got, "=== Repository Context ===") {
		t.Errorf("missing context header:\n%s", got)
	}
	if !strings.Contains(got, "... (truncated, showing first 20 characters of") {
		t.Errorf("missing truncation notice:\n%s", got)
	}
}

func TestShowContext_NoContext(t *testing.T) {
	a, out := newTestApp(t, "")
	a.showContext(1000)
	if !strings.Contains(out.String(), "No repository context available. Please scan a repository first.") {
		t.Errorf("missing no-context message:\n%s", out.String())
	}
}

func TestViewFile_PrintsContent(t *testing.T) {
	a, out := newTestApp(t, "")
	path := filepath.Join(t.TempDir(), "sample.drl")
	if err := os.WriteFile(path, []byte("rule \"V\"\nwhen\nthen\nend\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a.viewFile(path)
	got := out.String()
	if !strings.Contains(got, "=== Content of sample.drl ===") {
		t.Errorf("missing view header:\n%s", got)
	}
	if !strings.Contains(got, "rule \"V\"") {
		t.Errorf("missing file body:\n%s", got)
	}
}

func TestEditFile_MissingEditor(t *testing.T) {
	a, out := newTestApp(t, "")
	a.cfg.Editor = filepath.Join(t.TempDir(), "no-such-editor")
	path := filepath.Join(t.TempDir(), "e.drl")
	if err := os.WriteFile(path, []byte("rule\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a.editFile(path)
	if !strings.Contains(out.String(), "Error opening editor:") {
		t.Errorf("missing editor error:\n%s", out.String())
	}
}

// ── configure tests ──────────────────────────────────────────────────────

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestConfigure_SetAPIKey(t *testing.T) {
	isolateHome(t)
	a, out := newTestApp(t, "")
	a.configure("set-api-key", "gsk_test123")

	if !strings.Contains(out.String(), "API key saved successfully!") {
		t.Fatalf("missing save confirmation:\n%s", out.String())
	}
	if got := config.Load().APIKey; got != "gsk_test123" {
		t.Errorf("persisted key = %q", got)
	}
}

func TestConfigure_SetAPIKey_Empty(t *testing.T) {
	isolateHome(t)
	a, out := newTestApp(t, "\n")
	a.configure("set-api-key", "")
	got := out.String()
	if !strings.Contains(got, "Enter your Groq API key: ") {
		t.Errorf("missing prompt:\n%s", got)
	}
	if !strings.Contains(got, "Error: No API key provided") {
		t.Errorf("missing empty-key error:\n%s", got)
	}
}

func TestConfigure_SetRepository_MissingPath(t *testing.T) {
	isolateHome(t)
	a, out := newTestApp(t, "")
	missing := filepath.Join(t.TempDir(), "void")
	a.configure("set-repository", missing)
	if !strings.Contains(out.String(), "Error: Path '"+missing+"' does not exist") {
		t.Errorf("missing path error:\n%s", out.String())
	}
}

func TestConfigure_Show(t *testing.T) {
	isolateHome(t)
	t.Setenv("GROQ_API_KEY", "")
	a, out := newTestApp(t, "")
	a.configure("show", "")
	got := out.String()
	for _, want := range []string{
		"=== Current Configuration ===",
		"Groq API Key: Not set",
		"Default Repository: ",
		"Config File: ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("show output missing %q\n%s", want, got)
		}
	}
}

func TestConfigure_UnknownAction(t *testing.T) {
	a, out := newTestApp(t, "")
	a.configure("", "")
	got := out.String()
	if !strings.Contains(got, "Available configuration actions:") {
		t.Errorf("missing actions header:\n%s", got)
	}
	if !strings.Contains(got, "set-api-key    - Set Groq API key") {
		t.Errorf("missing action listing:\n%s", got)
	}
}

// ── watch helpers ────────────────────────────────────────────────────────

func TestWatchRelevant(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"src/model/Customer.java", true},
		{"rules/discount.DRL", true},
		{"tables/pricing.gdst", true},
		{filepath.Join("repo", ".rulesmith.yaml"), true},
		{"README.md", false},
		{"build/output.log", false},
	}
	for _, tt := range tests {
		if got := watchRelevant(tt.name); got != tt.want {
			t.Errorf("watchRelevant(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
