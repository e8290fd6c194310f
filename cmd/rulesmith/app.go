package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rulesmith/rulesmith/internal/assistant"
	"github.com/rulesmith/rulesmith/internal/chunker"
	"github.com/rulesmith/rulesmith/internal/config"
	"github.com/rulesmith/rulesmith/internal/editor"
	"github.com/rulesmith/rulesmith/internal/llm/groq"
	"github.com/rulesmith/rulesmith/internal/prompt"
	"github.com/rulesmith/rulesmith/internal/ratelimit"
	"github.com/rulesmith/rulesmith/internal/scanner"
	"github.com/rulesmith/rulesmith/internal/util"
)

var divider = strings.Repeat("=", 50)

// app carries the state shared by every command: the loaded configuration,
// the --repo override and, in the interactive shell, the most recent scan.
type app struct {
	cfg      *config.Config
	repoFlag string

	in  *bufio.Reader
	out io.Writer

	scan      *scanner.Result
	docs      []chunker.Document
	assistant *assistant.Assistant
}

func newApp() *app {
	return &app{
		cfg: config.Load(),
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// repoPath resolves the repository to operate on: the --repo flag when
// given, otherwise the configured default.
func (a *app) repoPath() string {
	if a.repoFlag != "" {
		return a.repoFlag
	}
	return a.cfg.Repository()
}

// scanRepository walks the repository and rebuilds the context documents
// used by generate and analyze.
func (a *app) scanRepository(path string) {
	if path == "" {
		path = a.repoPath()
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(a.out, "Error: Repository path '%s' does not exist\n", path)
		return
	}
	fmt.Fprintf(a.out, "Scanning repository: %s\n", path)
	result, err := scanner.New(path).Scan()
	if err != nil {
		fmt.Fprintf(a.out, "Error scanning repository: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Found: %d Java model files, %d DRL files, %d GDST files\n",
		len(result.Models), len(result.Rules), len(result.Tables))
	a.scan = result
	if result.Total() == 0 {
		fmt.Fprintln(a.out, "No relevant files found in the repository.")
		return
	}
	a.docs = result.Documents()
	fmt.Fprintln(a.out, "Repository scan completed successfully!")
}

// ensureScanned performs an initial scan when no context has been built
// yet, so one-shot invocations see the same context as the shell.
func (a *app) ensureScanned() {
	if a.scan != nil {
		return
	}
	a.scanRepository("")
}

// ensureAssistant lazily builds the LLM pipeline from the active
// configuration. The key can come from the config file or GROQ_API_KEY.
func (a *app) ensureAssistant() (*assistant.Assistant, error) {
	if a.assistant != nil {
		return a.assistant, nil
	}
	key := a.cfg.GroqAPIKey()
	if key == "" {
		return nil, errors.New("Groq API key not configured. Use 'config set-api-key' command first.")
	}
	gcfg := groq.NewConfig(key)
	if model := a.cfg.GroqModel(); model != "" {
		gcfg.Model = model
	}
	if base := a.cfg.GroqBaseURL(); base != "" {
		gcfg.BaseURL = base
	}
	client, err := groq.NewClient(gcfg)
	if err != nil {
		return nil, err
	}
	limiter, err := ratelimit.New(ratelimit.DefaultCapacity, ratelimit.DefaultWindow)
	if err != nil {
		return nil, err
	}
	splitter, err := chunker.New(chunker.DefaultTargetTokens)
	if err != nil {
		return nil, err
	}
	asst, err := assistant.New(client, limiter, splitter, prompt.NewLoader())
	if err != nil {
		return nil, err
	}
	a.assistant = asst
	return asst, nil
}

// generateRule drives the generate flow shared by the subcommand and the
// shell: collect requirements, call the assistant, then save or print.
func (a *app) generateRule(ctx context.Context, requirements, outputFile string) {
	asst, err := a.ensureAssistant()
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	if len(a.docs) == 0 {
		fmt.Fprintln(a.out, "Warning: No repository context available. Consider scanning a repository first.")
	}
	if requirements == "" {
		fmt.Fprintln(a.out, "Enter your rule requirements (press Ctrl+D or Ctrl+Z when finished):")
		requirements = a.readMultiline()
	}
	if strings.TrimSpace(requirements) == "" {
		fmt.Fprintln(a.out, "Error: No requirements provided")
		return
	}
	fmt.Fprintln(a.out, "Generating rule... This may take a moment.")
	rule, err := asst.GenerateRule(ctx, a.docs, requirements)
	if err != nil {
		fmt.Fprintf(a.out, "Error generating rule: %v\n", err)
		return
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rule), 0o644); err != nil {
			fmt.Fprintf(a.out, "Error generating rule: %v\n", err)
			return
		}
		fmt.Fprintf(a.out, "Generated rule saved to: %s\n", outputFile)
		return
	}
	fmt.Fprintln(a.out, "\n=== Generated Rule ===")
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out, divider)
	a.offerSave(rule)
}

// offerSave asks whether the freshly generated rule should be written to
// disk, defaulting the filename to a timestamped one.
func (a *app) offerSave(rule string) {
	fmt.Fprint(a.out, "\nSave this rule to a file? (y/n): ")
	if strings.ToLower(strings.TrimSpace(a.readLine())) != "y" {
		return
	}
	name := fmt.Sprintf("generated_rule_%s.drl", time.Now().Format("20060102_150405"))
	fmt.Fprintf(a.out, "Enter filename (default: %s): ", name)
	if entered := strings.TrimSpace(a.readLine()); entered != "" {
		name = entered
	}
	if err := os.WriteFile(name, []byte(rule), 0o644); err != nil {
		fmt.Fprintf(a.out, "Error generating rule: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Rule saved to: %s\n", name)
}

// analyzeRule drives the analyze flow shared by the subcommand and the
// shell. The rule comes from a file when given, otherwise from stdin.
func (a *app) analyzeRule(ctx context.Context, filePath string) {
	asst, err := a.ensureAssistant()
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	var ruleContent string
	if filePath != "" {
		if _, err := os.Stat(filePath); err != nil {
			fmt.Fprintf(a.out, "Error: File '%s' does not exist\n", filePath)
			return
		}
		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(a.out, "Error reading file: %v\n", err)
			return
		}
		ruleContent = string(data)
	} else {
		fmt.Fprintln(a.out, "Enter the DRL rule to analyze (press Ctrl+D or Ctrl+Z when finished):")
		ruleContent = a.readMultiline()
	}
	if strings.TrimSpace(ruleContent) == "" {
		fmt.Fprintln(a.out, "Error: No rule content provided")
		return
	}
	fmt.Fprintln(a.out, "Analyzing rule... This may take a moment.")
	analysis, err := asst.AnalyzeRule(ctx, a.docs, ruleContent)
	if err != nil {
		fmt.Fprintf(a.out, "Error analyzing rule: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "\n=== Rule Analysis ===")
	fmt.Fprintln(a.out, analysis.Format())
	fmt.Fprintln(a.out, divider)
}

// viewFile prints a file's content between header and divider lines.
func (a *app) viewFile(path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(a.out, "Error: File '%s' does not exist\n", path)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "Error reading file: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "\n=== Content of %s ===\n", filepath.Base(path))
	fmt.Fprintln(a.out, string(data))
	fmt.Fprintln(a.out, divider)
}

// editFile opens the file in the configured editor, creating a fresh
// templated rule file first when no path is given.
func (a *app) editFile(path string) {
	if path == "" {
		created, err := editor.CreateRuleFile(".")
		if err != nil {
			fmt.Fprintf(a.out, "Error opening editor: %v\n", err)
			return
		}
		path = created
	}
	if err := editor.Open(a.cfg.EditorCommand(), path); err != nil {
		fmt.Fprintf(a.out, "Error opening editor: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "File '%s' edited successfully!\n", path)
}

// showContext prints the assembled repository context, truncated to the
// given number of characters.
func (a *app) showContext(limit int) {
	text := chunker.Join(a.docs)
	if text == "" {
		fmt.Fprintln(a.out, "No repository context available. Please scan a repository first.")
		return
	}
	fmt.Fprintln(a.out, "=== Repository Context ===")
	shown, truncated := util.TruncateRunes(text, limit)
	fmt.Fprintln(a.out, shown)
	if truncated {
		fmt.Fprintf(a.out, "\n... (truncated, showing first %d characters of %d total)\n",
			limit, utf8.RuneCountInString(text))
	}
	fmt.Fprintln(a.out, divider)
}

// configure applies a configuration action, prompting for the value when
// it was not supplied on the command line.
func (a *app) configure(action, value string) {
	switch action {
	case "set-api-key":
		if value == "" {
			fmt.Fprint(a.out, "Enter your Groq API key: ")
			value = strings.TrimSpace(a.readLine())
		}
		if value == "" {
			fmt.Fprintln(a.out, "Error: No API key provided")
			return
		}
		a.cfg.APIKey = value
		if err := a.cfg.Save(); err != nil {
			fmt.Fprintf(a.out, "Error saving config: %v\n", err)
			return
		}
		a.assistant = nil
		fmt.Fprintln(a.out, "API key saved successfully!")

	case "set-repository":
		if value == "" {
			fmt.Fprintf(a.out, "Enter repository path (current: %s): ", a.cfg.Repository())
			value = strings.TrimSpace(a.readLine())
		}
		if value == "" {
			return
		}
		if _, err := os.Stat(value); err != nil {
			fmt.Fprintf(a.out, "Error: Path '%s' does not exist\n", value)
			return
		}
		a.cfg.DefaultRepository = value
		if err := a.cfg.Save(); err != nil {
			fmt.Fprintf(a.out, "Error saving config: %v\n", err)
			return
		}
		fmt.Fprintf(a.out, "Default repository set to: %s\n", value)

	case "set-editor":
		if value == "" {
			fmt.Fprintf(a.out, "Enter preferred editor (current: %s): ", a.cfg.EditorCommand())
			value = strings.TrimSpace(a.readLine())
		}
		if value == "" {
			return
		}
		a.cfg.Editor = value
		if err := a.cfg.Save(); err != nil {
			fmt.Fprintf(a.out, "Error saving config: %v\n", err)
			return
		}
		fmt.Fprintf(a.out, "Editor set to: %s\n", value)

	case "show":
		fmt.Fprintln(a.out, "=== Current Configuration ===")
		fmt.Fprintf(a.out, "Groq API Key: %s\n", a.cfg.MaskedKey())
		fmt.Fprintf(a.out, "Default Repository: %s\n", a.cfg.Repository())
		fmt.Fprintf(a.out, "Editor: %s\n", a.cfg.EditorCommand())
		path, _ := config.Path()
		fmt.Fprintf(a.out, "Config File: %s\n", path)

	default:
		fmt.Fprintln(a.out, "Available configuration actions:")
		fmt.Fprintln(a.out, "  set-api-key    - Set Groq API key")
		fmt.Fprintln(a.out, "  set-repository - Set default repository path")
		fmt.Fprintln(a.out, "  set-editor     - Set preferred text editor")
		fmt.Fprintln(a.out, "  show          - Show current configuration")
	}
}

// readLine reads one line from stdin without its trailing newline.
func (a *app) readLine() string {
	line, _ := a.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// readMultiline reads stdin until EOF (Ctrl+D, or Ctrl+Z on Windows).
func (a *app) readMultiline() string {
	var lines []string
	for {
		line, err := a.in.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			break
		}
	}
	return strings.Join(lines, "\n")
}
