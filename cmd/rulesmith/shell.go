package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
)

const shellHelp = `
=== Rulesmith Commands ===

Repository Management:
  scan [path]           - Scan repository for DRL-related files
  list [type]          - List found files (type: all, java, drl, gdst)
  context [limit]      - Show repository context (default limit: 1000 chars)

File Operations:
  view <file>          - View file content
  edit [file]          - Edit file (creates new if not specified)

AI Operations:
  generate [output]    - Generate DRL rule using AI
  analyze [file]       - Analyze DRL rule using AI

Configuration:
  config show          - Show current configuration
  config set-api-key   - Set Groq API key
  config set-repository - Set default repository path
  config set-editor    - Set preferred text editor

General:
  help                 - Show this help
  quit/exit/q         - Exit the application

Examples:
  scan /path/to/project
  list drl
  generate my_rule.drl
  analyze existing_rule.drl
  config set-api-key
`

// shellHandler executes one interactive command with its arguments.
type shellHandler func(args []string)

// runShell is the interactive mode: a read-eval loop over stdin offering
// the same commands the CLI exposes as subcommands, but with the scan
// result carried between them.
func (a *app) runShell() error {
	fmt.Fprintln(a.out, "=== Rulesmith - Interactive Mode ===")
	fmt.Fprintln(a.out, "Type 'help' for available commands or 'quit' to exit")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		for range interrupt {
			fmt.Fprintln(a.out, "\nUse 'quit' to exit")
		}
	}()

	commands := a.shellCommands()
	for {
		fmt.Fprint(a.out, "\ndrl> ")
		line, err := a.in.ReadString('\n')
		fields := strings.Fields(line)
		if len(fields) > 0 {
			name := strings.ToLower(fields[0])
			if name == "quit" || name == "exit" || name == "q" {
				fmt.Fprintln(a.out, "Goodbye!")
				return nil
			}
			if handler, ok := commands[name]; ok {
				handler(fields[1:])
			} else {
				fmt.Fprintf(a.out, "Unknown command: %s. Type 'help' for available commands.\n", name)
			}
		}
		if err != nil {
			fmt.Fprintln(a.out, "\nGoodbye!")
			return nil
		}
	}
}

func (a *app) shellCommands() map[string]shellHandler {
	return map[string]shellHandler{
		"help":     func([]string) { fmt.Fprintf(a.out, "%s\n", shellHelp) },
		"scan":     a.shellScan,
		"list":     a.shellList,
		"view":     a.shellView,
		"edit":     a.shellEdit,
		"generate": a.shellGenerate,
		"analyze":  a.shellAnalyze,
		"context":  a.shellContext,
		"config":   a.shellConfig,
	}
}

func (a *app) shellScan(args []string) {
	a.scanRepository(argOr(args, 0, ""))
}

func (a *app) shellList(args []string) {
	if a.scan == nil {
		fmt.Fprintln(a.out, "Please scan a repository first using 'scan' command")
		return
	}
	fmt.Fprint(a.out, a.scan.FormatListing(argOr(args, 0, "all")))
}

func (a *app) shellView(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(a.out, "Usage: view <file_path>")
		return
	}
	a.viewFile(args[0])
}

func (a *app) shellEdit(args []string) {
	a.editFile(argOr(args, 0, ""))
}

func (a *app) shellGenerate(args []string) {
	a.generateRule(context.Background(), "", argOr(args, 0, ""))
}

func (a *app) shellAnalyze(args []string) {
	a.analyzeRule(context.Background(), argOr(args, 0, ""))
}

func (a *app) shellContext(args []string) {
	limit := 1000
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(a.out, "Error: invalid limit '%s'\n", args[0])
			return
		}
		limit = n
	}
	a.showContext(limit)
}

func (a *app) shellConfig(args []string) {
	a.configure(argOr(args, 0, ""), argOr(args, 1, ""))
}

func argOr(args []string, i int, fallback string) string {
	if i < len(args) {
		return args[i]
	}
	return fallback
}
