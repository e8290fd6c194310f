// Package editor opens files in the user's text editor and scaffolds new
// rule files.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ruleTemplate seeds newly created rule files.
const ruleTemplate = `package com.example.rules;

import java.util.*;

rule "New Rule"
    when
        // Add your conditions here
    then
        // Add your actions here
end
`

// Open launches the editor on path with the caller's terminal wired
// through, blocking until the editor exits.
func Open(editorCmd, path string) error {
	cmd := exec.Command(editorCmd, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor %s: %w", editorCmd, err)
	}
	return nil
}

// CreateRuleFile writes a timestamped skeleton rule file in dir and returns
// its path.
func CreateRuleFile(dir string) (string, error) {
	name := fmt.Sprintf("new_rule_%s.drl", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(ruleTemplate), 0o644); err != nil {
		return "", fmt.Errorf("create rule file: %w", err)
	}
	return path, nil
}
