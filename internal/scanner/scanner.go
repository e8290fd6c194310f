// Package scanner discovers rule-engine artifacts in a repository tree and
// renders them into the textual context the assistant sends to the LLM.
package scanner

import (
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
)

// Category identifies the kind of artifact a scanned file holds.
type Category string

const (
	CategoryJavaModel     Category = "java-model"
	CategoryRule          Category = "drl-rule"
	CategoryDecisionTable Category = "gdst-table"
)

// defaultSkipDirs are directory names never descended into.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	"vendor":       true,
	"__pycache__":  true,
	".cache":       true,
}

// SkipDir reports whether a directory name is excluded from scans by
// default. The watch loop uses it to avoid registering excluded trees.
func SkipDir(name string) bool {
	return defaultSkipDirs[name]
}

// File is a single classified artifact.
type File struct {
	Path     string
	Category Category
	Size     int64
}

// Result holds one scan's findings in walk order.
type Result struct {
	Root   string
	Models []File
	Rules  []File
	Tables []File
}

// Total returns the number of classified files.
func (r *Result) Total() int {
	return len(r.Models) + len(r.Rules) + len(r.Tables)
}

// Scanner walks a repository tree classifying rule-engine artifacts.
type Scanner struct {
	root    string
	profile *Profile
}

// New creates a Scanner rooted at the given directory, honoring the
// repository's .rulesmith.yaml profile when one exists.
func New(root string) *Scanner {
	profile, err := LoadProfile(root)
	if err != nil {
		log.Printf("[Scan] ignoring profile: %v", err)
		profile = DefaultProfile()
	}
	return &Scanner{root: root, profile: profile}
}

// Scan walks the tree and classifies every matching file. Unreadable
// subtrees are skipped; only a missing or unreadable root fails the scan.
func (s *Scanner) Scan() (*Result, error) {
	result := &Result{Root: s.root}
	walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			log.Printf("[Scan] skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != s.root && s.profile.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		category, ok := s.profile.classify(path)
		if !ok {
			return nil
		}
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		f := File{Path: path, Category: category, Size: size}
		switch category {
		case CategoryJavaModel:
			result.Models = append(result.Models, f)
		case CategoryRule:
			result.Rules = append(result.Rules, f)
		case CategoryDecisionTable:
			result.Tables = append(result.Tables, f)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan of %s failed: %w", s.root, walkErr)
	}
	log.Printf("[Scan] %s: %d model, %d rule, %d table files",
		s.root, len(result.Models), len(result.Rules), len(result.Tables))
	return result, nil
}
