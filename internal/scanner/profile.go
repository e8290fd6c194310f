package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProfileName is the per-repository scan profile file.
const ProfileName = ".rulesmith.yaml"

// Profile tunes scanning for one repository: extra directories to skip and
// overrides for how each category is matched.
type Profile struct {
	SkipDirs  []string `yaml:"skip_dirs"`
	JavaModel Matcher  `yaml:"java_model"`
	DRL       Matcher  `yaml:"drl"`
	GDST      Matcher  `yaml:"gdst"`

	skip map[string]bool
}

// Matcher matches files by extension and, optionally, path substrings
// (matched case-insensitively against the full path).
type Matcher struct {
	Extensions   []string `yaml:"extensions"`
	PathContains []string `yaml:"path_contains"`
}

// DefaultProfile returns the compiled-in matching rules: Java files on a
// path mentioning "model", .drl rules, .gdst decision tables.
func DefaultProfile() *Profile {
	p := &Profile{
		JavaModel: Matcher{Extensions: []string{".java"}, PathContains: []string{"model"}},
		DRL:       Matcher{Extensions: []string{".drl"}},
		GDST:      Matcher{Extensions: []string{".gdst"}},
	}
	p.compile()
	return p
}

// LoadProfile reads root/.rulesmith.yaml. A missing file yields the
// defaults; fields the file leaves unset keep their default values.
func LoadProfile(root string) (*Profile, error) {
	path := filepath.Join(root, ProfileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	p.compile()
	log.Printf("[Scan] loaded profile %s", path)
	return p, nil
}

// compile indexes the combined skip list for the walk.
func (p *Profile) compile() {
	p.skip = make(map[string]bool, len(defaultSkipDirs)+len(p.SkipDirs))
	for name := range defaultSkipDirs {
		p.skip[name] = true
	}
	for _, name := range p.SkipDirs {
		p.skip[name] = true
	}
}

func (p *Profile) skipDir(name string) bool {
	return p.skip[name]
}

// classify returns the category for path, if any. Order gives model
// matching precedence over rules and tables.
func (p *Profile) classify(path string) (Category, bool) {
	switch {
	case p.JavaModel.matches(path):
		return CategoryJavaModel, true
	case p.DRL.matches(path):
		return CategoryRule, true
	case p.GDST.matches(path):
		return CategoryDecisionTable, true
	}
	return "", false
}

func (m Matcher) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	extOK := false
	for _, e := range m.Extensions {
		if ext == strings.ToLower(e) {
			extOK = true
			break
		}
	}
	if !extOK {
		return false
	}
	if len(m.PathContains) == 0 {
		return true
	}
	lower := strings.ToLower(path)
	for _, sub := range m.PathContains {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
