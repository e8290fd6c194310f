package scanner

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/rulesmith/rulesmith/internal/chunker"
)

// Section banners of the rendered context.
const (
	bannerModels = "=== JAVA MODEL CLASSES ==="
	bannerRules  = "=== EXISTING DRL RULES ==="
	bannerTables = "=== GDST DECISION TABLES ==="
)

var separator = strings.Repeat("-", 50)

// Documents renders the scan result into ordered context documents, one per
// file. The first document of each category opens with the section banner,
// so concatenating every document in order yields the full sectioned
// context string the prompts embed.
func (r *Result) Documents() []chunker.Document {
	var docs []chunker.Document
	for i, f := range r.Models {
		docs = append(docs, renderModel(f, i == 0))
	}
	for i, f := range r.Rules {
		docs = append(docs, renderPlain(f, bannerRules, i == 0))
	}
	for i, f := range r.Tables {
		docs = append(docs, renderPlain(f, bannerTables, i == 0))
	}
	return docs
}

// renderModel renders a Java model file with its extracted class summary.
func renderModel(f File, first bool) chunker.Document {
	content := readFileContent(f.Path)
	info := ExtractModelInfo(content)

	var sb strings.Builder
	if first {
		fmt.Fprintf(&sb, "%s\n\n", bannerModels)
	}
	fmt.Fprintf(&sb, "File: %s\n", f.Path)
	fmt.Fprintf(&sb, "Class: %s\n", info.ClassName)
	sb.WriteString("Fields:\n")
	for _, field := range info.Fields {
		fmt.Fprintf(&sb, "  - %s %s\n", field.Type, field.Name)
	}
	fmt.Fprintf(&sb, "Annotations: %s\n", strings.Join(info.Annotations, ", "))
	sb.WriteString("\nFull Content:\n")
	sb.WriteString(content)
	fmt.Fprintf(&sb, "\n%s\n\n", separator)

	return chunker.Document{ID: f.Path, Category: string(f.Category), Text: sb.String()}
}

// renderPlain renders a rule or decision-table file verbatim.
func renderPlain(f File, banner string, first bool) chunker.Document {
	var sb strings.Builder
	if first {
		fmt.Fprintf(&sb, "%s\n\n", banner)
	}
	fmt.Fprintf(&sb, "File: %s\n", f.Path)
	sb.WriteString(readFileContent(f.Path))
	fmt.Fprintf(&sb, "\n%s\n\n", separator)

	return chunker.Document{ID: f.Path, Category: string(f.Category), Text: sb.String()}
}

// readFileContent reads a file, substituting a placeholder line when one
// file is unreadable so a single bad file cannot sink the whole context.
// Legacy-encoded sources (Latin-1, GBK) are transcoded to UTF-8 so the
// context stays valid for the API payload.
func readFileContent(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading %s: %v", path, err)
	}
	if !utf8.Valid(data) {
		enc, name, _ := charset.DetermineEncoding(data, "")
		if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
			log.Printf("[Scan] transcoded %s from %s", path, name)
			data = decoded
		}
	}
	return string(data)
}

// FormatListing renders the numbered file listings for the requested kind:
// "all", "java", "drl" or "gdst". Unknown kinds produce an empty listing.
func (r *Result) FormatListing(kind string) string {
	var sb strings.Builder
	kind = strings.ToLower(kind)
	if kind == "all" || kind == "java" {
		writeListing(&sb, "=== Java Model Files ===", r.Models)
	}
	if kind == "all" || kind == "drl" {
		writeListing(&sb, "=== DRL Rule Files ===", r.Rules)
	}
	if kind == "all" || kind == "gdst" {
		writeListing(&sb, "=== GDST Decision Tables ===", r.Tables)
	}
	return sb.String()
}

func writeListing(sb *strings.Builder, header string, files []File) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s\n", header)
	for i, f := range files {
		fmt.Fprintf(sb, "%2d. %s (%s) - %d bytes\n", i+1, filepath.Base(f.Path), f.Path, f.Size)
	}
}
