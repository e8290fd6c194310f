package scanner

import "regexp"

// Light regex extraction. The context header only needs a summary of the
// class shape.
var (
	classRe      = regexp.MustCompile(`public\s+class\s+(\w+)`)
	fieldRe      = regexp.MustCompile(`private\s+(\w+(?:<[^>]+>)?)\s+(\w+);`)
	importRe     = regexp.MustCompile(`import\s+([^;]+);`)
	annotationRe = regexp.MustCompile(`@(\w+)(?:\([^)]*\))?`)
)

// FieldInfo is one private field of a model class.
type FieldInfo struct {
	Type string
	Name string
}

// ModelInfo summarizes a Java model class for the context header.
type ModelInfo struct {
	ClassName   string
	Fields      []FieldInfo
	Imports     []string
	Annotations []string
}

// ExtractModelInfo pulls the class name, private fields, imports and
// annotations out of Java source. Annotations are de-duplicated in
// first-seen order.
func ExtractModelInfo(content string) ModelInfo {
	var info ModelInfo
	if m := classRe.FindStringSubmatch(content); m != nil {
		info.ClassName = m[1]
	}
	for _, m := range fieldRe.FindAllStringSubmatch(content, -1) {
		info.Fields = append(info.Fields, FieldInfo{Type: m[1], Name: m[2]})
	}
	for _, m := range importRe.FindAllStringSubmatch(content, -1) {
		info.Imports = append(info.Imports, m[1])
	}
	seen := make(map[string]bool)
	for _, m := range annotationRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			info.Annotations = append(info.Annotations, m[1])
		}
	}
	return info
}
