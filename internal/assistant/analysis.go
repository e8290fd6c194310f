package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringList decodes a JSON field that models return either as a single
// string or as an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// String renders the list for terminal display: a lone entry prints plain,
// multiple entries print as a dashed list.
func (s StringList) String() string {
	switch len(s) {
	case 0:
		return "N/A"
	case 1:
		return s[0]
	}
	var sb strings.Builder
	for i, item := range s {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(item)
	}
	return sb.String()
}

// Analysis is the structured review of one DRL rule.
type Analysis struct {
	Summary       string     `json:"summary"`
	Issues        StringList `json:"issues"`
	Suggestions   StringList `json:"suggestions"`
	Compatibility string     `json:"compatibility"`
	Performance   string     `json:"performance"`
}

// ParseAnalysis decodes a cleaned model response into an Analysis. A
// response that is not the requested JSON shape is not an error: the raw
// text becomes the summary and the remaining fields flag the failure, so
// the user still sees what the model said.
func ParseAnalysis(raw string) *Analysis {
	var a Analysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return &Analysis{
			Summary:       raw,
			Issues:        StringList{"Could not parse JSON response"},
			Suggestions:   StringList{"Please check the analysis manually"},
			Compatibility: "Unknown",
			Performance:   "Unknown",
		}
	}
	return &a
}

// Format renders the analysis in the labeled sections the CLI prints.
func (a *Analysis) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SUMMARY:\n%s\n\n", valueOr(a.Summary))
	fmt.Fprintf(&sb, "ISSUES:\n%s\n\n", a.Issues.String())
	fmt.Fprintf(&sb, "SUGGESTIONS:\n%s\n\n", a.Suggestions.String())
	fmt.Fprintf(&sb, "COMPATIBILITY:\n%s\n\n", valueOr(a.Compatibility))
	fmt.Fprintf(&sb, "PERFORMANCE:\n%s", valueOr(a.Performance))
	return sb.String()
}

func valueOr(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
