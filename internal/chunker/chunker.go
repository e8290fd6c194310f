// Package chunker partitions scanned context documents into chunks that fit
// a per-request token budget.
//
// The repository context regularly outgrows what one API call may carry, so
// the assistant splits it upfront and sends one chunk per call. Documents
// stay whole wherever possible; only a document that alone exceeds the
// budget is cut, at line boundaries, into ordered sub-segments.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rulesmith/rulesmith/internal/tokens"
)

// DefaultTargetTokens is the per-chunk budget used for API payloads.
const DefaultTargetTokens = 4000

// ErrInvalidConfig reports a non-positive chunk target at construction.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// Document is one scanned artifact rendered for the LLM context. Part and
// Parts are zero for whole documents; sub-segments of an oversized document
// carry 1-based numbering and share the original ID and category.
type Document struct {
	ID       string
	Category string
	Text     string
	Part     int
	Parts    int
}

// Chunk is an ordered group of documents sized to fit one API request.
// Index and Total are 1-based and filled in once the full split is known.
type Chunk struct {
	Documents []Document
	Tokens    int
	Index     int
	Total     int
}

// Text concatenates the chunk's document texts in order.
func (c Chunk) Text() string {
	return Join(c.Documents)
}

// Join concatenates document texts in input order.
func Join(docs []Document) string {
	var sb strings.Builder
	for _, d := range docs {
		sb.WriteString(d.Text)
	}
	return sb.String()
}

// Splitter groups documents into chunks of at most a target token size.
type Splitter struct {
	target int
}

// New creates a Splitter with the given per-chunk token target.
func New(target int) (*Splitter, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: target must be positive, got %d", ErrInvalidConfig, target)
	}
	return &Splitter{target: target}, nil
}

// Split partitions docs, in order, into chunks whose summed token estimates
// stay at or under the target. A document that alone exceeds the target is
// cut into sub-segments, each emitted as its own chunk after any
// accumulated chunk is flushed un-split. Concatenating the documents of the
// returned chunks reproduces the input texts exactly. An empty input yields
// an empty sequence.
func (s *Splitter) Split(docs []Document) []Chunk {
	var chunks []Chunk
	var current []Document
	size := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, Chunk{Documents: current, Tokens: size})
		current = nil
		size = 0
	}

	for _, doc := range docs {
		est := tokens.Estimate(doc.Text)
		switch {
		case est > s.target:
			flush()
			segments := splitText(doc.Text, s.target)
			for i, seg := range segments {
				sub := Document{
					ID:       doc.ID,
					Category: doc.Category,
					Text:     seg,
					Part:     i + 1,
					Parts:    len(segments),
				}
				chunks = append(chunks, Chunk{
					Documents: []Document{sub},
					Tokens:    tokens.Estimate(seg),
				})
			}
		case size+est > s.target:
			flush()
			current = []Document{doc}
			size = est
		default:
			current = append(current, doc)
			size += est
		}
	}
	flush()

	for i := range chunks {
		chunks[i].Index = i + 1
		chunks[i].Total = len(chunks)
	}
	return chunks
}

// splitText cuts text into segments of at most target estimated tokens,
// preferring line boundaries. Lines keep their trailing newline so the
// concatenation of all segments reproduces text byte-for-byte. A single
// line longer than the whole budget falls back to raw character cuts.
func splitText(text string, target int) []string {
	budget := target * 4 // bytes per segment at the four-chars-per-token ratio
	var segments []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			segments = append(segments, sb.String())
			sb.Reset()
		}
	}

	remaining := text
	for len(remaining) > 0 {
		var line string
		if idx := strings.IndexByte(remaining, '\n'); idx >= 0 {
			line = remaining[:idx+1]
			remaining = remaining[idx+1:]
		} else {
			line = remaining
			remaining = ""
		}

		if len(line) > budget {
			flush()
			for len(line) > budget {
				segments = append(segments, line[:budget])
				line = line[budget:]
			}
			sb.WriteString(line)
			continue
		}
		if sb.Len()+len(line) > budget {
			flush()
		}
		sb.WriteString(line)
	}
	flush()

	return segments
}
