// Package assistant orchestrates the LLM side of the tool: it renders the
// rule prompts over scanned repository context, splits context that outgrows
// a single request, rate-limits every call and cleans model output.
package assistant

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/rulesmith/rulesmith/internal/chunker"
	"github.com/rulesmith/rulesmith/internal/llm"
	"github.com/rulesmith/rulesmith/internal/prompt"
	"github.com/rulesmith/rulesmith/internal/ratelimit"
	"github.com/rulesmith/rulesmith/internal/tokens"
)

// Assistant generates and analyzes DRL rules against repository context.
type Assistant struct {
	provider llm.Provider
	limiter  *ratelimit.Limiter
	splitter *chunker.Splitter
	prompts  *prompt.Loader
}

// New wires an Assistant. All collaborators are required.
func New(provider llm.Provider, limiter *ratelimit.Limiter, splitter *chunker.Splitter, prompts *prompt.Loader) (*Assistant, error) {
	if provider == nil {
		return nil, fmt.Errorf("assistant: provider is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("assistant: rate limiter is required")
	}
	if splitter == nil {
		return nil, fmt.Errorf("assistant: context splitter is required")
	}
	if prompts == nil {
		return nil, fmt.Errorf("assistant: prompt loader is required")
	}
	return &Assistant{provider: provider, limiter: limiter, splitter: splitter, prompts: prompts}, nil
}

// GenerateRule produces a complete DRL rule for the given requirements.
//
// Context that fits one chunk is sent as a single request. Larger context is
// split and the rule is refined iteratively: the first chunk produces a
// draft, every later chunk revises it. Each request passes through the rate
// limiter before it is sent.
func (a *Assistant) GenerateRule(ctx context.Context, docs []chunker.Document, requirements string) (string, error) {
	chunks := a.splitter.Split(docs)

	if len(chunks) <= 1 {
		contextText := ""
		if len(chunks) == 1 {
			contextText = chunks[0].Text()
		}
		p, err := a.prompts.Render(prompt.TemplateGenerate, map[string]string{
			"context":      contextText,
			"requirements": requirements,
		})
		if err != nil {
			return "", err
		}
		out, err := a.send(ctx, p)
		if err != nil {
			return "", fmt.Errorf("generate rule: %w", err)
		}
		return CleanResponse(out), nil
	}

	log.Printf("[Assistant] context split into %d chunks, refining the rule iteratively", len(chunks))
	var draft string
	for i, chunk := range chunks {
		vars := map[string]string{
			"part":         strconv.Itoa(chunk.Index),
			"total":        strconv.Itoa(chunk.Total),
			"context":      chunk.Text(),
			"requirements": requirements,
		}
		name := prompt.TemplateGeneratePart
		if i > 0 {
			name = prompt.TemplateGenerateRefine
			vars["draft"] = draft
		}
		p, err := a.prompts.Render(name, vars)
		if err != nil {
			return "", err
		}
		out, err := a.send(ctx, p)
		if err != nil {
			return "", fmt.Errorf("generate rule (part %d/%d): %w", chunk.Index, chunk.Total, err)
		}
		draft = CleanResponse(out)
	}
	return draft, nil
}

// AnalyzeRule reviews a DRL rule against the repository context and returns
// the structured analysis. Context beyond the first chunk is dropped; the
// rule under review always travels whole.
func (a *Assistant) AnalyzeRule(ctx context.Context, docs []chunker.Document, rule string) (*Analysis, error) {
	chunks := a.splitter.Split(docs)
	contextText := ""
	if len(chunks) > 0 {
		contextText = chunks[0].Text()
		if len(chunks) > 1 {
			log.Printf("[Assistant] context has %d chunks, analyzing against the first", len(chunks))
		}
	}
	p, err := a.prompts.Render(prompt.TemplateAnalyze, map[string]string{
		"context": contextText,
		"rule":    rule,
	})
	if err != nil {
		return nil, err
	}
	out, err := a.send(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("analyze rule: %w", err)
	}
	return ParseAnalysis(CleanResponse(out)), nil
}

// send rate-limits one prompt and returns the model's reply text.
func (a *Assistant) send(ctx context.Context, text string) (string, error) {
	if err := a.limiter.Acquire(ctx, tokens.Estimate(text)); err != nil {
		return "", err
	}
	reply, err := a.provider.CallLLM(ctx, []llm.Message{{Role: llm.RoleUser, Content: text}})
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}
