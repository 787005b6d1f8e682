package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Fusion weights per query class.
const (
	alphaFactual    = 0.3
	alphaConceptual = 0.7
)

// classifyTimeout bounds the optional LLM classification call. The search
// path never blocks on classification longer than this.
const classifyTimeout = 3 * time.Second

// conceptualCues are words that signal abstract, paraphrasable intent.
var conceptualCues = map[string]bool{
	"how": true, "why": true, "explain": true, "describe": true,
	"compare": true, "relate": true, "relationship": true,
	"difference": true, "overview": true, "meaning": true,
	"concept": true, "understand": true, "summarize": true,
	"summarise": true, "works": true, "purpose": true,
}

// Analyzer classifies queries to choose a fusion weight.
// Classification is stateless per call. The LLM service is optional; any
// failure or timeout falls back to the rule-based result.
type Analyzer struct {
	llm          driven.LLMService
	defaultAlpha float64
}

// NewAnalyzer creates a query analyzer. llm may be nil for rule-based-only
// classification. defaultAlpha is used for mixed/uncertain queries.
func NewAnalyzer(llm driven.LLMService, defaultAlpha float64) *Analyzer {
	if defaultAlpha < 0 || defaultAlpha > 1 {
		defaultAlpha = 0.5
	}
	return &Analyzer{llm: llm, defaultAlpha: defaultAlpha}
}

// Analyze classifies a query and derives its fusion weight.
// It never returns an error: the rule-based fallback always produces a
// result.
func (a *Analyzer) Analyze(ctx context.Context, query string) domain.QueryAnalysis {
	class := a.classifyRuleBased(query)

	if a.llm != nil {
		if llmClass, ok := a.classifyLLM(ctx, query); ok {
			class = llmClass
		}
	}

	return domain.QueryAnalysis{Class: class, Alpha: a.alphaFor(class)}
}

// alphaFor maps a query class to its dense weight.
func (a *Analyzer) alphaFor(class domain.QueryClass) float64 {
	switch class {
	case domain.QueryClassFactual:
		return alphaFactual
	case domain.QueryClassConceptual:
		return alphaConceptual
	default:
		return a.defaultAlpha
	}
}

// classifyRuleBased applies word-level heuristics: conceptual cue words
// favour dense retrieval; numbers, proper nouns, and short specific queries
// favour sparse retrieval. Conflicting or absent signals yield mixed.
func (a *Analyzer) classifyRuleBased(query string) domain.QueryClass {
	tokens := domain.Tokenize(query)
	if len(tokens) == 0 {
		return domain.QueryClassMixed
	}

	conceptual := false
	for _, tok := range tokens {
		if conceptualCues[tok] {
			conceptual = true
			break
		}
	}

	factual := false
	for _, tok := range tokens {
		if domain.IsNumeric(tok) {
			factual = true
			break
		}
	}
	if !factual && properNounHeavy(query) {
		factual = true
	}
	if !factual && !conceptual && len(tokens) <= 3 {
		// Short keyword queries are lookups, not explanations.
		factual = true
	}

	switch {
	case conceptual && factual:
		return domain.QueryClassMixed
	case conceptual:
		return domain.QueryClassConceptual
	case factual:
		return domain.QueryClassFactual
	default:
		return domain.QueryClassMixed
	}
}

// properNounHeavy reports whether at least half of the non-leading words
// are capitalised.
func properNounHeavy(query string) bool {
	words := strings.Fields(query)
	if len(words) < 2 {
		return false
	}
	capitalised := 0
	for _, w := range words[1:] {
		if w[0] >= 'A' && w[0] <= 'Z' {
			capitalised++
		}
	}
	return capitalised*2 >= len(words)-1
}

// classifyLLM asks the LLM to classify the query, bounded by
// classifyTimeout. Returns ok=false on any failure, timeout, or
// unrecognised reply.
func (a *Analyzer) classifyLLM(ctx context.Context, query string) (domain.QueryClass, bool) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	prompt := "Classify this search query as exactly one of: factual, conceptual, mixed.\n" +
		"factual: specific names, numbers, or terms to look up.\n" +
		"conceptual: asks to explain, compare, or understand something.\n" +
		"mixed: unclear or both.\n\n" +
		"Query: \"" + query + "\"\n\nAnswer with one word."

	reply, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   5,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Query classification failed: %v (using rule-based result)", err)
		return "", false
	}

	class := domain.QueryClass(strings.ToLower(strings.TrimSpace(strings.Trim(reply, ".\"' \n"))))
	if !class.IsValid() {
		logger.Debug("Unrecognised classification reply: %q", reply)
		return "", false
	}
	return class, true
}
