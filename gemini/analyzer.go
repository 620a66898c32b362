// Package gemini implements the language-model collaborators on Google
// Gemini: query analysis, per-result extraction and digests.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/locsearch"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when Analyzer.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Ensure Analyzer implements the collaborator interfaces at compile time.
var (
	_ locsearch.QueryAnalyzer   = (*Analyzer)(nil)
	_ locsearch.RecordExtractor = (*Analyzer)(nil)
	_ locsearch.Summarizer      = (*Analyzer)(nil)
)

// Analyzer implements QueryAnalyzer, RecordExtractor and Summarizer.
type Analyzer struct {
	client *genai.Client
	model  string
}

// NewAnalyzer creates a new Analyzer. An empty model selects DefaultModel.
func NewAnalyzer(client *genai.Client, model string) *Analyzer {
	if model == "" {
		model = DefaultModel
	}
	return &Analyzer{client: client, model: model}
}

// AnalyzeQuery detects the query language and returns an optimized rewrite.
func (a *Analyzer) AnalyzeQuery(ctx context.Context, query string) (*locsearch.QueryAnalysis, error) {
	if strings.TrimSpace(query) == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "query required")
	}
	text, err := a.generate(ctx, locsearch.QueryPrompt(query), BuildQueryConfig())
	if err != nil {
		return nil, err
	}
	var out locsearch.QueryAnalysis
	if err := locsearch.DecodeJSONObject(text, &out); err != nil {
		return nil, locsearch.Errorf(locsearch.EPREPROCESS, "gemini: %s", locsearch.ErrorMessage(err))
	}
	if out.Language == "" || strings.TrimSpace(out.Optimized) == "" {
		return nil, locsearch.Errorf(locsearch.EPREPROCESS, "gemini: incomplete query analysis")
	}
	out.Language = strings.ToLower(out.Language)
	return &out, nil
}

// ExtractRecord asks the model for the structured fields of one result.
func (a *Analyzer) ExtractRecord(ctx context.Context, req *locsearch.ExtractionRequest) (*locsearch.ExtractionRecord, error) {
	if req == nil || req.URL == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "extraction URL required")
	}
	text, err := a.generate(ctx, locsearch.ExtractionPrompt(req), BuildExtractionConfig())
	if err != nil {
		return nil, err
	}
	var out locsearch.ExtractionRecord
	if err := locsearch.DecodeJSONObject(text, &out); err != nil {
		return nil, locsearch.Errorf(locsearch.EEXTRACT, "gemini: %s", locsearch.ErrorMessage(err))
	}
	return &out, nil
}

// Summarize writes the digest of a result set.
func (a *Analyzer) Summarize(ctx context.Context, req *locsearch.DigestRequest) (string, error) {
	if req == nil || len(req.Results) == 0 {
		return "", locsearch.Errorf(locsearch.EINVALID, "results required")
	}
	text, err := a.generate(ctx, locsearch.DigestPrompt(req), BuildDigestConfig())
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", locsearch.Errorf(locsearch.ESUMMARY, "gemini returned an empty summary")
	}
	return text, nil
}

func (a *Analyzer) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if a.client == nil {
		return "", locsearch.Errorf(locsearch.ECONFIG, "gemini client not configured")
	}
	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", locsearch.Errorf(locsearch.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", locsearch.Errorf(locsearch.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// BuildQueryConfig returns the config for query analysis: low
// temperature, short JSON output.
func BuildQueryConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.3),
		MaxOutputTokens:  150,
		ResponseMIMEType: "application/json",
	}
}

// BuildExtractionConfig returns the config for per-result extraction.
func BuildExtractionConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		MaxOutputTokens:  400,
		ResponseMIMEType: "application/json",
	}
}

// BuildDigestConfig returns the config for digests, carrying the
// research-assistant system instruction.
func BuildDigestConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: locsearch.DigestSystemPrompt}},
		},
		Temperature:     genai.Ptr[float32](0.7),
		TopP:            genai.Ptr[float32](0.9),
		MaxOutputTokens: 1000,
	}
}
