// Package mistral implements the language-model collaborators on the
// Mistral chat completions API.
package mistral

import (
	"context"
	"net/http"
	"strings"

	"github.com/fwojciec/locsearch"
	lochttp "github.com/fwojciec/locsearch/http"
)

// DefaultBaseURL is the Mistral API root.
const DefaultBaseURL = "https://api.mistral.ai/v1"

// DefaultModel is the chat model used when Analyzer.Model is empty.
const DefaultModel = "mistral-small-latest"

// Ensure Analyzer implements the collaborator interfaces at compile time.
var (
	_ locsearch.QueryAnalyzer   = (*Analyzer)(nil)
	_ locsearch.RecordExtractor = (*Analyzer)(nil)
	_ locsearch.Summarizer      = (*Analyzer)(nil)
)

// Analyzer implements QueryAnalyzer, RecordExtractor and Summarizer.
type Analyzer struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *lochttp.JSONClient
}

// NewAnalyzer returns an Analyzer with default endpoint and model.
func NewAnalyzer(apiKey string) *Analyzer {
	return &Analyzer{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		Client:  lochttp.NewJSONClient("mistral"),
	}
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are the sampling settings of one completion.
type Params struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	JSON        bool
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Query analysis, extraction and digest sampling settings.
var (
	QueryParams      = Params{Temperature: 0.3, MaxTokens: 150, JSON: true}
	ExtractionParams = Params{Temperature: 0.2, MaxTokens: 400, JSON: true}
	DigestParams     = Params{Temperature: 0.7, MaxTokens: 1000, TopP: 0.9}
)

// AnalyzeQuery detects the query language and returns an optimized rewrite.
func (a *Analyzer) AnalyzeQuery(ctx context.Context, query string) (*locsearch.QueryAnalysis, error) {
	if strings.TrimSpace(query) == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "query required")
	}
	text, err := a.Complete(ctx, []Message{{Role: "user", Content: locsearch.QueryPrompt(query)}}, QueryParams)
	if err != nil {
		return nil, err
	}
	var out locsearch.QueryAnalysis
	if err := locsearch.DecodeJSONObject(text, &out); err != nil {
		return nil, locsearch.Errorf(locsearch.EPREPROCESS, "mistral: %s", locsearch.ErrorMessage(err))
	}
	if out.Language == "" || strings.TrimSpace(out.Optimized) == "" {
		return nil, locsearch.Errorf(locsearch.EPREPROCESS, "mistral: incomplete query analysis")
	}
	out.Language = strings.ToLower(out.Language)
	return &out, nil
}

// ExtractRecord asks the model for the structured fields of one result.
func (a *Analyzer) ExtractRecord(ctx context.Context, req *locsearch.ExtractionRequest) (*locsearch.ExtractionRecord, error) {
	if req == nil || req.URL == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "extraction URL required")
	}
	text, err := a.Complete(ctx, []Message{{Role: "user", Content: locsearch.ExtractionPrompt(req)}}, ExtractionParams)
	if err != nil {
		return nil, err
	}
	var out locsearch.ExtractionRecord
	if err := locsearch.DecodeJSONObject(text, &out); err != nil {
		return nil, locsearch.Errorf(locsearch.EEXTRACT, "mistral: %s", locsearch.ErrorMessage(err))
	}
	return &out, nil
}

// Summarize writes the digest of a result set.
func (a *Analyzer) Summarize(ctx context.Context, req *locsearch.DigestRequest) (string, error) {
	if req == nil || len(req.Results) == 0 {
		return "", locsearch.Errorf(locsearch.EINVALID, "results required")
	}
	text, err := a.Complete(ctx, []Message{
		{Role: "system", Content: locsearch.DigestSystemPrompt},
		{Role: "user", Content: locsearch.DigestPrompt(req)},
	}, DigestParams)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", locsearch.Errorf(locsearch.ESUMMARY, "mistral returned an empty summary")
	}
	return text, nil
}

// Complete sends one chat completion and returns the first choice.
func (a *Analyzer) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	if a.APIKey == "" {
		return "", locsearch.Errorf(locsearch.ECONFIG, "mistral API key not configured")
	}
	model := a.Model
	if model == "" {
		model = DefaultModel
	}
	req := completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		TopP:        p.TopP,
	}
	if p.JSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+a.APIKey)

	var resp completionResponse
	if err := a.Client.Do(ctx, http.MethodPost, a.BaseURL+"/chat/completions", header, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", locsearch.Errorf(locsearch.ESOURCE, "mistral returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
