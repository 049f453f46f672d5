package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/D1992S/budzet/internal/config"
	"github.com/D1992S/budzet/internal/contextutil"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/D1992S/budzet/logging"
	"google.golang.org/genai"
)

// GeminiProvider talks to the Gemini API. Unlike the OpenAI path it
// sends documents as native inline blobs instead of base64 text inside
// the prompt.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

func NewGeminiProvider(ctx context.Context, cfg *config.Config) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		model:       cfg.GeminiModel,
		temperature: cfg.AITemperature,
		maxTokens:   cfg.AIMaxTokens,
		timeout:     cfg.AITimeout,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func geminiTransactionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transactions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date":        {Type: genai.TypeString},
						"amount":      {Type: genai.TypeNumber},
						"type":        {Type: genai.TypeString, Enum: []string{finance.TypeIncome, finance.TypeExpense}},
						"category":    {Type: genai.TypeString, Enum: finance.Categories},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"date", "amount", "type", "category", "description"},
				},
			},
		},
		Required: []string{"transactions"},
	}
}

func (p *GeminiProvider) generate(ctx context.Context, systemPrompt string, parts []*genai.Part, cfgExtra func(*genai.GenerateContentConfig)) (string, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       genai.Ptr(float32(p.temperature)),
		MaxOutputTokens:   int32(p.maxTokens),
	}
	if cfgExtra != nil {
		cfgExtra(genCfg)
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, genCfg)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | model request failed in GeminiProvider.generate() | Error: %v", traceID, err)
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrUpstream,
			Message: "The model provider could not be reached.",
		}
	}

	text := resp.Text()
	if text == "" {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrUpstream,
			Message: "The model returned no content.",
		}
	}
	return text, nil
}

func (p *GeminiProvider) Advise(ctx context.Context, req AdviceRequest) (string, error) {
	payload, err := buildAdvicePayload(req)
	if err != nil {
		return "", fmt.Errorf("failed to build advice payload: %w", err)
	}

	return p.generate(ctx, advisorSystemPrompt, []*genai.Part{{Text: string(payload)}}, nil)
}

func (p *GeminiProvider) ParseDocument(ctx context.Context, req DocumentRequest) ([]TransactionDraft, error) {
	document, err := base64.StdEncoding.DecodeString(req.FileBase64)
	if err != nil {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "The document is not valid base64.",
		}
	}

	parts := []*genai.Part{
		{Text: fmt.Sprintf("Przeanalizuj dokument finansowy. Kategorie dozwolone: %s.", strings.Join(finance.Categories, ", "))},
		{InlineData: &genai.Blob{MIMEType: req.MimeType, Data: document}},
	}

	content, err := p.generate(ctx, documentParserSystemPrompt, parts, func(cfg *genai.GenerateContentConfig) {
		cfg.Temperature = genai.Ptr(float32(0))
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = geminiTransactionSchema()
	})
	if err != nil {
		return nil, err
	}

	var extracted extractedTransactions
	if err := extractJSONContent(content, &extracted); err != nil {
		return nil, err
	}
	if extracted.Transactions == nil {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrUpstream,
			Message: "The model response is missing the transaction list.",
		}
	}
	return extracted.Transactions, nil
}
