package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/D1992S/budzet/internal/config"
	"github.com/D1992S/budzet/internal/contextutil"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/D1992S/budzet/logging"
)

const openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type OpenAIProvider struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:      cfg.OpenAIKey,
		model:       cfg.OpenAIModel,
		temperature: cfg.AITemperature,
		maxTokens:   cfg.AIMaxTokens,
		client:      &http.Client{Timeout: cfg.AITimeout},
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string                 `json:"model"`
	Temperature    float64                `json:"temperature"`
	MaxTokens      int                    `json:"max_tokens,omitempty"`
	Messages       []chatMessage          `json:"messages"`
	ResponseFormat map[string]interface{} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// transactionSchema constrains the document parser output so category
// and type values can be trusted without a second validation pass.
func transactionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "json_schema",
		"json_schema": map[string]interface{}{
			"name":   "financial_document_transactions",
			"strict": true,
			"schema": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"transactions": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]interface{}{
								"date":        map[string]interface{}{"type": "string"},
								"amount":      map[string]interface{}{"type": "number"},
								"type":        map[string]interface{}{"type": "string", "enum": []string{finance.TypeIncome, finance.TypeExpense}},
								"category":    map[string]interface{}{"type": "string", "enum": finance.Categories},
								"description": map[string]interface{}{"type": "string"},
							},
							"required": []string{"date", "amount", "type", "category", "description"},
						},
					},
				},
				"required": []string{"transactions"},
			},
		},
	}
}

func upstreamError(message string) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrUpstream,
		Message: message,
	}
}

func (p *OpenAIProvider) complete(ctx context.Context, payload chatRequest) (string, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build model request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | model request failed in OpenAIProvider.complete() | Error: %v", traceID, err)
		return "", upstreamError("The model provider could not be reached.")
	}
	defer resp.Body.Close()

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to decode model response in OpenAIProvider.complete() | Error: %v", traceID, err)
		return "", upstreamError("The model provider returned an unreadable response.")
	}

	if resp.StatusCode != http.StatusOK {
		message := "The model provider request failed."
		if completion.Error != nil && completion.Error.Message != "" {
			message = completion.Error.Message
		}
		logging.Logger.Errorf("[TraceID=%s] | model request rejected with status %d in OpenAIProvider.complete() | Error: %s", traceID, resp.StatusCode, message)
		return "", upstreamError(message)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", upstreamError("The model returned no content.")
	}
	return completion.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Advise(ctx context.Context, req AdviceRequest) (string, error) {
	payload, err := buildAdvicePayload(req)
	if err != nil {
		return "", fmt.Errorf("failed to build advice payload: %w", err)
	}

	return p.complete(ctx, chatRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
}

func (p *OpenAIProvider) ParseDocument(ctx context.Context, req DocumentRequest) ([]TransactionDraft, error) {
	content, err := p.complete(ctx, chatRequest{
		Model:       p.model,
		Temperature: 0, // extraction must be deterministic
		MaxTokens:   p.maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: documentParserSystemPrompt},
			{Role: "user", Content: documentUserPrompt(req.MimeType, req.FileBase64)},
		},
		ResponseFormat: transactionSchema(),
	})
	if err != nil {
		return nil, err
	}

	var extracted extractedTransactions
	if err := extractJSONContent(content, &extracted); err != nil {
		return nil, err
	}
	if extracted.Transactions == nil {
		return nil, upstreamError("The model response is missing the transaction list.")
	}
	return extracted.Transactions, nil
}
