package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	appErrors "github.com/D1992S/budzet/customErrors"
)

var codeFenceRegex = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// extractJSONContent decodes the model's reply into target. Models
// sometimes wrap JSON in a Markdown code fence despite instructions, so
// a fenced block is tried when the raw content does not parse.
func extractJSONContent(content string, target interface{}) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrUpstream,
			Message: "The model returned an empty response.",
		}
	}

	if err := json.Unmarshal([]byte(trimmed), target); err == nil {
		return nil
	}

	if match := codeFenceRegex.FindStringSubmatch(trimmed); match != nil {
		if err := json.Unmarshal([]byte(match[1]), target); err == nil {
			return nil
		}
	}

	return appErrors.ErrorResponse{
		Code:    appErrors.ErrUpstream,
		Message: "The model response is not valid JSON.",
	}
}
