package ai

import (
	"testing"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		wantLen int
	}{
		{
			name:    "Bare JSON",
			content: `{"transactions": [{"date": "2026-03-01", "amount": 25.5, "type": "expense", "category": "Jedzenie", "description": "obiad"}]}`,
			wantLen: 1,
		},
		{
			name:    "JSON Code Fence",
			content: "Oto wynik:\n```json\n{\"transactions\": [{\"date\": \"2026-03-01\", \"amount\": 25.5, \"type\": \"expense\", \"category\": \"Jedzenie\", \"description\": \"obiad\"}]}\n```",
			wantLen: 1,
		},
		{
			name:    "Plain Code Fence",
			content: "```\n{\"transactions\": []}\n```",
			wantLen: 0,
		},
		{
			name:    "Empty Content",
			content: "   ",
			wantErr: true,
		},
		{
			name:    "Not JSON At All",
			content: "Niestety nie mogę przeanalizować tego dokumentu.",
			wantErr: true,
		},
		{
			name:    "Broken JSON In Fence",
			content: "```json\n{\"transactions\": [\n```",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var extracted extractedTransactions
			err := extractJSONContent(tt.content, &extracted)

			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, appErrors.ErrUpstream, appErrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, extracted.Transactions, tt.wantLen)
		})
	}
}

func TestBuildAdvicePayload(t *testing.T) {
	payload, err := buildAdvicePayload(AdviceRequest{UserQuery: "Jak oszczędzać?"})
	require.NoError(t, err)

	// Empty collections stay arrays in the model message.
	require.Contains(t, string(payload), `"goals": []`)
	require.Contains(t, string(payload), `"recentTransactions": []`)
	require.Contains(t, string(payload), `"userQuery": "Jak oszczędzać?"`)
}
