package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/printhub/reporthub/models"
)

func testReport() *models.Report {
	return &models.Report{
		ID:        "11111111-1111-1111-1111-111111111111",
		Title:     "Solar Energy in Rural India",
		Topic:     "solar microgrids",
		Pages:     12,
		PrintSide: models.PrintSideDouble,
		Status:    models.ReportStatusGenerating,
	}
}

func newTestGenerator(endpoint string) *Generator {
	g := NewGenerator("test-key", "gpt-4o")
	g.endpoint = endpoint
	return g
}

func TestGenerateSuccess(t *testing.T) {
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  <h1>Solar Energy</h1>...  "}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	content, err := newTestGenerator(server.URL).Generate(context.Background(), testReport())
	require.NoError(t, err)
	assert.Equal(t, "<h1>Solar Energy</h1>...", content)

	assert.Equal(t, "gpt-4o", gotPayload["model"])
	messages := gotPayload["messages"].([]any)
	require.Len(t, messages, 2)
	userMsg := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, userMsg, "solar microgrids")
	assert.Contains(t, userMsg, "12-page report")
	assert.Contains(t, userMsg, "Additional instructions: None")
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), testReport())
	assert.Error(t, err)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	g := NewGenerator("", "")
	_, err := g.Generate(context.Background(), testReport())
	assert.Error(t, err)
}
