package insights

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
)

func TestGeminiClient_Generate(t *testing.T) {
	var gotPath, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.Unmarshal(body, &req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"- Income: 100"},{"text":"\n- Expenses: 40"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), "test-key", "gemini-1.5-flash",
		goption.WithEndpoint(srv.URL+"/"), goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "summarize")
	require.NoError(t, err)

	assert.Equal(t, "- Income: 100\n- Expenses: 40", text)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-1.5-flash:generateContent"), gotPath)
	assert.Equal(t, "summarize", gotPrompt)
}

func TestGeminiClient_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), "test-key", "models/gemini-1.5-flash",
		goption.WithEndpoint(srv.URL+"/"), goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "summarize")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), " ", "gemini-1.5-flash")
	assert.Error(t, err)
}
