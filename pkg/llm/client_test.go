package llm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dtnitsch/llm-web-summarizer/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	config := models.DefaultConfig()
	config.APIKey = "test-key"
	config.APIBase = baseURL
	client := NewClient(config, testLogger())
	client.retryWait = time.Millisecond
	return client
}

const completionBody = `{
	"id": "cmpl-1",
	"object": "chat.completion",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "a fine summary"}, "finish_reason": "stop"}]
}`

func TestCompleteReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != "a fine summary" {
		t.Errorf("Complete() = %q, want %q", got, "a fine summary")
	}
}

func TestCompleteRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() failed after retries: %v", err)
	}
	if got != "a fine summary" {
		t.Errorf("Complete() = %q, want %q", got, "a fine summary")
	}
	if calls.Load() != 3 {
		t.Errorf("backend called %d times, want 3", calls.Load())
	}
}

func TestCompleteExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Complete(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("Complete() succeeded, want terminal error")
	}
	if calls.Load() != defaultMaxAttempts {
		t.Errorf("backend called %d times, want %d", calls.Load(), defaultMaxAttempts)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error %q does not mention exhausted attempts", err)
	}
}

func TestCompleteCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.retryWait = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Complete(ctx, "system", "user")
	if err == nil {
		t.Fatal("Complete() succeeded with cancelled context")
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    openai.ChatCompletionResponse
		want    string
		wantErr bool
	}{
		{
			name: "plain content",
			resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "  text with padding  "}},
			}},
			want: "text with padding",
		},
		{
			name: "multi-part content",
			resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "part one"},
					{Type: openai.ChatMessagePartTypeText, Text: "part two"},
				}}},
			}},
			want: "part one\npart two",
		},
		{
			name:    "no choices",
			resp:    openai.ChatCompletionResponse{},
			wantErr: true,
		},
		{
			name: "empty message",
			resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{}},
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("responseText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("responseText() = %q, want %q", got, tt.want)
			}
		})
	}
}
