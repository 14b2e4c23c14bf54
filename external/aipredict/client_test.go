package aipredict

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/winbetball/betball/internal/platform/resilience"
	"github.com/winbetball/betball/internal/usecase"
)

func TestPredictScore_SendsAPIKeyAndParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/messages" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "api-secret" {
			t.Fatalf("unexpected x-api-key: %s", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Fatal("expected anthropic-version header")
		}

		var req map[string]any
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["model"] != "test-model" {
			t.Fatalf("unexpected model: %v", req["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "{\"home_score\": 2, \"away_score\": 1}"}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		APIKey:     "api-secret",
		Model:      "test-model",
		Breaker:    resilience.BreakerConfig{Enabled: false},
	})

	prediction, err := client.PredictScore(context.Background(), usecase.MatchContext{
		Team1: "Persija Jakarta",
		Team2: "Persib Bandung",
	})
	if err != nil {
		t.Fatalf("predict score failed: %v", err)
	}

	if prediction.Team1Score != 2 || prediction.Team2Score != 1 {
		t.Fatalf("unexpected prediction: %+v", prediction)
	}
}

func TestPredictScore_ExtractsJSONFromProse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "Here is my prediction:\n{\"home_score\": 0, \"away_score\": 3}\nGood luck!"}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Breaker:    resilience.BreakerConfig{Enabled: false},
	})

	prediction, err := client.PredictScore(context.Background(), usecase.MatchContext{
		Team1: "PSM Makassar",
		Team2: "Bali United",
	})
	if err != nil {
		t.Fatalf("predict score failed: %v", err)
	}

	if prediction.Team1Score != 0 || prediction.Team2Score != 3 {
		t.Fatalf("unexpected prediction: %+v", prediction)
	}
}

func TestPredictScore_RejectsMalformedAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{name: "no JSON", text: "probably a draw"},
		{name: "missing side", text: `{"home_score": 2}`},
		{name: "negative score", text: `{"home_score": -1, "away_score": 0}`},
		{name: "out of range", text: `{"home_score": 2, "away_score": 100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := sonic.Marshal(map[string]any{
				"content": []map[string]any{{"type": "text", "text": tt.text}},
			})
			if err != nil {
				t.Fatalf("marshal stub body: %v", err)
			}

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(body)
			}))
			defer srv.Close()

			client := NewClient(ClientConfig{
				HTTPClient: srv.Client(),
				BaseURL:    srv.URL,
				Breaker:    resilience.BreakerConfig{Enabled: false},
			})

			if _, err := client.PredictScore(context.Background(), usecase.MatchContext{
				Team1: "Arema FC",
				Team2: "Persebaya Surabaya",
			}); err == nil {
				t.Fatal("expected error for malformed answer")
			}
		})
	}
}

func TestPredictScore_RequiresTeamNames(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		BaseURL: "http://127.0.0.1:0",
		Breaker: resilience.BreakerConfig{Enabled: false},
	})

	if _, err := client.PredictScore(context.Background(), usecase.MatchContext{Team1: "Only One"}); err == nil {
		t.Fatal("expected error when a team name is missing")
	}
}

func TestExtractJSONObject_Balanced(t *testing.T) {
	t.Parallel()

	got, err := extractJSONObject("prefix {\"a\": {\"b\": 1}} suffix")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got != `{"a": {"b": 1}}` {
		t.Fatalf("unexpected extraction: %q", got)
	}

	if _, err := extractJSONObject("{\"a\": 1"); err == nil {
		t.Fatal("expected error for unterminated object")
	}
}
