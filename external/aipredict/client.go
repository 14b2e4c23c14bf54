package aipredict

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/platform/logging"
	"github.com/winbetball/betball/internal/platform/resilience"
	"github.com/winbetball/betball/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 128
	apiVersion       = "2023-06-01"
	maxBodyBytes     = 1 << 20
)

var errPredictorTransient = crerr.New("predictor transient failure")

const systemPrompt = `You predict final scores of football matches. ` +
	`Answer with a single JSON object {"home_score": <int>, "away_score": <int>} and nothing else. ` +
	`Scores are whole numbers between 0 and 99.`

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client asks an LLM for a match score over the Anthropic messages API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	maxTokens      int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	breakerEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	breakerCfg := cfg.Breaker.Normalized()

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          model,
		maxTokens:      maxTokens,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewBreaker(breakerCfg),
		breakerEnabled: breakerCfg.Enabled,
	}
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []messageItem `json:"messages"`
}

type messageItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type predictedScore struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

func (c *Client) PredictScore(ctx context.Context, match usecase.MatchContext) (bet.Prediction, error) {
	if strings.TrimSpace(match.Team1) == "" || strings.TrimSpace(match.Team2) == "" {
		return bet.Prediction{}, fmt.Errorf("both team names are required")
	}

	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "predictor circuit breaker rejected request", "state", c.breaker.State())
			return bet.Prediction{}, fmt.Errorf("%w: score predictor is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	raw, err := c.executeRequest(ctx, buildPrompt(match))
	if c.breakerEnabled {
		if err != nil && crerr.Is(err, errPredictorTransient) {
			c.breaker.MarkFailure()
		} else {
			c.breaker.MarkSuccess()
		}
	}
	if err != nil {
		return bet.Prediction{}, err
	}

	prediction, err := parsePrediction(raw)
	if err != nil {
		return bet.Prediction{}, err
	}

	c.logger.InfoContext(ctx, "score predicted",
		"team1", match.Team1,
		"team2", match.Team2,
		"prediction", fmt.Sprintf("%d-%d", prediction.Team1Score, prediction.Team2Score),
	)
	return prediction, nil
}

func buildPrompt(match usecase.MatchContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Predict the final score of %s vs %s.", match.Team1, match.Team2)
	if strings.TrimSpace(match.TournamentName) != "" {
		fmt.Fprintf(&b, " Competition: %s.", match.TournamentName)
	}
	if strings.TrimSpace(match.Title) != "" {
		fmt.Fprintf(&b, " Billed as: %s.", match.Title)
	}
	return b.String()
}

func (c *Client) executeRequest(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := sonic.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages:  []messageItem{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	fullURL := c.baseURL + "/v1/messages"
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("anthropic-version", apiVersion)
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errPredictorTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errPredictorTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: predictor status=%d", errPredictorTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("predictor status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("predictor request failed")
	}
	c.logger.WarnContext(ctx, "predictor request failed", "error", lastErr)
	return nil, lastErr
}

func parsePrediction(raw []byte) (bet.Prediction, error) {
	var envelope messagesResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return bet.Prediction{}, fmt.Errorf("decode predictor payload: %w", err)
	}

	var text string
	for _, block := range envelope.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return bet.Prediction{}, fmt.Errorf("predictor returned no text content")
	}

	jsonPart, err := extractJSONObject(text)
	if err != nil {
		return bet.Prediction{}, err
	}

	var score predictedScore
	if err := sonic.Unmarshal([]byte(jsonPart), &score); err != nil {
		return bet.Prediction{}, fmt.Errorf("decode predicted score %q: %w", jsonPart, err)
	}
	if score.HomeScore == nil || score.AwayScore == nil {
		return bet.Prediction{}, fmt.Errorf("predicted score is missing a side: %q", jsonPart)
	}
	if *score.HomeScore < 0 || *score.AwayScore < 0 || *score.HomeScore > 99 || *score.AwayScore > 99 {
		return bet.Prediction{}, fmt.Errorf("predicted score out of range: %d-%d", *score.HomeScore, *score.AwayScore)
	}

	return bet.Prediction{
		Team1Score: *score.HomeScore,
		Team2Score: *score.AwayScore,
	}, nil
}

// extractJSONObject pulls the first balanced {...} out of model text, which
// may wrap the object in prose or a code fence.
func extractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("predictor response contains no JSON object: %q", strings.TrimSpace(text))
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("predictor response contains an unterminated JSON object")
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
