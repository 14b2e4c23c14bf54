package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/winbetball/betball/internal/platform/cache"
	"github.com/winbetball/betball/internal/platform/logging"
	"github.com/winbetball/betball/internal/platform/resilience"
	"github.com/winbetball/betball/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.football-data.org/v4"
	defaultTimeout  = 15 * time.Second
	defaultCacheTTL = 10 * time.Minute
	maxBodyBytes    = 4 << 20
)

var authTokenHeaderRegex = regexp.MustCompile(`X-Auth-Token:\s*\S+`)
var errProviderTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	CacheTTL   time.Duration
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client talks to the football-data.org v4 API. Competition rosters are
// cached because they change rarely; match lookups always hit the API so
// the result poller sees fresh status.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	breakerEnabled bool
	teamsCache     *cache.Store
	flight         resilience.Flight
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
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	breakerCfg := cfg.Breaker.Normalized()

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewBreaker(breakerCfg),
		breakerEnabled: breakerCfg.Enabled,
		teamsCache:     cache.NewStore(cacheTTL),
	}
}

type teamItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Crest string `json:"crest"`
	Area  struct {
		Name string `json:"name"`
	} `json:"area"`
}

type competitionTeamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type matchEnvelope struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Score  struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

func (c *Client) FetchCompetitionTeams(ctx context.Context, competitionID int64) ([]usecase.ExternalTeam, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}

	cacheKey := fmt.Sprintf("competition-teams:%d", competitionID)
	out, err := c.teamsCache.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		path := fmt.Sprintf("/competitions/%d/teams", competitionID)

		var envelope competitionTeamsEnvelope
		if err := c.doJSON(ctx, path, &envelope); err != nil {
			return nil, fmt.Errorf("fetch competition teams competition_id=%d: %w", competitionID, err)
		}

		teams := make([]usecase.ExternalTeam, 0, len(envelope.Teams))
		for _, item := range envelope.Teams {
			if item.ID <= 0 || strings.TrimSpace(item.Name) == "" {
				continue
			}
			teams = append(teams, usecase.ExternalTeam{
				DataID: item.ID,
				Name:   strings.TrimSpace(item.Name),
				Emblem: strings.TrimSpace(item.Crest),
				Area:   strings.TrimSpace(item.Area.Name),
			})
		}
		return teams, nil
	})
	if err != nil {
		return nil, err
	}

	teams, ok := out.([]usecase.ExternalTeam)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", out)
	}
	return teams, nil
}

func (c *Client) FetchMatch(ctx context.Context, matchID int64) (usecase.ExternalMatch, error) {
	if matchID <= 0 {
		return usecase.ExternalMatch{}, fmt.Errorf("match id must be greater than zero")
	}

	path := fmt.Sprintf("/matches/%d", matchID)

	var envelope matchEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("fetch match match_id=%d: %w", matchID, err)
	}

	return usecase.ExternalMatch{
		DataID:    envelope.ID,
		Status:    strings.ToUpper(strings.TrimSpace(envelope.Status)),
		HomeScore: envelope.Score.FullTime.Home,
		AwayScore: envelope.Score.FullTime.Away,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.breakerEnabled {
			if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
				c.breaker.MarkFailure()
			} else {
				c.breaker.MarkSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
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

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return authTokenHeaderRegex.ReplaceAllString(value, "X-Auth-Token: REDACTED")
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
