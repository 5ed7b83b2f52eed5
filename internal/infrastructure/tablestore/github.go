package tablestore

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/acordafut/standings-engine/internal/platform/logging"
	"github.com/acordafut/standings-engine/internal/usecase"
)

const defaultGitHubAPIBaseURL = "https://api.github.com"

var errGitHubTransient = crerr.New("github transient failure")
var bearerTokenRegex = regexp.MustCompile(`(?i)(authorization:?\s*(bearer|token)\s+)\S+`)

type GitHubStoreConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Repo       string
	Branch     string
	MaxRetries int
	Logger     *logging.Logger
}

// GitHubStore keeps table text as files in a git repository via the contents
// API. The change token is the blob SHA: Put sends it back so a concurrent
// edit surfaces as a 409 instead of a silent overwrite.
type GitHubStore struct {
	httpClient *http.Client
	baseURL    string
	token      string
	repo       string
	branch     string
	maxRetries int
	logger     *logging.Logger
}

func NewGitHubStore(cfg GitHubStoreConfig) (*GitHubStore, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if strings.Count(strings.Trim(cfg.Repo, "/"), "/") != 1 {
		return nil, fmt.Errorf("github repo must be owner/name, got %q", cfg.Repo)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultGitHubAPIBaseURL
	}
	branch := strings.TrimSpace(cfg.Branch)
	if branch == "" {
		branch = "main"
	}

	return &GitHubStore{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		repo:       strings.Trim(cfg.Repo, "/"),
		branch:     branch,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

func (s *GitHubStore) Get(ctx context.Context, path string) (string, string, error) {
	raw, status, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", "", err
	}
	if status == http.StatusNotFound {
		return "", "", fmt.Errorf("%w: path=%s", usecase.ErrNotFound, path)
	}

	var body contentsResponse
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return "", "", fmt.Errorf("decode contents response: %w", err)
	}
	if body.Encoding != "base64" {
		return "", "", fmt.Errorf("unexpected contents encoding %q", body.Encoding)
	}

	// The API wraps base64 at 60 columns.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return "", "", fmt.Errorf("decode contents blob: %w", err)
	}
	return string(decoded), body.SHA, nil
}

func (s *GitHubStore) Put(ctx context.Context, path, text, token, message string) (string, error) {
	payload, err := sonic.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(text)),
		SHA:     token,
		Branch:  s.branch,
	})
	if err != nil {
		return "", fmt.Errorf("encode contents request: %w", err)
	}

	raw, status, err := s.do(ctx, http.MethodPut, path, payload)
	if err != nil {
		return "", err
	}
	if status == http.StatusConflict {
		return "", fmt.Errorf("change token is stale for path=%s", path)
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: path=%s", usecase.ErrNotFound, path)
	}

	var body putResponse
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode contents response: %w", err)
	}
	if body.Content.SHA == "" {
		return "", fmt.Errorf("contents response carried no blob sha")
	}
	return body.Content.SHA, nil
}

// do returns the body and status for 2xx plus the statuses the callers
// handle (404, 409); everything else is an error, retried when transient.
func (s *GitHubStore) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	fullURL := fmt.Sprintf("%s/repos/%s/contents/%s", s.baseURL, s.repo, strings.TrimLeft(path, "/"))
	if method == http.MethodGet {
		fullURL += "?ref=" + url.QueryEscape(s.branch)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = strings.NewReader(string(payload))
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
		if err != nil {
			return nil, 0, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/vnd.github+json")
		req.Header.Set("authorization", "Bearer "+s.token)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errGitHubTransient, s.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errGitHubTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300,
				resp.StatusCode == http.StatusNotFound,
				resp.StatusCode == http.StatusConflict:
				return raw, resp.StatusCode, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: github status=%d", errGitHubTransient, resp.StatusCode)
			default:
				return nil, 0, fmt.Errorf("github status=%d body=%s", resp.StatusCode, s.sanitize(abbreviateBody(raw)))
			}
		}

		if attempt == s.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, 0, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("github request failed")
	}
	s.logger.WarnContext(ctx, "github contents request failed", "method", method, "path", path, "error", lastErr)
	if stderrors.Is(lastErr, errGitHubTransient) {
		return nil, 0, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, lastErr)
	}
	return nil, 0, lastErr
}

func (s *GitHubStore) sanitize(value string) string {
	if s.token != "" {
		value = strings.ReplaceAll(value, s.token, "REDACTED")
	}
	return bearerTokenRegex.ReplaceAllString(value, "${1}REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
