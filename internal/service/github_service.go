package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-cleanhttp"

	"devconnector/internal/apperr"
	"devconnector/internal/config"
)

const maxGitHubBody = 4 << 20

type GitHubService interface {
	// Repos returns the upstream JSON listing of username's five oldest
	// public repositories, unchanged.
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

type githubService struct {
	client *http.Client
	cfg    config.GitHub
}

func NewGitHubService(cfg config.GitHub) GitHubService {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = cfg.Timeout

	return &githubService{client: client, cfg: cfg}
}

func (s *githubService) reposURL(username string) string {
	q := url.Values{"per_page": {"5"}, "sort": {"created:asc"}}
	return fmt.Sprintf("%s/users/%s/repos?%s", s.cfg.APIURL, url.PathEscape(username), q.Encode())
}

func (s *githubService) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	const op = "GitHubService.Repos"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.reposURL(username), nil)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	req.Header.Set("User-Agent", "devconnector")
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.cfg.ClientID != "" {
		req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("call github: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NotFound(op, "No Github profile found")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGitHubBody))
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("read github response: %w", err))
	}
	if !json.Valid(body) {
		return nil, apperr.Internal(op, fmt.Errorf("github returned invalid json"))
	}

	return json.RawMessage(body), nil
}
