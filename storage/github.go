package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/ruteri/shamir-reconstruct/interfaces"
)

const defaultGitHubAPI = "https://api.github.com"

// GitHubBackend reads archived objects committed to a repository through the
// contents API. It is read-only: payloads are published by committing
// "<dir>/<content type>/<hex id>" files.
type GitHubBackend struct {
	owner   string
	repo    string
	dir     string
	ref     string
	token   string
	apiBase string
	client  *http.Client
	log     *slog.Logger
}

type gitHubContent struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	Size     int    `json:"size"`
}

func NewGitHubBackend(owner, repo, dir, ref, token string, log *slog.Logger) *GitHubBackend {
	return &GitHubBackend{
		owner:   owner,
		repo:    repo,
		dir:     strings.Trim(dir, "/"),
		ref:     ref,
		token:   token,
		apiBase: defaultGitHubAPI,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// WithAPIBase points the backend at a GitHub Enterprise instance or a test server.
func (b *GitHubBackend) WithAPIBase(base string) *GitHubBackend {
	b.apiBase = strings.TrimSuffix(base, "/")
	return b
}

func (b *GitHubBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", b.apiBase, b.owner, b.repo, objectKey(b.dir, id, contentType))
	if b.ref != "" {
		url += "?ref=" + b.ref
	}

	resp, err := b.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, interfaces.ErrContentNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("GitHub API error: %s, %s", resp.Status, string(body))
	}

	var content gitHubContent
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, fmt.Errorf("failed to decode contents response: %w", err)
	}
	if content.Type != "file" || content.Encoding != "base64" {
		return nil, fmt.Errorf("unexpected GitHub content type %q with encoding %q", content.Type, content.Encoding)
	}

	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}
	if err := verifyContent(id, data); err != nil {
		b.log.Warn("Content hash mismatch", slog.String("content_id", id.String()))
		return nil, err
	}

	b.log.Debug("Fetched content from GitHub",
		slog.String("content_id", id.Short()),
		slog.Int("size", len(data)))

	return data, nil
}

func (b *GitHubBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	return interfaces.ComputeID(data), interfaces.ErrReadOnlyBackend
}

func (b *GitHubBackend) Available(ctx context.Context) bool {
	resp, err := b.get(ctx, fmt.Sprintf("%s/repos/%s/%s", b.apiBase, b.owner, b.repo))
	if err != nil {
		b.log.Debug("GitHub backend unavailable", "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b.log.Debug("GitHub backend unavailable", slog.String("status", resp.Status))
		return false
	}
	return true
}

func (b *GitHubBackend) Name() string {
	return fmt.Sprintf("github-%s-%s", b.owner, b.repo)
}

func (b *GitHubBackend) LocationURI() string {
	uri := fmt.Sprintf("github://%s/%s/%s", b.owner, b.repo, b.dir)
	if b.ref != "" {
		uri += "?ref=" + b.ref
	}
	return uri
}

func (b *GitHubBackend) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.client.Do(req)
}
