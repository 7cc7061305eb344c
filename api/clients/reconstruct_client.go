package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/ruteri/shamir-reconstruct/api"
	"github.com/ruteri/shamir-reconstruct/interfaces"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is returned for non-200 answers from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reconstruction service returned %d: %s", e.StatusCode, e.Message)
}

// ReconstructClient talks to the reconstruction service over HTTP.
type ReconstructClient struct {
	// ServerAddr is the base URL, e.g. http://127.0.0.1:8080.
	ServerAddr string

	// DecimalPlaces, when positive, is passed as the decimal_places parameter.
	DecimalPlaces int

	HTTPClient *http.Client
}

var _ api.ReconstructionProvider = (*ReconstructClient)(nil)

func NewReconstructClient(serverAddr string) *ReconstructClient {
	return &ReconstructClient{
		ServerAddr: strings.TrimSuffix(serverAddr, "/"),
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Reconstruct posts a share payload document.
func (c *ReconstructClient) Reconstruct(payload []byte) (*api.ReconstructResponse, error) {
	return c.ReconstructContext(context.Background(), payload)
}

func (c *ReconstructClient) ReconstructContext(ctx context.Context, payload []byte) (*api.ReconstructResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(""), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// ReconstructArchived asks the service to reconstruct a payload it holds in its archive.
func (c *ReconstructClient) ReconstructArchived(id interfaces.ContentID) (*api.ReconstructResponse, error) {
	return c.ReconstructArchivedContext(context.Background(), id)
}

func (c *ReconstructClient) ReconstructArchivedContext(ctx context.Context, id interfaces.ContentID) (*api.ReconstructResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(id.String()), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *ReconstructClient) endpoint(suffix string) string {
	u := c.ServerAddr + "/api/reconstruct"
	if suffix != "" {
		u += "/" + suffix
	}
	if c.DecimalPlaces > 0 {
		u += "?" + url.Values{api.DecimalPlacesParam: {strconv.Itoa(c.DecimalPlaces)}}.Encode()
	}
	return u
}

func (c *ReconstructClient) do(req *http.Request) (*api.ReconstructResponse, error) {
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach reconstruction service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(body))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	var parsed api.ReconstructResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("could not parse reconstruction response: %w", err)
	}
	return &parsed, nil
}
