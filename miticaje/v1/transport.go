package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Response struct {
	Data []byte
}

// Transport handles low-level HTTP and authentication
type Transport struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

// NewTransport creates a transport with base URL and auth. The client-side
// timeout bounds every remote write so a hung server cannot stall a sync pass.
func NewTransport(baseURL, token string) *Transport {
	return &Transport{
		BaseURL:   baseURL,
		AuthToken: token,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// helper: build full URL with query params
func (t *Transport) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(t.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (t *Transport) send(ctx context.Context, method, path string, data any, query map[string]string) (*Response, error) {
	fullURL := t.buildURL(path, query)

	var reader io.Reader
	if data != nil {
		body, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewBuffer(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.AuthToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.AuthToken))
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s %s failed with status code %d: %s", method, path, resp.StatusCode, string(b))
	}

	resdata, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Data: resdata,
	}, nil
}

// Post sends a POST request with JSON body
func (t *Transport) Post(ctx context.Context, path string, data any, query map[string]string) (*Response, error) {
	return t.send(ctx, http.MethodPost, path, data, query)
}

// Put sends a PUT request with JSON body
func (t *Transport) Put(ctx context.Context, path string, data any, query map[string]string) (*Response, error) {
	return t.send(ctx, http.MethodPut, path, data, query)
}

// Get sends a GET request
func (t *Transport) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	return t.send(ctx, http.MethodGet, path, nil, query)
}
