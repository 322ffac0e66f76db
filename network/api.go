package network

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an error response is quoted in errors.
const maxErrorBody = 1024

// APIClient is an HTTP client for the chain API server. It implements Service.
type APIClient struct {
	base   string
	user   string
	pass   string
	client *http.Client
}

var _ Service = (*APIClient)(nil)

// NewAPIClient creates a client for the server in cfg. It uses HTTP Basic
// Auth when User is non-empty and keeps a pool of idle connections.
func NewAPIClient(cfg APIConfig) *APIClient {
	return &APIClient{
		base: strings.TrimRight(cfg.URL, "/"),
		user: cfg.User,
		pass: cfg.Password,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// FetchUnspentOutputs implements Service.
func (c *APIClient) FetchUnspentOutputs(ctx context.Context, address string) (*OutputSet, error) {
	var set OutputSet
	path := "/addresses/outputs/" + url.PathEscape(address) + ".json"
	if err := c.do(ctx, http.MethodGet, path, nil, "", &set); err != nil {
		return nil, err
	}
	for i, u := range set.Outputs {
		if u == nil {
			return nil, fmt.Errorf("%w: output %d is null", ErrInvalidResponse, i)
		}
	}
	log.Debugf("Fetched %d outputs for %s (available %d)", len(set.Outputs), address, set.TotalAvailable)
	return &set, nil
}

// Broadcast implements Service. The transaction is sent hex encoded.
func (c *APIClient) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	if len(rawTx) == 0 {
		return "", fmt.Errorf("%w: empty transaction", ErrBroadcastRejected)
	}
	body, err := json.Marshal(map[string]string{"txHex": hex.EncodeToString(rawTx)})
	if err != nil {
		return "", fmt.Errorf("network: marshal request: %w", err)
	}

	var resp struct {
		Value json.RawMessage `json:"value"`
		Error string          `json:"error"`
	}
	err = c.do(ctx, http.MethodPost, "/broadcast", bytes.NewReader(body), "application/json", &resp)
	if errors.Is(err, ErrRequestRejected) {
		return "", fmt.Errorf("%w: %w", ErrBroadcastRejected, err)
	}
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrBroadcastRejected, resp.Error)
	}

	var value string
	if err := json.Unmarshal(resp.Value, &value); err != nil || value == "" {
		return "", fmt.Errorf("%w: no transaction hash in response", ErrBroadcastRejected)
	}
	log.Infof("Broadcast transaction %s (%d bytes)", value, len(rawTx))
	return value, nil
}

// PushContent implements ContentPusher by posting a JSON document to the
// server's content store.
func (c *APIClient) PushContent(ctx context.Context, content []byte) (string, error) {
	if !json.Valid(content) {
		return "", fmt.Errorf("network: content is not valid JSON")
	}
	return c.pushHash(ctx, "/ipfs/add_json", bytes.NewReader(content), "application/json")
}

// PushFile uploads a file to the server's content store as multipart form data.
func (c *APIClient) PushFile(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("network: create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("network: read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("network: close form: %w", err)
	}
	return c.pushHash(ctx, "/ipfs/add_file", &buf, mw.FormDataContentType())
}

func (c *APIClient) pushHash(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	var resp struct {
		Hash string `json:"hash"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, contentType, &resp); err != nil {
		return "", err
	}
	if resp.Hash == "" {
		return "", fmt.Errorf("%w: no content hash in response", ErrInvalidResponse)
	}
	log.Debugf("Pushed content %s", resp.Hash)
	return resp.Hash, nil
}

// FetchAggregate returns the aggregate values stored for address under keys.
// Keys absent on the server are absent from the result.
func (c *APIClient) FetchAggregate(ctx context.Context, address string, keys ...string) (Aggregate, error) {
	path := "/addresses/aggregates/" + url.PathEscape(address) + ".json"
	if len(keys) > 0 {
		path += "?" + url.Values{"keys": {strings.Join(keys, ",")}}.Encode()
	}
	var resp struct {
		Data Aggregate `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = Aggregate{}
	}
	return resp.Data, nil
}

// FetchAliases returns every registered alias.
func (c *APIClient) FetchAliases(ctx context.Context) ([]Alias, error) {
	var resp struct {
		Aliases []Alias `json:"aliases"`
	}
	if err := c.do(ctx, http.MethodGet, "/addresses/aliases/all.json", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Aliases, nil
}

// CallViewMethod runs a read-only contract method and returns its raw result.
func (c *APIClient) CallViewMethod(ctx context.Context, call ViewCall) (json.RawMessage, error) {
	body, err := json.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("network: marshal request: %w", err)
	}
	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/addresses/contracts/call", bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: no result", ErrInvalidResponse)
	}
	return resp.Result, nil
}

// do sends a request to path and decodes the JSON response into result.
func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("network: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	log.Tracef("%s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: HTTP %d: %s", ErrRequestRejected, resp.StatusCode, string(respBody))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	return nil
}
