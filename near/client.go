package near

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig holds the RPC client settings. Zero values fall back to the
// defaults below.
type ClientConfig struct {
	Endpoint       string
	MaxRetries     int
	BaseRetryDelay time.Duration
	HTTPClient     *http.Client
}

// Client is a minimal NEAR JSON-RPC 2.0 client, sufficient for contract
// function calls.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseRetryDelay == 0 {
		cfg.BaseRetryDelay = 2 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// NewClientFromSettings builds a client for the endpoint resolved at
// process start.
func NewClientFromSettings() *Client {
	return NewClient(ClientConfig{Endpoint: resolved.RPCURL})
}

// RPCError is an error object returned by the NEAR RPC.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("near rpc: %d %s %s", e.Code, e.Message, e.Data)
}

// HTTPError is a non-200 response from the RPC endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("near rpc: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable reports whether the request can be retried: rate limits and
// server errors.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// CallResult is the outcome of a contract function call.
type CallResult struct {
	Result []byte `json:"result"`
}

// ViewFunction invokes method on the contract with JSON args through the
// RPC's read-only call_function query, retrying transient failures with
// exponential backoff. State-changing contract calls need a signed
// transaction and are outside this client's scope.
func (c *Client) ViewFunction(ctx context.Context, contractID, method string, args interface{}) (*CallResult, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("no rpc endpoint configured")
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	params := map[string]interface{}{
		"request_type": "call_function",
		"finality":     "final",
		"account_id":   contractID,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(argsJSON),
	}

	var lastErr error
	delay := c.cfg.BaseRetryDelay
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		result, err := c.call(ctx, "query", params)
		if err == nil {
			var out CallResult
			if err := json.Unmarshal(result, &out); err != nil {
				return nil, fmt.Errorf("decode call result: %w", err)
			}
			return &out, nil
		}
		lastErr = err
		if httpErr, ok := err.(*HTTPError); !ok || !httpErr.IsRetryable() {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "agent-arcade",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	var out rpcResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}
