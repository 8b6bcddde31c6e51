package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(endpoint string) *Client {
	return NewClient(ClientConfig{
		Endpoint:       endpoint,
		MaxRetries:     3,
		BaseRetryDelay: time.Millisecond,
	})
}

func TestViewFunction(t *testing.T) {
	var gotReq rpcRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      "agent-arcade",
			"result":  map[string]interface{}{"result": []byte(`"ok"`)},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.ViewFunction(context.Background(), "arcade.near", "get_pool",
		map[string]string{"game": "space_invaders"})
	if err != nil {
		t.Fatalf("ViewFunction failed: %v", err)
	}
	if string(result.Result) != `"ok"` {
		t.Errorf("result = %q, want %q", result.Result, `"ok"`)
	}

	if gotReq.JSONRPC != "2.0" || gotReq.Method != "query" {
		t.Errorf("request = %+v, want jsonrpc 2.0 query", gotReq)
	}
	params, ok := gotReq.Params.(map[string]interface{})
	if !ok {
		t.Fatalf("params have type %T, want map", gotReq.Params)
	}
	if params["request_type"] != "call_function" || params["account_id"] != "arcade.near" ||
		params["method_name"] != "get_pool" {
		t.Errorf("unexpected params: %v", params)
	}
	argsJSON, err := base64.StdEncoding.DecodeString(params["args_base64"].(string))
	if err != nil {
		t.Fatalf("args_base64 does not decode: %v", err)
	}
	var args map[string]string
	if err := json.Unmarshal(argsJSON, &args); err != nil {
		t.Fatalf("args are not JSON: %v", err)
	}
	if args["game"] != "space_invaders" {
		t.Errorf("args = %v, want game=space_invaders", args)
	}
}

func TestViewFunctionRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      "agent-arcade",
			"error":   map[string]interface{}{"code": -32000, "message": "handler error"},
		})
	}))
	defer server.Close()

	_, err := testClient(server.URL).ViewFunction(context.Background(), "arcade.near", "get_pool", nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("err = %v, want *RPCError", err)
	}
	if rpcErr.Code != -32000 {
		t.Errorf("code = %d, want -32000", rpcErr.Code)
	}
}

func TestViewFunctionRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      "agent-arcade",
			"result":  map[string]interface{}{"result": []byte(`{}`)},
		})
	}))
	defer server.Close()

	if _, err := testClient(server.URL).ViewFunction(context.Background(), "arcade.near", "get_pool", nil); err != nil {
		t.Fatalf("ViewFunction failed after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts)
	}
}

func TestViewFunctionDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server.URL).ViewFunction(context.Background(), "arcade.near", "get_pool", nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", httpErr.StatusCode)
	}
	if attempts != 1 {
		t.Errorf("server saw %d attempts, want 1", attempts)
	}
}

func TestViewFunctionGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Endpoint:       server.URL,
		MaxRetries:     2,
		BaseRetryDelay: time.Millisecond,
	})
	_, err := client.ViewFunction(context.Background(), "arcade.near", "get_pool", nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3 (initial + 2 retries)", attempts)
	}
}

func TestViewFunctionRequiresEndpoint(t *testing.T) {
	client := NewClient(ClientConfig{})
	if _, err := client.ViewFunction(context.Background(), "arcade.near", "get_pool", nil); err == nil {
		t.Error("ViewFunction with no endpoint succeeded, want error")
	}
}

func TestViewFunctionContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewClient(ClientConfig{
		Endpoint:       server.URL,
		MaxRetries:     5,
		BaseRetryDelay: time.Minute,
	})
	_, err := client.ViewFunction(ctx, "arcade.near", "get_pool", nil)
	if err == nil {
		t.Fatal("ViewFunction with cancelled context succeeded, want error")
	}
}
