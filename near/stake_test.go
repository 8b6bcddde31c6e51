package near

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/trechriron/agent-arcade-trentin/types"
)

func TestStakeOnGame(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "model.zip")
	modelBytes := []byte("model weights")
	if err := os.WriteFile(modelPath, modelBytes, 0o644); err != nil {
		t.Fatal(err)
	}

	var gotParams map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotParams, _ = req.Params.(map[string]interface{})
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      "agent-arcade",
			"result":  map[string]interface{}{"result": []byte(`{}`)},
		})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Endpoint:       server.URL,
		BaseRetryDelay: time.Millisecond,
	})
	wallet := NewWallet("alice.testnet", memStore{})
	scoreRange := types.ScoreRange{Min: 0, Max: 1000}

	record, err := StakeOnGame(context.Background(), client, wallet,
		"space_invaders", modelPath, 10, 500, scoreRange)
	if err != nil {
		t.Fatalf("StakeOnGame failed: %v", err)
	}

	if record.AccountID != "alice.testnet" || record.GameName != "space_invaders" {
		t.Errorf("record = %+v, want alice.testnet staking on space_invaders", record)
	}
	if record.Amount != 10 || record.TargetScore != 500 {
		t.Errorf("record amount = %v target = %v, want 10 and 500", record.Amount, record.TargetScore)
	}
	if record.ScoreRange != scoreRange {
		t.Errorf("record score range = %v, want %v", record.ScoreRange, scoreRange)
	}
	sum := sha256.Sum256(modelBytes)
	if record.ModelHash != hex.EncodeToString(sum[:]) {
		t.Errorf("record hash = %q does not match the model file", record.ModelHash)
	}
	if record.ID == "" || record.PlacedAt.IsZero() {
		t.Errorf("record is missing id or timestamp: %+v", record)
	}

	if gotParams["method_name"] != "stake_on_game" {
		t.Errorf("called method %v, want stake_on_game", gotParams["method_name"])
	}
	argsJSON, err := base64.StdEncoding.DecodeString(gotParams["args_base64"].(string))
	if err != nil {
		t.Fatalf("args_base64 does not decode: %v", err)
	}
	var sent StakeRecord
	if err := json.Unmarshal(argsJSON, &sent); err != nil {
		t.Fatalf("submitted args are not a stake record: %v", err)
	}
	if sent.ID != record.ID || sent.ModelHash != record.ModelHash {
		t.Errorf("submitted record %+v does not match returned record %+v", sent, record)
	}
}

func TestStakeOnGameMissingModel(t *testing.T) {
	client := NewClient(ClientConfig{Endpoint: "http://localhost:0"})
	wallet := NewWallet("alice.testnet", memStore{})

	_, err := StakeOnGame(context.Background(), client, wallet, "space_invaders",
		filepath.Join(t.TempDir(), "missing.zip"), 10, 500, types.ScoreRange{Min: 0, Max: 1000})
	if err == nil {
		t.Error("StakeOnGame with a missing model file succeeded, want error")
	}
}

func TestAvailableTracksRPCURL(t *testing.T) {
	saved := resolved
	defer func() { resolved = saved }()

	resolved.RPCURL = ""
	if Available() {
		t.Error("Available() = true with no RPC endpoint")
	}
	resolved.RPCURL = "https://rpc.testnet.near.org"
	if !Available() {
		t.Error("Available() = false with an RPC endpoint configured")
	}
}
