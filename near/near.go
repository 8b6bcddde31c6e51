// Package near integrates the arcade with a NEAR wallet and the staking
// contract. Staking is an optional capability: availability is resolved
// once at process start and every staking entry point fails fast when the
// capability is absent.
package near

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// EnvRPCURL configures the RPC endpoint, overriding the config file.
	EnvRPCURL = "NEAR_RPC_URL"
	// EnvContract overrides the arcade staking contract account.
	EnvContract = "AGENT_ARCADE_CONTRACT"

	defaultContract = "agent-arcade.near"
	configFileName  = "near.json"
)

// Settings is the on-disk NEAR configuration, stored under the user's
// arcade directory.
type Settings struct {
	RPCURL    string `json:"rpc_url"`
	Contract  string `json:"contract"`
	NetworkID string `json:"network_id"`
}

var resolved Settings

func init() {
	resolved = resolveSettings()
}

func resolveSettings() Settings {
	var s Settings
	if path, err := configPath(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			_ = json.Unmarshal(data, &s)
		}
	}
	if url := os.Getenv(EnvRPCURL); url != "" {
		s.RPCURL = url
	}
	if contract := os.Getenv(EnvContract); contract != "" {
		s.Contract = contract
	}
	if s.Contract == "" {
		s.Contract = defaultContract
	}
	if s.NetworkID == "" {
		s.NetworkID = "mainnet"
	}
	return s
}

// Available reports whether staking was configured at process start.
func Available() bool {
	return resolved.RPCURL != ""
}

// Resolved returns the settings fixed at process start.
func Resolved() Settings {
	return resolved
}

func configPath() (string, error) {
	dir, err := ArcadeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// ArcadeDir is the per-user directory holding NEAR settings and wallet
// credentials.
func ArcadeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".agent-arcade"), nil
}
