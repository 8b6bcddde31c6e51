package games

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/trechriron/agent-arcade-trentin/types"
)

// LoadConfig returns the game's training configuration. A missing path (or
// empty string) yields the game's defaults; an unreadable or malformed
// file is an error.
func LoadConfig(game Game, path string) (types.GameConfig, error) {
	cfg := game.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
