package near

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/trechriron/agent-arcade-trentin/types"
)

// StakeRecord is the stake submitted to the arcade contract.
type StakeRecord struct {
	ID          string           `json:"id"`
	AccountID   string           `json:"account_id"`
	GameName    string           `json:"game_name"`
	ModelPath   string           `json:"model_path"`
	ModelHash   string           `json:"model_hash"`
	Amount      float64          `json:"amount"`
	TargetScore float64          `json:"target_score"`
	ScoreRange  types.ScoreRange `json:"score_range"`
	PlacedAt    time.Time        `json:"placed_at"`
}

// StakeOnGame submits a stake to the arcade contract: the wallet wagers
// amount on its model reaching targetScore in the named game. The record
// is forwarded to the contract endpoint as-is; signing and settlement
// happen on the contract side, never here. The call is context-aware; the
// contract result is not inspected beyond errors.
func StakeOnGame(ctx context.Context, client *Client, wallet *Wallet, gameName, modelPath string,
	amount, targetScore float64, scoreRange types.ScoreRange) (*StakeRecord, error) {
	if client == nil {
		client = NewClientFromSettings()
	}
	hash, err := hashFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("hash model: %w", err)
	}
	record := &StakeRecord{
		ID:          uuid.NewString(),
		AccountID:   wallet.AccountID,
		GameName:    gameName,
		ModelPath:   modelPath,
		ModelHash:   hash,
		Amount:      amount,
		TargetScore: targetScore,
		ScoreRange:  scoreRange,
		PlacedAt:    time.Now().UTC(),
	}
	if _, err := client.ViewFunction(ctx, resolved.Contract, "stake_on_game", record); err != nil {
		return nil, fmt.Errorf("submit stake: %w", err)
	}
	return record, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
