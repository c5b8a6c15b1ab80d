package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"casino-miniapp-backend/internal/config"
	"casino-miniapp-backend/internal/models"
)

// HTTPLedgerClient talks to the remote ledger, the balance of record. Calls
// are not retried; a failed record leaves the round unsynced locally.
type HTTPLedgerClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPLedgerClient(cfg *config.Config) *HTTPLedgerClient {
	timeout := cfg.LedgerTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPLedgerClient{
		baseURL: cfg.LedgerBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type recordRoundPayload struct {
	RoundID    string `json:"round_id"`
	UserID     int64  `json:"user_id"`
	GameID     string `json:"game_id"`
	BetAmount  int64  `json:"bet_amount"`
	Outcome    string `json:"outcome"`
	ProfitLoss int64  `json:"profit_loss"`
}

type recordRoundResponse struct {
	RoundID string `json:"round_id"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// RecordRound posts the completed round. The client-generated round id is
// included so the ledger can deduplicate a repeated call.
func (c *HTTPLedgerClient) RecordRound(ctx context.Context, rec *models.RoundRecord) (string, error) {
	payload := recordRoundPayload{
		RoundID:    rec.ID,
		UserID:     rec.UserID,
		GameID:     string(rec.GameID),
		BetAmount:  rec.Amount,
		Outcome:    rec.Outcome,
		ProfitLoss: rec.ProfitLoss,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rounds", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: ledger returned %d", models.ErrLedgerUnavailable, resp.StatusCode)
	}

	var out recordRoundResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}
	if out.RoundID == "" {
		out.RoundID = rec.ID
	}
	return out.RoundID, nil
}

// RefreshBalance pulls the canonical balance back after a successful record.
func (c *HTTPLedgerClient) RefreshBalance(ctx context.Context, userID int64) (int64, error) {
	url := fmt.Sprintf("%s/users/%d/balance", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: ledger returned %d", models.ErrLedgerUnavailable, resp.StatusCode)
	}

	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}
	return out.Balance, nil
}
