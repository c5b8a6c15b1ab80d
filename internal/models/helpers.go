package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewRoundID generates the client-side round id sent to the ledger so a
// duplicated RecordRound call can be deduplicated remotely.
func NewRoundID() string {
	return fmt.Sprintf("round_%s_%s",
		time.Now().Format("20060102"),
		uuid.New().String())
}

func FormatCredits(amount int64) string {
	return fmt.Sprintf("₹%d", amount)
}
