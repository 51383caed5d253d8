package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LedgerEvent is the Kafka message carrying one upstream ledger record for a wallet.
// Record is kept raw so that malformed upstream payloads can be dead-lettered verbatim.
type LedgerEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Record        json.RawMessage `json:"record"`
	BalanceAfter  *int64          `json:"balance_after,omitempty"` // Upstream balance snapshot in minor units
	BalanceAsOf   *time.Time      `json:"balance_as_of,omitempty"`
	CorrelationID string          `json:"correlation_id"`
	Timestamp     time.Time       `json:"timestamp"`
}
