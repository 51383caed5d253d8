package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
)

// Message stages a validated ledger transaction for reliable delivery to the ledger store
type Message struct {
	ID            int64               `json:"id"`
	WalletID      uuid.UUID           `json:"wallet_id"`
	TransactionID string              `json:"transaction_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(txn *ledger.Transaction) (*Message, error) {
	payload, err := json.Marshal(txn)
	if err != nil {
		return nil, err
	}

	return &Message{
		WalletID:      txn.WalletID,
		TransactionID: txn.ID,
		Payload:       payload,
		Status:        shared.OutboxStatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// Transaction decodes the staged ledger transaction from the payload
func (m *Message) Transaction() (*ledger.Transaction, error) {
	var txn ledger.Transaction
	if err := json.Unmarshal(m.Payload, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}
