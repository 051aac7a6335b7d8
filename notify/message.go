package notify

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/labour-ledger/ledger"
)

// BalanceChangedMessage is the payload published after a committed mutation.
// Consumers fetch the full statement themselves when they need it.
type BalanceChangedMessage struct {
	LabourID  string          `json:"labour_id"`
	Previous  decimal.Decimal `json:"previous_balance"`
	Balance   decimal.Decimal `json:"balance"`
	Operation string          `json:"operation"`
	EventID   string          `json:"event_id,omitempty"`
	Cascade   int             `json:"cascade"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewBalanceChangedMessage(c ledger.BalanceChange) *BalanceChangedMessage {
	ts := c.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &BalanceChangedMessage{
		LabourID:  string(c.LabourID),
		Previous:  c.Previous,
		Balance:   c.Balance,
		Operation: string(c.Operation),
		EventID:   string(c.EventID),
		Cascade:   c.Cascade,
		Timestamp: ts.UTC(),
	}
}

func (m *BalanceChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BalanceChangedMessageFromJSON(data []byte) (*BalanceChangedMessage, error) {
	var msg BalanceChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
