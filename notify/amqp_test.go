package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/labour-ledger/ledger"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var change = ledger.BalanceChange{
	LabourID:  "lab-1",
	Operation: ledger.OpInsertPayment,
	EventID:   "ev-7",
	Previous:  decimal.RequireFromString("150"),
	Balance:   decimal.RequireFromString("110"),
	Cascade:   1,
	At:        time.Date(2024, time.January, 2, 9, 30, 0, 0, time.UTC),
}

func TestBalanceChangedMessage_JSON(t *testing.T) {
	body, err := NewBalanceChangedMessage(change).ToJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"labour_id": "lab-1",
		"previous_balance": "150",
		"balance": "110",
		"operation": "insert_payment",
		"event_id": "ev-7",
		"cascade": 1,
		"timestamp": "2024-01-02T09:30:00Z"
	}`, string(body))

	back, err := BalanceChangedMessageFromJSON(body)
	require.NoError(t, err)
	assert.True(t, back.Balance.Equal(change.Balance))
}

func TestBalanceChangedMessage_LabourLevelOmitsEvent(t *testing.T) {
	c := change
	c.EventID = ""
	c.Operation = ledger.OpSetOpening
	body, err := NewBalanceChangedMessage(c).ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(body), "event_id")
}

func TestPublisher_BalanceChanged(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "labour-ledger", "balance.changed", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, p.BalanceChanged(context.Background(), change))

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, "labour-ledger", sent.exchange)
	assert.Equal(t, "balance.changed", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, "ev-7", sent.msg.MessageId)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "labour-ledger", "balance.changed", nil)

	err := p.BalanceChanged(context.Background(), change)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish balance change")
}
