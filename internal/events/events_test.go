package events

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	e := New(GoalAchieved, 7, 3)
	e.Amount = decimal.NewFromInt(500000)

	b, err := e.ToJSON()
	require.NoError(t, err)

	got, err := FromJSON(b)
	require.NoError(t, err)
	assert.Equal(t, GoalAchieved, got.Type)
	assert.Equal(t, uint(7), got.UserID)
	assert.True(t, got.Amount.Equal(e.Amount))
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var p Publisher = &r
	require.NoError(t, p.Publish(context.Background(), New(TransactionCreated, 1, 1)))
	require.NoError(t, NopPublisher{}.Publish(context.Background(), New(TransactionCreated, 1, 1)))
	assert.Equal(t, []string{TransactionCreated}, r.Types())
}
