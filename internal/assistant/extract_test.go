package assistant

import (
	"testing"

	"finance_tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("  {\"a\":1}  "))
}

func TestExtractJSON(t *testing.T) {
	got, err := ExtractJSON(`Sure! {"intent":"UNKNOWN","reply":"use {braces} and \"quotes\""} hope it helps`)
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"UNKNOWN","reply":"use {braces} and \"quotes\""}`, got)

	got, err = ExtractJSON(`{"a":{"b":{}}}{"c":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":{}}}`, got)

	_, err = ExtractJSON("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)
	_, err = ExtractJSON(`{"unterminated": 1`)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestDecodeNormalizes(t *testing.T) {
	text := "```json\n" + `{"intent":"add_transaction","transaction":{"type":"chi tiêu","amount":"45k","category":" Ăn uống ","date":"hôm nay"}}` + "\n```"
	r, err := Decode(text)
	require.NoError(t, err)
	assert.Equal(t, IntentAddTransaction, r.Intent)
	require.NotNil(t, r.Transaction)
	assert.Equal(t, string(domain.CategoryTypeExpense), r.Transaction.Type)
	assert.True(t, decimal.NewFromInt(45_000).Equal(r.Transaction.Amount.Decimal))
	assert.Equal(t, "Ăn uống", r.Transaction.Category)
	assert.Empty(t, r.Transaction.Date)
}

func TestDecodeAccountBank(t *testing.T) {
	r, err := Decode(`{"intent":"ADD_ACCOUNT","account":{"bankName":"vcb","initialBalance":1000000}}`)
	require.NoError(t, err)
	assert.Equal(t, IntentAddAccount, r.Intent)
	assert.Equal(t, "VIETCOMBANK", r.Account.BankName)
	assert.Equal(t, string(domain.AccountTypeBank), r.Account.Type)
}

func TestDecodeDemotesIncompleteResults(t *testing.T) {
	r, err := Decode(`{"intent":"ADD_TRANSACTION","transaction":{"type":"CHITIEU"}}`)
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, r.Intent)
	assert.NotEmpty(t, r.Reply)

	r, err = Decode(`{"intent":"TRANSFER"}`)
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, r.Intent)

	r, err = Decode(`{"intent":"QUICK_STATS","stats":{"period":"decade"}}`)
	require.NoError(t, err)
	assert.Equal(t, "month", r.Stats.Period)

	_, err = Decode(`{"intent":"ADD_GOAL","goal":{"targetAmount":"lots"}}`)
	assert.Error(t, err)
}
