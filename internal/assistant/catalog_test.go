package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)
	for _, intent := range []Intent{IntentAddAccount, IntentAddTransaction, IntentAddCategory, IntentAddGoal, IntentQuickStats, IntentUnknown} {
		assert.True(t, c.Has(intent), "missing %s", intent)
	}
	assert.False(t, c.Has("TRANSFER"))
	assert.NotEmpty(t, c.Examples)

	// every few-shot output must itself decode to its declared intent
	for _, ex := range c.Examples {
		r, err := Decode(ex.Output)
		require.NoError(t, err, ex.Message)
		assert.True(t, c.Has(r.Intent), ex.Message)
	}
}

func TestPromptIncludesUserContext(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)
	prompt := c.Prompt(UserContext{
		Today:      testToday,
		Accounts:   []AccountRef{{Name: "ACB"}},
		Categories: []CategoryRef{{Name: "Ăn uống", Type: "CHITIEU"}},
	}, "  ăn phở 45k ")

	assert.Contains(t, prompt, "Today: 2026-10-19")
	assert.Contains(t, prompt, "Accounts: ACB")
	assert.Contains(t, prompt, "Ăn uống (CHITIEU)")
	assert.Contains(t, prompt, "account.bankName")
	assert.True(t, strings.HasSuffix(prompt, "User: ăn phở 45k\nJSON:"))

	empty := c.Prompt(UserContext{Today: testToday}, "hi")
	assert.Contains(t, empty, "Accounts: none")
}
