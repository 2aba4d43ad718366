package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestRoundTrip(t *testing.T) {
	keyring.MockInit()

	acct := IMAPAccount(" me@gmail.com ", "imap.gmail.com")
	assert.Equal(t, "h1bhunt:imap:me@gmail.com@imap.gmail.com", acct)

	_, err := Get(acct)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, Has(acct))

	require.NoError(t, Set(acct, "app-password"))
	v, err := Get(acct)
	require.NoError(t, err)
	assert.Equal(t, "app-password", v)
	assert.True(t, Has(acct))

	require.NoError(t, Delete(acct))
	require.NoError(t, Delete(acct))
	assert.False(t, Has(acct))
}

func TestRejectsEmpty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, Set("", "x"))
	assert.Error(t, Set(TelegramAccount, "  "))
	assert.Error(t, Delete(""))
	_, err := Get("")
	assert.Error(t, err)
}
