package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSensitive(t *testing.T) {
	testData := []struct {
		key      string
		expected bool
	}{
		{"SECRET_KEY", true},
		{"STRIPE_SECRET_KEY", true},
		{"OPENAI_API_KEY", true},
		{"ADMIN_PASSWORD", true},
		{"GITHUB_TOKEN", true},
		{"api_token", true},
		{"MonkeyBusiness", true},
		{"DATABASE_URL", false},
		{"HOSTNAME", false},
		{"TWILIO_ACCOUNT_SID", false},
		{"", false},
	}

	for _, record := range testData {
		assert.Equal(t, record.expected, Sensitive(record.key), "key: %q", record.key)
	}
}

func TestMask(t *testing.T) {
	testData := []struct {
		value    string
		expected string
	}{
		{"", "****"},
		{"a", "****"},
		{"abcd", "****"},
		{"abcde", "abcd****"},
		{"abcdefgh", "abcd****"},
		{"sk_live_1234567890", "sk_l****"},
		{"ключики", "ключ****"},
		{"日本語", "****"},
	}

	for _, record := range testData {
		assert.Equal(t, record.expected, Mask(record.value), "value: %q", record.value)
	}
}

func TestDisplay(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("abcd****", Display("SECRET_KEY", "abcdefgh"))
	assert.Equal("abcdefgh", Display("HOSTNAME", "abcdefgh"))
}

func TestSnapshotMasked(t *testing.T) {
	var (
		assert   = assert.New(t)
		snapshot = FromMap(map[string]string{
			"SECRET_KEY":   "abcdefgh",
			"API_TOKEN":    "abc",
			"DB_PASSWORD":  "",
			"DATABASE_URL": "postgres://x",
			"HOSTNAME":     "box",
		})
	)

	assert.Equal(
		map[string]string{
			"SECRET_KEY":   "abcd****",
			"API_TOKEN":    "****",
			"DB_PASSWORD":  "****",
			"DATABASE_URL": "postgres://x",
			"HOSTNAME":     "box",
		},
		snapshot.Masked(),
	)

	// the snapshot itself still holds raw values
	assert.Equal("abcdefgh", snapshot.Get("SECRET_KEY", ""))
}
