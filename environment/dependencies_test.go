package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		var (
			assert     = assert.New(t)
			descriptor = Describe(FromMap(nil))
		)

		assert.Len(descriptor, len(Dependencies))
		for name, present := range descriptor {
			assert.False(present, name)
		}
	})

	t.Run("Mixed", func(t *testing.T) {
		var (
			assert     = assert.New(t)
			descriptor = Describe(FromMap(map[string]string{
				"DATABASE_URL":     "postgres://x",
				"REDIS_URL":        "",
				"RABBITMQ_URL":     "not-a-url",
				"OPENAI_API_KEY":   "sk-123",
				"GITHUB_CLIENT_ID": "gh",
			}))
		)

		assert.Equal(
			map[string]bool{
				"database":     true,
				"redis":        false,
				"rabbitmq":     true,
				"stripe":       false,
				"sendgrid":     false,
				"twilio":       false,
				"aws":          false,
				"google_oauth": false,
				"github_oauth": true,
				"sentry":       false,
				"openai":       true,
			},
			descriptor,
		)
	})
}

func TestCheckStatus(t *testing.T) {
	testData := []struct {
		check    Check
		values   map[string]string
		expected string
	}{
		{DatabaseCheck, map[string]string{"DATABASE_URL": "postgres://x"}, Configured},
		{DatabaseCheck, map[string]string{"DATABASE_URL": "postgresql://u@h/db"}, Configured},
		{DatabaseCheck, map[string]string{"DATABASE_URL": "mysql://x"}, NotConfigured},
		{DatabaseCheck, map[string]string{"DATABASE_URL": ""}, NotConfigured},
		{DatabaseCheck, nil, NotConfigured},
		{CacheCheck, map[string]string{"REDIS_URL": "redis://cache:6379"}, Configured},
		{CacheCheck, map[string]string{"REDIS_URL": "rediss://cache:6380"}, Configured},
		{CacheCheck, map[string]string{"REDIS_URL": "memcached://x"}, NotConfigured},
		{CacheCheck, nil, NotConfigured},
		{QueueCheck, map[string]string{"RABBITMQ_URL": "amqp://guest@mq"}, Configured},
		{QueueCheck, map[string]string{"RABBITMQ_URL": "amqps://guest@mq"}, Configured},
		{QueueCheck, map[string]string{"RABBITMQ_URL": "kafka://x"}, NotConfigured},
		{QueueCheck, nil, NotConfigured},
	}

	for _, record := range testData {
		assert.Equal(t, record.expected, record.check.Status(FromMap(record.values)), "%s: %v", record.check.Name, record.values)
	}
}

func TestChecksName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("database", DatabaseCheck.Name)
	assert.Equal("DATABASE_URL", DatabaseCheck.Key)
	assert.Equal("redis", CacheCheck.Name)
	assert.Equal("REDIS_URL", CacheCheck.Key)
	assert.Equal("rabbitmq", QueueCheck.Name)
	assert.Equal("RABBITMQ_URL", QueueCheck.Key)
}
