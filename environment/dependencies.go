package environment

import "strings"

const (
	Configured    = "configured"
	NotConfigured = "not configured"
)

// Dependency names an external service and the configuration key that points at it
type Dependency struct {
	Name string
	Key  string
}

// Dependencies is the fixed, ordered list reported by Describe
var Dependencies = []Dependency{
	{Name: "database", Key: "DATABASE_URL"},
	{Name: "redis", Key: "REDIS_URL"},
	{Name: "rabbitmq", Key: "RABBITMQ_URL"},
	{Name: "stripe", Key: "STRIPE_SECRET_KEY"},
	{Name: "sendgrid", Key: "SENDGRID_API_KEY"},
	{Name: "twilio", Key: "TWILIO_ACCOUNT_SID"},
	{Name: "aws", Key: "AWS_ACCESS_KEY_ID"},
	{Name: "google_oauth", Key: "GOOGLE_CLIENT_ID"},
	{Name: "github_oauth", Key: "GITHUB_CLIENT_ID"},
	{Name: "sentry", Key: "SENTRY_DSN"},
	{Name: "openai", Key: "OPENAI_API_KEY"},
}

// Describe reports, for each of Dependencies, whether its key is set to a non-empty value.
// The content of the value is not examined.
func Describe(s Snapshot) map[string]bool {
	descriptor := make(map[string]bool, len(Dependencies))
	for _, d := range Dependencies {
		descriptor[d.Name] = s.Present(d.Key)
	}

	return descriptor
}

// Check is a shape test for one dependency's configuration value.  It never contacts the dependency.
type Check struct {
	Dependency

	// Scheme must appear somewhere in the raw value for the dependency to count as configured
	Scheme string
}

var (
	DatabaseCheck = Check{Dependency: Dependencies[0], Scheme: "postgres"}
	CacheCheck    = Check{Dependency: Dependencies[1], Scheme: "redis"}
	QueueCheck    = Check{Dependency: Dependencies[2], Scheme: "amqp"}
)

// Status returns Configured if the raw value contains the scheme, NotConfigured otherwise.
// An absent key reads as NotConfigured.
func (c Check) Status(s Snapshot) string {
	if strings.Contains(s.Get(c.Key, NotConfigured), c.Scheme) {
		return Configured
	}

	return NotConfigured
}
