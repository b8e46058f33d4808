// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds DevCollab's configuration.
//
// Values come from flags, DEVCOLLAB_* environment variables, config files
// and defaults, in that order of precedence (see LoadConfig). WAFFLE's
// CoreConfig covers ports, TLS, log level and CORS; everything specific to
// DevCollab lives here.
//
// Adapter credentials may be blank. The app still starts and each adapter
// call then fails with a configuration error.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Sessions
	SessionKey    string // ≥32 chars; signing and encryption keys are derived from it
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// BaseURL is the absolute public URL; OAuth callbacks are built from it.
	BaseURL string

	// Sign-in providers
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// GitHub REST and webhooks
	GitHubToken         string
	GitHubWebhookSecret string // blank accepts unsigned deliveries

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// SMTP
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// NotifyRelayURL, when set, makes the webhook relay deliver updates by
	// POSTing to <url>/api/notifications/send-update instead of in process.
	NotifyRelayURL string

	// SignInRetention is how long sign-in history is kept; 0 keeps it forever.
	SignInRetention time.Duration

	// Rate limits, requests per minute; 0 disables.
	WebhookRatePerMin int
	AIRatePerMin      int
}
