// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// appConfigKeys are loaded from config files (mongo_uri), environment
// variables (DEVCOLLAB_MONGO_URI) and flags (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "devcollab", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "devcollab-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "168h", Desc: "Session lifetime (e.g., 24h, 168h)"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL, used for OAuth callbacks"},

	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "github_client_id", Default: "", Desc: "GitHub OAuth app client ID"},
	{Name: "github_client_secret", Default: "", Desc: "GitHub OAuth app client secret"},

	{Name: "github_token", Default: "", Desc: "GitHub token used to create repositories"},
	{Name: "github_webhook_secret", Default: "", Desc: "Secret for X-Hub-Signature-256 (blank accepts unsigned deliveries)"},

	{Name: "gemini_api_key", Default: "", Desc: "Gemini API key"},
	{Name: "gemini_model", Default: gemini.DefaultModel, Desc: "Gemini model name"},

	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@devcollab.dev", Desc: "From email address"},
	{Name: "mail_from_name", Default: "DevCollab", Desc: "From display name"},

	{Name: "notify_relay_url", Default: "", Desc: "Deliver webhook updates through this server's send-update endpoint (blank sends in process)"},

	{Name: "signin_retention", Default: "2160h", Desc: "How long sign-in history is kept (0 keeps it forever)"},

	{Name: "webhook_rate_per_min", Default: 60, Desc: "Webhook deliveries per minute per client IP (0 disables)"},
	{Name: "ai_rate_per_min", Default: 10, Desc: "AI and repository calls per minute per user (0 disables)"},
}

// LoadConfig loads WAFFLE core config and DevCollab's app config.
// Precedence is flags > env (DEVCOLLAB_*) > files > defaults. TIMEOUT_*
// overrides are applied here so ConnectDB already sees them.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, v, err := config.LoadWithAppConfig(logger, "DEVCOLLAB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         v.String("mongo_uri"),
		MongoDatabase:    v.String("mongo_database"),
		MongoMaxPoolSize: uint64(v.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(v.Int("mongo_min_pool_size")),

		SessionKey:    v.String("session_key"),
		SessionName:   v.String("session_name"),
		SessionDomain: v.String("session_domain"),
		SessionMaxAge: v.Duration("session_max_age", 7*24*time.Hour),

		BaseURL: v.String("base_url"),

		GoogleClientID:     v.String("google_client_id"),
		GoogleClientSecret: v.String("google_client_secret"),
		GitHubClientID:     v.String("github_client_id"),
		GitHubClientSecret: v.String("github_client_secret"),

		GitHubToken:         v.String("github_token"),
		GitHubWebhookSecret: v.String("github_webhook_secret"),

		GeminiAPIKey: v.String("gemini_api_key"),
		GeminiModel:  v.String("gemini_model"),

		MailSMTPHost: v.String("mail_smtp_host"),
		MailSMTPPort: v.Int("mail_smtp_port"),
		MailSMTPUser: v.String("mail_smtp_user"),
		MailSMTPPass: v.String("mail_smtp_pass"),
		MailFrom:     v.String("mail_from"),
		MailFromName: v.String("mail_from_name"),

		NotifyRelayURL: v.String("notify_relay_url"),

		SignInRetention: v.Duration("signin_retention", 90*24*time.Hour),

		WebhookRatePerMin: v.Int("webhook_rate_per_min"),
		AIRatePerMin:      v.Int("ai_rate_per_min"),
	}

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Int("overrides", n),
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("upstream", cur.Upstream))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configuration that would fail later in less
// obvious ways. Blank adapter credentials are allowed.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := requireAbsoluteURL("base_url", appCfg.BaseURL); err != nil {
		return err
	}
	if appCfg.NotifyRelayURL != "" {
		if err := requireAbsoluteURL("notify_relay_url", appCfg.NotifyRelayURL); err != nil {
			return err
		}
	}

	for name, configured := range map[string]bool{
		"gemini":        appCfg.GeminiAPIKey != "",
		"github":        appCfg.GitHubToken != "",
		"google_signin": appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != "",
		"github_signin": appCfg.GitHubClientID != "" && appCfg.GitHubClientSecret != "",
	} {
		if !configured {
			logger.Warn("integration not configured; its calls will fail", zap.String("integration", name))
		}
	}
	return nil
}

func requireAbsoluteURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}
