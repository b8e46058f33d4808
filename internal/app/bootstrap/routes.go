// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/devcollab/devcollab/internal/app/collab"
	adaptersfeature "github.com/devcollab/devcollab/internal/app/features/adapters"
	errorsfeature "github.com/devcollab/devcollab/internal/app/features/errors"
	healthfeature "github.com/devcollab/devcollab/internal/app/features/health"
	logoutfeature "github.com/devcollab/devcollab/internal/app/features/logout"
	profilefeature "github.com/devcollab/devcollab/internal/app/features/profile"
	projectsfeature "github.com/devcollab/devcollab/internal/app/features/projects"
	signinfeature "github.com/devcollab/devcollab/internal/app/features/signin"
	webhooksfeature "github.com/devcollab/devcollab/internal/app/features/webhooks"
	profilestore "github.com/devcollab/devcollab/internal/app/store/profiles"
	projectstore "github.com/devcollab/devcollab/internal/app/store/projects"
	signinstore "github.com/devcollab/devcollab/internal/app/store/signins"
	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"github.com/devcollab/devcollab/internal/app/system/notify"
	"github.com/devcollab/devcollab/internal/app/system/ratelimit"
	"github.com/devcollab/devcollab/internal/app/system/requestlog"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildHandler wires stores, services and feature routers into the root
// router.
//
// Layout:
//
//	/health, /metrics            operational
//	/auth/{provider}[/callback]  sign-in
//	/logout                      sign-out
//	/api/profile                 caller's profile
//	/api/projects                collaboration operations
//	/api/ai, /api/github         stateless adapters (signed in)
//	/api/notifications           send-update (public, used by the relay)
//	/api/webhooks                GitHub deliveries
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	profiles := profilestore.New(deps.MongoDatabase)
	projects := projectstore.New(deps.MongoDatabase)
	signIns := signinstore.New(deps.MongoDatabase)

	svc := &collab.Service{
		Profiles: profiles,
		Projects: projects,
		Repos:    deps.GitHub,
		Readmes:  deps.Gemini,
		Metrics:  rec,
		Log:      logger,
	}

	notifier := &notify.Service{
		Summarizer: deps.Gemini,
		Mailer:     deps.Mailer,
		Metrics:    rec,
		Log:        logger,
		SiteName:   "DevCollab",
	}
	var relaySender notify.Sender = notifier
	if appCfg.NotifyRelayURL != "" {
		relaySender = notify.NewHTTPClient(appCfg.NotifyRelayURL, &http.Client{Timeout: timeouts.Upstream()})
	}
	relay := &collab.Relay{Projects: projects, Notifier: relaySender, Metrics: rec, Log: logger}

	upstreamLimit := ratelimit.New(appCfg.AIRatePerMin).Middleware("upstream", ratelimit.UserOrIP, logger)
	webhookLimit := ratelimit.New(appCfg.WebhookRatePerMin).Middleware("webhook", ratelimit.ClientIP, logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestlog.Middleware(logger, rec))
	r.Use(middleware.Recoverer)
	r.Use(sessionMgr.LoadSessionUser)

	errorsHandler := errorsfeature.NewHandler(logger)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, map[string]healthfeature.Integration{
		"gemini": deps.Gemini,
		"github": deps.GitHub,
		"smtp":   deps.Mailer,
	}, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler(reg))

	signinHandler := signinfeature.NewHandler(sessionMgr, svc, logger,
		signinfeature.Google(appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL),
		signinfeature.GitHub(appCfg.GitHubClientID, appCfg.GitHubClientSecret, appCfg.BaseURL),
	)
	signinHandler.History = signIns
	r.Mount("/auth", signinfeature.Routes(signinHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	adaptersHandler := adaptersfeature.NewHandler(deps.Gemini, deps.GitHub, notifier, logger)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(svc, signIns, logger), sessionMgr))
		api.Mount("/projects", projectsfeature.Routes(projectsfeature.NewHandler(svc, logger), sessionMgr, upstreamLimit))

		api.Mount("/ai", adaptersfeature.AIRoutes(adaptersHandler, sessionMgr, upstreamLimit))
		api.Mount("/github", adaptersfeature.GitHubRoutes(adaptersHandler, sessionMgr, upstreamLimit))
		api.Mount("/notifications", adaptersfeature.NotificationRoutes(adaptersHandler, webhookLimit))

		webhooksHandler := webhooksfeature.NewHandler(relay, appCfg.GitHubWebhookSecret, rec, logger)
		api.Mount("/webhooks", webhooksfeature.Routes(webhooksHandler, webhookLimit))
	})

	return r, nil
}
