package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/folio/internal/admin"
	"github.com/MrSnakeDoc/folio/internal/ai"
	"github.com/MrSnakeDoc/folio/internal/cache"
	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/contact"
	"github.com/MrSnakeDoc/folio/internal/httpserver"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/markdown"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/redis"
	"github.com/MrSnakeDoc/folio/internal/scheduler"
	"github.com/MrSnakeDoc/folio/internal/site"
	"github.com/MrSnakeDoc/folio/internal/store/jsonfile"
	redisstore "github.com/MrSnakeDoc/folio/internal/store/redis"
	"github.com/MrSnakeDoc/folio/internal/store/sqlite"
	"github.com/MrSnakeDoc/folio/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	inbox       *sqlite.Inbox
	reloader    *scheduler.ContentReloader
	sweeper     *scheduler.InboxSweeper
}

// New wires every component. Optional integrations (Redis, SMTP, AI, the
// inbox) degrade to a logged warning when unconfigured; a configured Redis
// or inbox that cannot be opened is fatal.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	m := metrics.New()
	store := jsonfile.New(cfg.DataFile)

	// View cache: Redis when configured, memory otherwise
	var (
		viewCache   cache.Cache = cache.NewMemory()
		redisClient *goredis.Client
	)
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, redisOptions(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		redisClient = client
		viewCache = redisstore.NewStore(client, cfg.CacheTTL)
		loggerClient.Info("view cache: redis", logger.Duration("ttl", cfg.CacheTTL))
	} else {
		loggerClient.Info("view cache: memory")
	}

	// AI
	aiClient := ai.New(ai.Config{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	})
	if !aiClient.Configured() {
		loggerClient.Warn("AI features disabled: set " + ai.CredentialEnv + " to enable keywords and alt text")
	}

	views := site.NewService(store, viewCache, meteredKeywords{KeywordGenerator: aiClient, metrics: m},
		markdown.New(), ai.CredentialEnv, loggerClient)

	// Password gate
	gate := admin.NewGate(cfg.UpdatePassword)
	if !gate.Configured() {
		loggerClient.Warn("CONTENT_UPDATE_PASSWORD is unset or a placeholder; admin endpoints will reject every request")
	}

	// Contact relay and inbox
	smtpCfg := contact.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		User:      cfg.SMTPUser,
		Pass:      cfg.SMTPPass,
		FromEmail: cfg.SMTPFromEmail,
		ToEmail:   cfg.SMTPToEmail,
	}
	if missing := smtpCfg.Missing(); len(missing) > 0 {
		loggerClient.Warn("contact emails disabled: missing SMTP settings", logger.Strings("missing", missing))
	}

	var (
		inbox    *sqlite.Inbox
		recorder contact.Recorder
		sweeper  *scheduler.InboxSweeper
	)
	if cfg.InboxDB != "" {
		ib, err := sqlite.Open(ctx, cfg.InboxDB)
		if err != nil {
			closeRedis(redisClient, loggerClient)
			return nil, fmt.Errorf("open inbox: %w", err)
		}
		inbox, recorder = ib, ib
		sweeper = scheduler.NewInboxSweeper(ib, loggerClient, cfg.InboxGCInterval, cfg.InboxRetention)
		loggerClient.Info("contact inbox enabled", logger.String("path", cfg.InboxDB))
	}
	contactSvc := contact.NewService(contact.NewSMTPSender(smtpCfg), recorder, loggerClient)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewContentReloader(
		cfg.DataFile,
		store,
		views,
		loggerClient,
		cfg.CacheRefreshInterval,
		cfg.WatchDataFile,
		reloadTrigger,
	)
	reloader.OnReload(m.CacheFlush)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Build:          version.Get(),
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		Store:          store,
		PublicDir:      cfg.PublicDir,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Views:          views,
		Cache:          viewCache,
		RedisClient:    redisClient,
		Gate:           gate,
		Updater:        admin.NewUpdater(store, views, cfg.PublicDir, loggerClient),
		AI:             aiClient,
		Contact:        contactSvc,
		SMTP:           smtpCfg,
		Inbox:          inbox,
		Metrics:        m,
		ReloadTrigger:  reloadTrigger,
		ContactLimit: mw.RateLimitConfig{
			Burst:             cfg.ContactBurst,
			RefillPerIPPerMin: cfg.ContactRefillPerMin,
			MaxEntries:        10000,
			TrustProxy:        cfg.TrustProxy,
			OnLimit:           func(*http.Request) { m.RateLimited("contact") },
		},
		AdminLimit: mw.RateLimitConfig{
			Burst:             cfg.AdminBurst,
			RefillPerIPPerMin: cfg.AdminRefillPerMin,
			MaxEntries:        10000,
			TrustProxy:        cfg.TrustProxy,
			OnLimit:           func(*http.Request) { m.RateLimited("admin") },
		},
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		inbox:       inbox,
		reloader:    reloader,
		sweeper:     sweeper,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Folio %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.Get().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.Close()

	// Validates the data file and starts watching it
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start content reloader: %w", err)
	}
	a.logger.Info("content reloader started",
		logger.Duration("interval", a.cfg.CacheRefreshInterval),
		logger.Bool("watch", a.cfg.WatchDataFile))

	if a.sweeper != nil {
		if err := a.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start inbox sweeper: %w", err)
		}
		a.logger.Info("inbox sweeper started",
			logger.Duration("interval", a.cfg.InboxGCInterval),
			logger.Duration("retention", a.cfg.InboxRetention))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Folio stopped cleanly")
	return nil
}

// Close releases the inbox and Redis connections.
func (a *App) Close() {
	if a.inbox != nil {
		if err := a.inbox.Close(); err != nil {
			a.logger.Warnf("failed to close inbox: %v", err)
		}
	}
	closeRedis(a.redisClient, a.logger)
}

func closeRedis(client *goredis.Client, log logger.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Warnf("failed to close redis: %v", err)
	} else {
		log.Info("✅ Redis closed cleanly")
	}
}

func redisOptions(cfg *config.Config) redis.Options {
	return redis.Options{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

// Handler returns the HTTP handler without starting the listener.
func (a *App) Handler() http.Handler { return a.server.Handler() }
