package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const redacted = "***REDACTED***"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout (uploads and AI calls included)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataFile             string        // path to the JSON document
	PublicDir            string        // static files, resumes are written here
	MaxUploadMB          int           // multipart body limit for admin uploads
	WatchDataFile        bool          // flush views when the data file changes on disk
	CacheRefreshInterval time.Duration // periodic view flush
	CacheTTL             time.Duration // Redis view TTL

	InboxDB         string        // SQLite path, empty disables the inbox
	InboxRetention  time.Duration // messages older than this are swept
	InboxGCInterval time.Duration

	// Redis (optional, empty address => in-memory view cache)
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool          // true => require password when Redis is enabled
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict /infra, /metrics and /reload
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	ContactBurst        int
	ContactRefillPerMin int
	AdminBurst          int
	AdminRefillPerMin   int

	UpdatePassword string

	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	SMTPFromEmail string
	SMTPToEmail   string

	OpenAIKey     string
	OpenAIBaseURL string
	AIModel       string
	AITimeout     time.Duration
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FOLIO_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("FOLIO_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("FOLIO_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("FOLIO_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FOLIO_PRETTY_LOG", true),

		// Content
		DataFile:             getenv("FOLIO_DATA_FILE", "./data/data.json"),
		PublicDir:            getenv("FOLIO_PUBLIC_DIR", "./public"),
		MaxUploadMB:          getenvInt("FOLIO_MAX_UPLOAD_MB", 20),
		WatchDataFile:        mustBool("FOLIO_WATCH_DATA_FILE", true),
		CacheRefreshInterval: mustPositiveDuration("FOLIO_CACHE_REFRESH_INTERVAL", 24*time.Hour),
		CacheTTL:             mustDuration("FOLIO_CACHE_TTL", 24*time.Hour),

		// Inbox
		InboxDB:         os.Getenv("FOLIO_INBOX_DB"),
		InboxRetention:  mustPositiveDuration("FOLIO_INBOX_RETENTION", 365*24*time.Hour),
		InboxGCInterval: mustPositiveDuration("FOLIO_INBOX_GC_INTERVAL", 24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("FOLIO_REDIS_ADDR", ""),
		RedisUser:             getenv("FOLIO_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("FOLIO_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("FOLIO_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("FOLIO_REDIS_DB", 0),
		RedisDT:               mustDuration("FOLIO_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("FOLIO_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("FOLIO_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("FOLIO_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("FOLIO_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("FOLIO_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("FOLIO_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("FOLIO_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("FOLIO_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("FOLIO_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("FOLIO_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("FOLIO_TRUST_PROXY", true),

		// Rate limits
		ContactBurst:        getenvInt("FOLIO_CONTACT_BURST", 3),
		ContactRefillPerMin: getenvInt("FOLIO_CONTACT_REFILL_PER_MIN", 2),
		AdminBurst:          getenvInt("FOLIO_ADMIN_BURST", 5),
		AdminRefillPerMin:   getenvInt("FOLIO_ADMIN_REFILL_PER_MIN", 5),

		UpdatePassword: os.Getenv("CONTENT_UPDATE_PASSWORD"),

		// Mail relay, unset values leave the contact form unconfigured
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),
		SMTPToEmail:   os.Getenv("SMTP_TO_EMAIL"),

		// AI
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		AIModel:       getenv("FOLIO_AI_MODEL", "gpt-4o-mini"),
		AITimeout:     mustDuration("FOLIO_AI_TIMEOUT", 20*time.Second),
	}

	if _, ok := os.LookupEnv("FOLIO_INBOX_DB"); !ok {
		cfg.InboxDB = "./data/inbox.db"
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: FOLIO_REDIS_PASSWORD is required when FOLIO_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// MaxUploadBytes is the multipart body limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	for _, s := range []*string{&out.RedisPassword, &out.UpdatePassword, &out.SMTPPass, &out.OpenAIKey} {
		if *s != "" {
			*s = redacted
		}
	}
	if out.RedisUser != "" {
		out.RedisUser = redacted
	}
	return out
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustPositiveDuration is mustDuration for tickers and windows, where zero
// or a negative value is a configuration error.
func mustPositiveDuration(key string, def time.Duration) time.Duration {
	d := mustDuration(key, def)
	if d <= 0 {
		panic(fmt.Sprintf("❌ FATAL: %s must be a positive duration, got %s", key, d))
	}
	return d
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
