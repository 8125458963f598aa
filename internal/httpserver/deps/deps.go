package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/folio/internal/admin"
	"github.com/MrSnakeDoc/folio/internal/ai"
	"github.com/MrSnakeDoc/folio/internal/cache"
	"github.com/MrSnakeDoc/folio/internal/contact"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/site"
	"github.com/MrSnakeDoc/folio/internal/store/jsonfile"
	"github.com/MrSnakeDoc/folio/internal/store/sqlite"
	"github.com/MrSnakeDoc/folio/internal/version"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Build        version.Info
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to reach /infra, /metrics and /reload
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Store          *jsonfile.Store    // the portfolio document
	PublicDir      string             // static files and uploaded resumes
	MaxUploadBytes int64              // admin multipart body limit
	Views          *site.Service      // cached public views
	Cache          cache.Cache        // view cache backing Views
	RedisClient    *redis.Client      // nil when the memory cache is used
	Gate           *admin.Gate        // shared-secret check for admin endpoints
	Updater        *admin.Updater     // content and resume uploads
	AI             *ai.Client         // keywords and alt text
	Contact        *contact.Service   // contact form relay
	SMTP           contact.SMTPConfig // reported on /infra
	Inbox          *sqlite.Inbox      // nil when the inbox is disabled
	Metrics        *metrics.Metrics   // Prometheus counters
	ReloadTrigger  chan struct{}      // Channel to trigger a manual view flush
	ContactLimit   mw.RateLimitConfig // per-IP limit on the contact form
	AdminLimit     mw.RateLimitConfig // per-IP limit on admin endpoints
}
