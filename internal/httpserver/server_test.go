package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/admin"
	"github.com/MrSnakeDoc/folio/internal/ai"
	"github.com/MrSnakeDoc/folio/internal/cache"
	"github.com/MrSnakeDoc/folio/internal/contact"
	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/markdown"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/site"
	"github.com/MrSnakeDoc/folio/internal/store/jsonfile"
	"github.com/MrSnakeDoc/folio/internal/store/sqlite"
	"github.com/MrSnakeDoc/folio/internal/version"
)

const testPassword = "s3cret-for-tests"

type stubSender struct {
	configured bool
	err        error
}

func (s *stubSender) Configured() bool { return s.configured }

func (s *stubSender) Send(context.Context, contact.Form) error { return s.err }

type env struct {
	handler   http.Handler
	store     *jsonfile.Store
	sender    *stubSender
	inbox     *sqlite.Inbox
	publicDir string
	reload    chan struct{}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	log := logger.NewNop()

	store := jsonfile.New(filepath.Join(dir, "data.json"))
	seed := &domain.PortfolioData{
		SiteSettings: domain.SiteSettings{
			ShowFeaturedProjects: true,
			NavLinks:             []domain.NavLink{{Href: "/", Label: "Home"}},
		},
		AboutMe: domain.AboutMe{Narrative: "I **build** things"},
		Skills:  []string{"Go"},
		PortfolioItems: []domain.PortfolioItem{
			{ID: "folio", Title: "Folio", Description: "A *site*"},
		},
	}
	require.NoError(t, store.Save(ctx, seed))

	inbox, err := sqlite.Open(ctx, filepath.Join(dir, "inbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = inbox.Close() })

	publicDir := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(publicDir, 0o755))

	aiClient := ai.New(ai.Config{})
	memCache := cache.NewMemory()
	views := site.NewService(store, memCache, aiClient, markdown.New(), ai.CredentialEnv, log)
	sender := &stubSender{configured: true}
	reload := make(chan struct{}, 1)

	d := deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		Build:          version.Info{Version: "test"},
		TimeNow:        time.Now,
		Store:          store,
		PublicDir:      publicDir,
		MaxUploadBytes: 1 << 20,
		Views:          views,
		Cache:          memCache,
		Gate:           admin.NewGate(testPassword),
		Updater:        admin.NewUpdater(store, views, publicDir, log),
		AI:             aiClient,
		Contact:        contact.NewService(sender, inbox, log),
		Inbox:          inbox,
		Metrics:        metrics.New(),
		ReloadTrigger:  reload,
		ContactLimit:   mw.RateLimitConfig{Burst: 100, RefillPerIPPerMin: 100},
		AdminLimit:     mw.RateLimitConfig{Burst: 100, RefillPerIPPerMin: 100},
	}

	return &env{
		handler:   NewRouter(5*time.Second, d),
		store:     store,
		sender:    sender,
		inbox:     inbox,
		publicDir: publicDir,
		reload:    reload,
	}
}

func (e *env) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) domain.Result {
	t.Helper()
	var res domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mpw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		w, err := mpw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mpw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mpw.FormDataContentType())
	return req
}

func TestHealthzAndReadyz(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":true`)
}

func TestReadyzFailsOnBrokenStore(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.store.Path(), []byte("{not json"), 0o644))

	rec := e.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPublicViews(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, httptest.NewRequest(http.MethodGet, "/api/about", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>build</strong>")

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/api/portfolio/folio", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<em>site</em>")

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/api/portfolio/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.Fail("Project not found."), decodeResult(t, rec))

	for _, path := range []string{"/api/site", "/api/home", "/api/portfolio", "/api/contact"} {
		rec = e.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestContactStatusMapping(t *testing.T) {
	valid := `{"name":"Ann","email":"ann@example.com","message":"Hello there, nice site!"}`
	tests := []struct {
		name       string
		body       string
		configured bool
		sendErr    error
		wantStatus int
		wantMsg    string
	}{
		{"sent", valid, true, nil, http.StatusOK, contact.MsgSent},
		{"invalid form", `{"name":"A","email":"nope","message":"short"}`, true, nil, http.StatusBadRequest, contact.MsgInvalidForm},
		{"malformed json", `{`, true, nil, http.StatusBadRequest, contact.MsgInvalidForm},
		{"not configured", valid, false, nil, http.StatusServiceUnavailable, contact.MsgNotConfigured},
		{"relay failure", valid, true, errors.New("dial tcp: refused"), http.StatusBadGateway, contact.MsgRelayFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.sender.configured = tt.configured
			e.sender.err = tt.sendErr

			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := e.do(t, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeResult(t, rec).Message)
		})
	}
}

func TestContactFormEncoded(t *testing.T) {
	e := newEnv(t)

	body := "name=Ann&email=ann%40example.com&message=Hello+there%2C+nice+site%21"
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := e.do(t, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	n, err := e.inbox.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"ok", `{"password":"` + testPassword + `"}`, http.StatusOK, admin.MsgLoginOK},
		{"wrong", `{"password":"nope"}`, http.StatusUnauthorized, admin.MsgInvalidPassword},
		{"empty", `{"password":""}`, http.StatusBadRequest, admin.MsgPasswordFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			req := httptest.NewRequest(http.MethodPost, "/admin/verify", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := e.do(t, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeResult(t, rec).Message)
		})
	}
}

func TestUpdateContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Warm the cache so the update has something to invalidate.
	e.do(t, httptest.NewRequest(http.MethodGet, "/api/about", nil))

	req := multipartRequest(t, "/admin/content",
		map[string]string{"password": testPassword},
		filePart{"file", "content.md", "text/markdown", []byte("# Skills\n- Rust\n- Zig\n")},
		filePart{"resumeFile", "cv.pdf", "application/pdf", []byte("%PDF-1.4 full")},
	)
	rec := e.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.Ok(admin.MsgUpdated), decodeResult(t, rec))

	data, err := e.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust", "Zig"}, data.Skills)
	assert.Equal(t, admin.ResumeURL, data.AboutMe.ResumeURL)

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/api/about", nil))
	assert.Contains(t, rec.Body.String(), "Zig")

	rec = e.do(t, httptest.NewRequest(http.MethodGet, admin.ResumeURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4 full", rec.Body.String())
}

func TestUpdateContentRejections(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		files      []filePart
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "wrong password",
			password:   "nope",
			files:      []filePart{{"file", "c.md", "text/markdown", []byte("# Skills\n- Go\n")}},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    admin.MsgInvalidPassword,
		},
		{
			name:       "no files",
			password:   testPassword,
			wantStatus: http.StatusBadRequest,
			wantMsg:    admin.MsgNoChanges,
		},
		{
			name:       "resume not pdf",
			password:   testPassword,
			files:      []filePart{{"resumeFile", "cv.docx", "application/msword", []byte("doc")}},
			wantStatus: http.StatusBadRequest,
			wantMsg:    admin.MsgResumeNotPDF,
		},
		{
			name:       "broken testimonials",
			password:   testPassword,
			files:      []filePart{{"file", "c.md", "text/markdown", []byte("# Testimonials\nnot an object\n")}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			before, err := os.ReadFile(e.store.Path())
			require.NoError(t, err)

			rec := e.do(t, multipartRequest(t, "/admin/content", map[string]string{"password": tt.password}, tt.files...))

			assert.Equal(t, tt.wantStatus, rec.Code)
			res := decodeResult(t, rec)
			assert.False(t, res.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, res.Message)
			}

			after, err := os.ReadFile(e.store.Path())
			require.NoError(t, err)
			assert.Equal(t, before, after, "store must be untouched")
			_, err = os.Stat(filepath.Join(e.publicDir, admin.ResumeFile))
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestUpdateContentTooLarge(t *testing.T) {
	e := newEnv(t)
	big := bytes.Repeat([]byte("a"), 2<<20)

	rec := e.do(t, multipartRequest(t, "/admin/content",
		map[string]string{"password": testPassword},
		filePart{"file", "c.md", "text/markdown", big},
	))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAltTextWithoutAI(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, multipartRequest(t, "/admin/alt-text",
		map[string]string{"password": testPassword, "imageDescription": "a cat"},
		filePart{"image", "cat.png", "image/png", []byte{0x89, 'P', 'N', 'G'}},
	))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = e.do(t, multipartRequest(t, "/admin/alt-text", map[string]string{"password": testPassword}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	rec := e.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	req.Header.Set(handlers.PasswordHeader, testPassword)
	rec = e.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "# Skills\n\n- Go\n")
	assert.Contains(t, string(body), "# PortfolioItems")
}

func TestMessages(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.inbox.Record(context.Background(), domain.ContactMessage{
		ID: "m1", Name: "Ann", Email: "ann@example.com", Message: "Hello there!", CreatedAt: time.Now(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/messages", nil)
	req.Header.Set(handlers.PasswordHeader, testPassword)
	rec := e.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Success  bool                    `json:"success"`
		Messages []domain.ContactMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "m1", out.Messages[0].ID)
}

func TestInfraAndMetrics(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, httptest.NewRequest(http.MethodGet, "/infra", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Status     string                     `json:"status"`
		Components map[string]json.RawMessage `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "degraded", out.Status, "ai and smtp are not configured")
	for _, name := range []string{"store", "cache", "redis", "ai", "smtp", "password", "inbox"} {
		assert.Contains(t, out.Components, name)
	}

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestReload(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = e.do(t, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "trigger channel is full")

	<-e.reload
}
