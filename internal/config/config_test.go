package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"FOLIO_DATA_FILE", "FOLIO_REDIS_ADDR", "CONTENT_UPDATE_PASSWORD", "FOLIO_ALLOWED_CIDRS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.DataFile != "./data/data.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.MaxUploadBytes() != 20<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if cfg.AllowedCIDRS != nil {
		t.Errorf("AllowedCIDRS = %v, want nil", cfg.AllowedCIDRS)
	}
	if cfg.ContactBurst != 3 || cfg.ContactRefillPerMin != 2 {
		t.Errorf("contact limits = %d/%d", cfg.ContactBurst, cfg.ContactRefillPerMin)
	}
	if cfg.AIModel != "gpt-4o-mini" {
		t.Errorf("AIModel = %q", cfg.AIModel)
	}
}

func TestLoadInboxPath(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  string
	}{
		{name: "unset uses default", want: "./data/inbox.db"},
		{name: "empty disables", value: new(string), want: ""},
		{name: "explicit path", value: func() *string { s := "/tmp/x.db"; return &s }(), want: "/tmp/x.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FOLIO_INBOX_DB", "")
			if tt.value == nil {
				unsetForTest(t, "FOLIO_INBOX_DB")
			} else {
				t.Setenv("FOLIO_INBOX_DB", *tt.value)
			}

			if got := Load().InboxDB; got != tt.want {
				t.Errorf("InboxDB = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadRedisPasswordRequired(t *testing.T) {
	t.Setenv("FOLIO_REDIS_ADDR", "localhost:6379")
	t.Setenv("FOLIO_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("FOLIO_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked")
		}
	}()
	Load()
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"FOLIO_CACHE_REFRESH_INTERVAL", "0s"},
		{"FOLIO_CACHE_REFRESH_INTERVAL", "-1m"},
		{"FOLIO_INBOX_GC_INTERVAL", "0s"},
		{"FOLIO_INBOX_RETENTION", "-24h"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("Load() should have panicked for %s=%s", tt.key, tt.value)
				}
				if msg, _ := r.(string); !strings.Contains(msg, tt.key) {
					t.Errorf("panic %v does not name %s", r, tt.key)
				}
			}()
			Load()
		})
	}
}

func TestMustPositiveDurationKeepsValidValues(t *testing.T) {
	t.Setenv("TEST_POSITIVE", "90s")
	if got := mustPositiveDuration("TEST_POSITIVE", time.Hour); got != 90*time.Second {
		t.Errorf("got %s, want 90s", got)
	}
	unsetForTest(t, "TEST_POSITIVE")
	if got := mustPositiveDuration("TEST_POSITIVE", time.Hour); got != time.Hour {
		t.Errorf("got %s, want default 1h", got)
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{
		RedisUser:      "default",
		RedisPassword:  "r",
		UpdatePassword: "p",
		SMTPPass:       "s",
		OpenAIKey:      "k",
		SMTPHost:       "smtp.example.com",
	}

	r := cfg.Redacted()

	for name, v := range map[string]string{
		"RedisUser":      r.RedisUser,
		"RedisPassword":  r.RedisPassword,
		"UpdatePassword": r.UpdatePassword,
		"SMTPPass":       r.SMTPPass,
		"OpenAIKey":      r.OpenAIKey,
	} {
		if v != redacted {
			t.Errorf("%s = %q, want redacted", name, v)
		}
	}
	if r.SMTPHost != "smtp.example.com" {
		t.Errorf("SMTPHost should not be redacted")
	}
	if cfg.UpdatePassword != "p" {
		t.Errorf("Redacted() mutated the receiver")
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "empty", value: "", expected: nil},
		{name: "single value", value: "value1", expected: []string{"value1"}},
		{name: "multiple values", value: "value1, value2 ,value3", expected: []string{"value1", "value2", "value3"}},
		{name: "quotes and blanks", value: `"a.example.com", ,'b.example.com'`, expected: []string{"a.example.com", "b.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func unsetForTest(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env var: %v", err)
	}
}
