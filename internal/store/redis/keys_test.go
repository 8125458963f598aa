package redis

import "testing"

func TestViewKeyRoundTrip(t *testing.T) {
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{key: ViewKey("home"), want: "home", wantOK: true},
		{key: ViewKey("portfolio:folio"), want: "portfolio:folio", wantOK: true},
		{key: KeyPrefixView, wantOK: false},
		{key: "other:view:home", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ViewName(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ViewName(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
