package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"TRIPMAP_ENV", "TRIPMAP_BASE_URL", "TRIPMAP_GROUP_ID", "TRIPMAP_PLACE_LINK_ID",
	"TRIPMAP_PLACES_URL", "TRIPMAP_SEARCH_SOURCE", "TRIPMAP_PAGE_SIZE", "TRIPMAP_HTTP_TIMEOUT",
	"KAKAO_REST_API_KEY", "KAKAO_API_URL", "KAKAO_RATE_LIMIT", "TRIPMAP_CENTER",
	"TRIPMAP_LEVEL", "TRIPMAP_LOG_FILE", "TRIPMAP_THEME", "TRIPMAP_CONFIG",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { _ = os.Setenv(k, v) })
			_ = os.Unsetenv(k)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SearchSource != SourceLocal {
		t.Fatalf("expected local source without a kakao key, got %q", cfg.SearchSource)
	}
	if cfg.BaseURL != "http://localhost:8000" || cfg.PageSize != 5 || cfg.Level != 3 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Center.Lat != 37.5665 || cfg.Center.Lng != 126.978 {
		t.Fatalf("unexpected default center %v", cfg.Center)
	}
	if cfg.LogFile != filepath.Join(dir, "tripmap.log") {
		t.Fatalf("unexpected log file %q", cfg.LogFile)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yml := `
base_url: https://trip.example.com/
group_id: 7
page_size: 40
http_timeout: 3s
kakao:
  rest_key: from-file
  rate_limit: 2
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TRIPMAP_GROUP_ID", "9")
	t.Setenv("TRIPMAP_CENTER", "35.1796, 129.0756")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://trip.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.GroupID != 9 {
		t.Fatalf("expected env to win over file, got %d", cfg.GroupID)
	}
	if cfg.SearchSource != SourceKakao || cfg.KakaoRESTKey != "from-file" {
		t.Fatalf("expected kakao source from the file key, got %q %q", cfg.SearchSource, cfg.KakaoRESTKey)
	}
	if cfg.PageSize != 5 {
		t.Fatalf("expected out-of-range page size reset to 5, got %d", cfg.PageSize)
	}
	if cfg.HTTPTimeout != 3*time.Second || cfg.KakaoRateLimit != 2 {
		t.Fatalf("unexpected timeout/rate %v %v", cfg.HTTPTimeout, cfg.KakaoRateLimit)
	}
	if cfg.Center.Lat != 35.1796 {
		t.Fatalf("unexpected center %v", cfg.Center)
	}
	if got := cfg.CreateURL(); got != "https://trip.example.com/api/groups/9/places_create/" {
		t.Fatalf("unexpected create url %q", got)
	}
	if got := cfg.UpdateURL(3); got != "https://trip.example.com/api/edit_place_link/3/" {
		t.Fatalf("unexpected update url %q", got)
	}
	if got := cfg.SearchURL(); got != "https://trip.example.com/api/groups/9/places/search/" {
		t.Fatalf("unexpected search url %q", got)
	}
}

func TestLoadRejectsBadSettings(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Setenv("TRIPMAP_SEARCH_SOURCE", "bing")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for unknown source")
	}

	t.Setenv("TRIPMAP_SEARCH_SOURCE", "kakao")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for kakao without a key")
	}

	t.Setenv("TRIPMAP_SEARCH_SOURCE", "local")
	t.Setenv("TRIPMAP_CENTER", "north")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for a bad center")
	}
}

func TestURLHelpers(t *testing.T) {
	c := &Config{BaseURL: "https://trip.example.com"}
	if got := c.Absolute("/groups/7/"); got != "https://trip.example.com/groups/7/" {
		t.Fatalf("unexpected absolute url %q", got)
	}
	if got := c.Absolute("https://other.example.com/x"); got != "https://other.example.com/x" {
		t.Fatalf("absolute urls must pass through, got %q", got)
	}
	if got := c.GroupPlacesURL(); got != "" {
		t.Fatalf("expected no listing url by default, got %q", got)
	}
	c.PlacesURL = "api/groups/7/places/"
	if got := c.GroupPlacesURL(); got != "https://trip.example.com/api/groups/7/places/" {
		t.Fatalf("unexpected listing url %q", got)
	}
}

func TestParseLatLng(t *testing.T) {
	if _, err := ParseLatLng("91,0"); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if _, err := ParseLatLng("1;2"); err == nil {
		t.Fatalf("expected format error")
	}
	p, err := ParseLatLng(" 1.5 , 2.5 ")
	if err != nil || p.Lat != 1.5 || p.Lng != 2.5 {
		t.Fatalf("unexpected parse %v %v", p, err)
	}
}
