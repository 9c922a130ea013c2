// Package config loads tripmap settings from .env, an optional YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/tripmap/internal/model"
)

const (
	SourceKakao = "kakao"
	SourceLocal = "local"
)

// Config holds every runtime setting.
type Config struct {
	Env          string
	BaseURL      string
	GroupID      int
	PlaceLinkID  int
	PlacesURL    string
	SearchSource string
	PageSize     int
	HTTPTimeout  time.Duration

	KakaoRESTKey   string
	KakaoBaseURL   string
	KakaoRateLimit float64

	Center model.LatLng
	Level  int

	LogFile string
	Theme   string
	DataDir string
}

// fileConfig mirrors the YAML file; zero values mean "not set".
type fileConfig struct {
	Env          string  `yaml:"env"`
	BaseURL      string  `yaml:"base_url"`
	GroupID      int     `yaml:"group_id"`
	PlaceLinkID  int     `yaml:"place_link_id"`
	PlacesURL    string  `yaml:"places_url"`
	SearchSource string  `yaml:"search_source"`
	PageSize     int     `yaml:"page_size"`
	HTTPTimeout  string  `yaml:"http_timeout"`
	Theme        string  `yaml:"theme"`
	LogFile      string  `yaml:"log_file"`
	Center       string  `yaml:"center"`
	Level        int     `yaml:"level"`
	Kakao        kakaoFC `yaml:"kakao"`
}

type kakaoFC struct {
	RESTKey   string  `yaml:"rest_key"`
	BaseURL   string  `yaml:"base_url"`
	RateLimit float64 `yaml:"rate_limit"`
}

// Load reads .env (if present), the YAML file at TRIPMAP_CONFIG or
// <dataDir>/config.yaml (if present) and then the environment.
func Load(dataDir string) (*Config, error) {
	_ = godotenv.Load()

	fc, err := loadFile(getEnv("TRIPMAP_CONFIG", filepath.Join(dataDir, "config.yaml")))
	if err != nil {
		return nil, err
	}

	center, err := ParseLatLng(getEnv("TRIPMAP_CENTER", orDefault(fc.Center, "37.5665,126.9780")))
	if err != nil {
		return nil, fmt.Errorf("TRIPMAP_CENTER: %w", err)
	}

	kakaoKey := getEnv("KAKAO_REST_API_KEY", fc.Kakao.RESTKey)
	source := strings.ToLower(getEnv("TRIPMAP_SEARCH_SOURCE", fc.SearchSource))
	if source == "" {
		source = SourceLocal
		if kakaoKey != "" {
			source = SourceKakao
		}
	}
	if source != SourceKakao && source != SourceLocal {
		return nil, fmt.Errorf("TRIPMAP_SEARCH_SOURCE: unknown source %q", source)
	}

	cfg := &Config{
		Env:            getEnv("TRIPMAP_ENV", orDefault(fc.Env, "production")),
		BaseURL:        strings.TrimRight(getEnv("TRIPMAP_BASE_URL", orDefault(fc.BaseURL, "http://localhost:8000")), "/"),
		GroupID:        mustInt(getEnv("TRIPMAP_GROUP_ID", strconv.Itoa(fc.GroupID))),
		PlaceLinkID:    mustInt(getEnv("TRIPMAP_PLACE_LINK_ID", strconv.Itoa(fc.PlaceLinkID))),
		PlacesURL:      getEnv("TRIPMAP_PLACES_URL", fc.PlacesURL),
		SearchSource:   source,
		PageSize:       mustInt(getEnv("TRIPMAP_PAGE_SIZE", strconv.Itoa(orDefaultInt(fc.PageSize, 5)))),
		HTTPTimeout:    mustDuration(getEnv("TRIPMAP_HTTP_TIMEOUT", orDefault(fc.HTTPTimeout, "0s"))),
		KakaoRESTKey:   kakaoKey,
		KakaoBaseURL:   strings.TrimRight(getEnv("KAKAO_API_URL", orDefault(fc.Kakao.BaseURL, "https://dapi.kakao.com")), "/"),
		KakaoRateLimit: mustFloat(getEnv("KAKAO_RATE_LIMIT", strconv.FormatFloat(orDefaultFloat(fc.Kakao.RateLimit, 5), 'f', -1, 64))),
		Center:         center,
		Level:          mustInt(getEnv("TRIPMAP_LEVEL", strconv.Itoa(orDefaultInt(fc.Level, 3)))),
		LogFile:        getEnv("TRIPMAP_LOG_FILE", orDefault(fc.LogFile, filepath.Join(dataDir, "tripmap.log"))),
		Theme:          getEnv("TRIPMAP_THEME", orDefault(fc.Theme, "classic")),
		DataDir:        dataDir,
	}
	if cfg.PageSize < 1 || cfg.PageSize > 15 {
		cfg.PageSize = 5
	}
	if cfg.SearchSource == SourceKakao && cfg.KakaoRESTKey == "" {
		return nil, fmt.Errorf("KAKAO_REST_API_KEY is required for the kakao search source")
	}
	return cfg, nil
}

// CreateURL is the group place create endpoint.
func (c *Config) CreateURL() string {
	return fmt.Sprintf("%s/api/groups/%d/places_create/", c.BaseURL, c.GroupID)
}

// UpdateURL is the place link update endpoint.
func (c *Config) UpdateURL(linkID int) string {
	return fmt.Sprintf("%s/api/edit_place_link/%d/", c.BaseURL, linkID)
}

// SearchURL is the server-side place search endpoint.
func (c *Config) SearchURL() string {
	return fmt.Sprintf("%s/api/groups/%d/places/search/", c.BaseURL, c.GroupID)
}

// GroupPlacesURL is the listing used by the group map. An explicit
// TRIPMAP_PLACES_URL wins; relative values are resolved against BaseURL.
func (c *Config) GroupPlacesURL() string {
	switch {
	case c.PlacesURL == "":
		return ""
	case strings.HasPrefix(c.PlacesURL, "http://"), strings.HasPrefix(c.PlacesURL, "https://"):
		return c.PlacesURL
	default:
		return c.BaseURL + "/" + strings.TrimLeft(c.PlacesURL, "/")
	}
}

// Absolute resolves a server-relative redirect path.
func (c *Config) Absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (model.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.LatLng{}, fmt.Errorf("want \"lat,lng\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.LatLng{}, fmt.Errorf("lat: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.LatLng{}, fmt.Errorf("lng: %w", err)
	}
	p := model.LatLng{Lat: lat, Lng: lng}
	if !p.Valid() {
		return model.LatLng{}, fmt.Errorf("out of range: %q", s)
	}
	return p, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func mustInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
