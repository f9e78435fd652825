package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Map provider identifiers accepted in MAP_PROVIDER.
const (
	ProviderGoogle   = "google"
	ProviderOSM      = "osm"
	ProviderMapTiler = "maptiler"
)

// Storage backend identifiers accepted in STORAGE_BACKEND.
const (
	StorageS3         = "s3"
	StorageFilesystem = "filesystem"
	StorageInline     = "inline"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	MapProvider      string
	GoogleMapsAPIKey string
	MapTilerAPIKey   string
	MapTilerStyle    string
	OSMBaseURL       string

	DefaultZoom  int
	DefaultTheme string
	DefaultSize  int
	MinSize      int
	MaxSize      int

	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderSpacing   time.Duration
	OutboundTimeout   time.Duration

	StorageBackend string
	OutputBucket   string
	StoragePrefix  string

	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
	SignURLs          bool
	SignedURLTTL      time.Duration

	StorageDir     string
	StorageBaseURL string

	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Deployment problems (a keyed map provider without
// its key, the s3 backend without a bucket) are reported here so the process
// refuses to start instead of failing every request.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		MapProvider:      getEnv("MAP_PROVIDER", ProviderOSM),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		MapTilerAPIKey:   os.Getenv("MAPTILER_API_KEY"),
		MapTilerStyle:    getEnv("MAPTILER_STYLE", "streets-v2"),
		OSMBaseURL:       getEnv("OSM_STATICMAP_URL", "https://staticmap.openstreetmap.de"),

		DefaultZoom:  getEnvInt("DEFAULT_ZOOM", 16),
		DefaultTheme: getEnv("DEFAULT_THEME", "dark"),
		DefaultSize:  getEnvInt("DEFAULT_SIZE", 2048),
		MinSize:      getEnvInt("MIN_SIZE", 512),
		MaxSize:      getEnvInt("MAX_SIZE", 4096),

		GeocoderBaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "mapposter/1.0 (poster rendering service)"),
		GeocoderSpacing:   time.Millisecond * time.Duration(getEnvInt("GEOCODER_SPACING_MS", 1000)),
		OutboundTimeout:   time.Second * time.Duration(getEnvInt("OUTBOUND_TIMEOUT_SECONDS", 25)),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageInline),
		OutputBucket:   os.Getenv("OUTPUT_BUCKET"),
		StoragePrefix:  strings.Trim(getEnv("STORAGE_PREFIX", "renders"), "/"),

		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
		SignURLs:          getEnvBool("SIGN_URLS", false),
		SignedURLTTL:      time.Second * time.Duration(getEnvInt("SIGNED_URL_EXP_SECONDS", 3600)),

		StorageDir:     getEnv("STORAGE_DIR", "./data/renders"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),

		AllowedOrigins:   splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.MapProvider {
	case ProviderOSM:
	case ProviderGoogle:
		if cfg.GoogleMapsAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required when MAP_PROVIDER=google")
		}
	case ProviderMapTiler:
		if cfg.MapTilerAPIKey == "" {
			return nil, fmt.Errorf("MAPTILER_API_KEY is required when MAP_PROVIDER=maptiler")
		}
	default:
		return nil, fmt.Errorf("unsupported MAP_PROVIDER %q", cfg.MapProvider)
	}

	switch cfg.StorageBackend {
	case StorageInline, StorageFilesystem:
	case StorageS3:
		if cfg.OutputBucket == "" {
			return nil, fmt.Errorf("OUTPUT_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.MinSize <= 0 || cfg.MaxSize < cfg.MinSize {
		return nil, fmt.Errorf("invalid size bounds [%d, %d]", cfg.MinSize, cfg.MaxSize)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
