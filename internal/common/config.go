package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment" validate:"omitempty,oneof=development production prod"`
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	LLM         LLMConfig     `toml:"llm"`
	Lookup      LookupConfig  `toml:"lookup"`
	Reports     ReportsConfig `toml:"reports"`
}

type ServerConfig struct {
	Port        int    `toml:"port" validate:"min=1,max=65535"`
	Host        string `toml:"host" validate:"required"`
	MaxUploadMB int64  `toml:"max_upload_mb" validate:"min=1"` // Upload size cap for prescription images
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Format string   `toml:"format" validate:"oneof=text json"`
	Output []string `toml:"output" validate:"min=1,dive,oneof=stdout console file"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for extraction operations (default: "gemini-2.5-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Generation temperature (default: 0.1 for factual extraction)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for extraction operations
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Generation temperature (default: 0.1)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"`
	TemplatesDir    string      `toml:"templates_dir"` // Directory for prompt template overrides (optional)
}

// LookupConfig contains configuration for the medicine lookup browser session
type LookupConfig struct {
	UserAgent        string        `toml:"user_agent"`        // User agent for the headless browser
	Headless         bool          `toml:"headless"`          // Run Chrome headless (default: true)
	PoolSize         int           `toml:"pool_size" validate:"min=1,max=8"`
	SearchURL        string        `toml:"search_url"`        // Search URL template, %s replaced with the query
	PreferredDomains []string      `toml:"preferred_domains"` // Medicine reference sites, in selection priority order
	PageTimeout      time.Duration `toml:"page_timeout"`      // Per-page navigation timeout
	RenderWait       time.Duration `toml:"render_wait"`       // Time to wait for JavaScript rendering
	RateLimit        string        `toml:"rate_limit"`        // Minimum interval between lookups (duration string)
	MaxContentChars  int           `toml:"max_content_chars"` // Cap on markdown passed to the LLM per page
}

// ReportsConfig contains configuration for generated report files
type ReportsConfig struct {
	Dir             string `toml:"dir" validate:"required"` // Directory for generated PDF reports
	Retention       string `toml:"retention"`               // How long report files are kept (duration string)
	CleanupSchedule string `toml:"cleanup_schedule"`        // Cron schedule (with seconds) for the sweep
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for stability; only user-facing
// settings belong in medela.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:        8085,
			Host:        "localhost",
			MaxUploadMB: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-2.5-flash",
			Timeout:     "2m",
			Temperature: 0.1, // Low temperature for factual extraction
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   4096,
			Timeout:     "2m",
			Temperature: 0.1,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
			TemplatesDir:    "",
		},
		Lookup: LookupConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Headless:  true,
			PoolSize:  2,
			SearchURL: "https://duckduckgo.com/html/?q=%s",
			PreferredDomains: []string{
				"1mg.com",
				"apollopharmacy.in",
				"webmd.com",
				"mayoclinic.org",
				"drugs.com",
				"rxlist.com",
				"nih.gov",
				"medlineplus.gov",
				"pharmeasy.in",
				"netmeds.com",
			},
			PageTimeout:     60 * time.Second,
			RenderWait:      3 * time.Second,
			RateLimit:       "2s",
			MaxContentChars: 20000,
		},
		Reports: ReportsConfig{
			Dir:             "./data/reports",
			Retention:       "24h",
			CleanupSchedule: "0 0 * * * *", // Hourly (cron format with seconds)
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Environment variables override all file configs
	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MEDELA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("MEDELA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MEDELA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if maxUpload := os.Getenv("MEDELA_SERVER_MAX_UPLOAD_MB"); maxUpload != "" {
		if m, err := strconv.ParseInt(maxUpload, 10, 64); err == nil {
			config.Server.MaxUploadMB = m
		}
	}

	// Logging configuration
	if level := os.Getenv("MEDELA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("MEDELA_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("MEDELA_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("MEDELA_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("MEDELA_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if timeout := os.Getenv("MEDELA_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if temperature := os.Getenv("MEDELA_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("MEDELA_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // MEDELA_ prefix takes priority
	}
	if model := os.Getenv("MEDELA_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("MEDELA_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("MEDELA_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}

	// LLM provider configuration
	if provider := os.Getenv("MEDELA_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if templatesDir := os.Getenv("MEDELA_LLM_TEMPLATES_DIR"); templatesDir != "" {
		config.LLM.TemplatesDir = templatesDir
	}

	// Lookup configuration
	if userAgent := os.Getenv("MEDELA_LOOKUP_USER_AGENT"); userAgent != "" {
		config.Lookup.UserAgent = userAgent
	}
	if headless := os.Getenv("MEDELA_LOOKUP_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Lookup.Headless = h
		}
	}
	if poolSize := os.Getenv("MEDELA_LOOKUP_POOL_SIZE"); poolSize != "" {
		if ps, err := strconv.Atoi(poolSize); err == nil {
			config.Lookup.PoolSize = ps
		}
	}
	if searchURL := os.Getenv("MEDELA_LOOKUP_SEARCH_URL"); searchURL != "" {
		config.Lookup.SearchURL = searchURL
	}
	if pageTimeout := os.Getenv("MEDELA_LOOKUP_PAGE_TIMEOUT"); pageTimeout != "" {
		if pt, err := time.ParseDuration(pageTimeout); err == nil {
			config.Lookup.PageTimeout = pt
		}
	}
	if renderWait := os.Getenv("MEDELA_LOOKUP_RENDER_WAIT"); renderWait != "" {
		if rw, err := time.ParseDuration(renderWait); err == nil {
			config.Lookup.RenderWait = rw
		}
	}
	if rateLimit := os.Getenv("MEDELA_LOOKUP_RATE_LIMIT"); rateLimit != "" {
		config.Lookup.RateLimit = rateLimit
	}

	// Reports configuration
	if dir := os.Getenv("MEDELA_REPORTS_DIR"); dir != "" {
		config.Reports.Dir = dir
	}
	if retention := os.Getenv("MEDELA_REPORTS_RETENTION"); retention != "" {
		config.Reports.Retention = retention
	}
	if schedule := os.Getenv("MEDELA_REPORTS_CLEANUP_SCHEDULE"); schedule != "" {
		config.Reports.CleanupSchedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Flags have the highest priority.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> config fallback -> error.
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"MEDELA_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"anthropic_api_key": {"MEDELA_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// GeminiTimeout returns the Gemini operation timeout, falling back to 2m.
func (c *Config) GeminiTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Gemini.Timeout); err == nil && d > 0 {
		return d
	}
	return 2 * time.Minute
}

// ClaudeTimeout returns the Claude operation timeout, falling back to 2m.
func (c *Config) ClaudeTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Claude.Timeout); err == nil && d > 0 {
		return d
	}
	return 2 * time.Minute
}

// ReportRetention returns the parsed retention window, falling back to 24h.
func (c *Config) ReportRetention() time.Duration {
	if d, err := time.ParseDuration(c.Reports.Retention); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// LookupInterval returns the parsed minimum interval between lookups.
func (c *Config) LookupInterval() time.Duration {
	if d, err := time.ParseDuration(c.Lookup.RateLimit); err == nil && d > 0 {
		return d
	}
	return 2 * time.Second
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB * 1024 * 1024
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
