package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

type Config struct {
	Port string

	Provider  string // anthropic | gemini | gpt | stub
	MaxTokens int
	Locale    string
	PromptDir string

	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string

	TelegramBotToken string
	WebhookURL       string
	DatabaseURL      string

	LogLevel  string
	LogFormat string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warnf("bad %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

// Load читает окружение. Ключ активного провайдера обязателен.
func Load() *Config {
	c := &Config{
		Port: getEnv("PORT", "8000"),

		Provider:  strings.ToLower(getEnv("LLM_PROVIDER", "anthropic")),
		MaxTokens: getEnvInt("MAX_TOKENS", 1024),
		Locale:    getEnv("LOCALE", "en"),
		PromptDir: getEnv("PROMPT_DIR", ""),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	switch c.Provider {
	case "anthropic", "claude":
		c.Provider = "anthropic"
		c.AnthropicAPIKey = mustEnv("ANTHROPIC_API_KEY")
		if !ValidAnthropicKey(c.AnthropicAPIKey) {
			log.Warn("ANTHROPIC_API_KEY does not look like an Anthropic key (sk-ant-...)")
		}
	case "gemini":
		c.GeminiAPIKey = mustEnv("GEMINI_API_KEY")
	case "gpt", "openai":
		c.Provider = "gpt"
		c.OpenAIAPIKey = mustEnv("OPENAI_API_KEY")
	case "stub":
	default:
		log.Fatalf("unknown LLM_PROVIDER %q; use anthropic, gemini, gpt or stub", c.Provider)
	}
	return c
}

// Credential: ключ активного провайдера.
func (c *Config) Credential() string {
	return c.CredentialFor(c.Provider)
}

// CredentialFor: ключ провайдера по имени. Для stub — фиктивный, чтобы оркестратор собрался.
func (c *Config) CredentialFor(provider string) string {
	switch provider {
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	case "gpt":
		return c.OpenAIAPIKey
	case "stub":
		return "stub"
	}
	return ""
}

func (c *Config) Model() string {
	switch c.Provider {
	case "anthropic":
		return c.AnthropicModel
	case "gemini":
		return c.GeminiModel
	case "gpt":
		return c.OpenAIModel
	}
	return ""
}

// DSN: DATABASE_URL, иначе собирается из POSTGRES_* / PG*.
// Пустая строка — базы нет, история выключена.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	host := getEnv("PGHOST", "")
	if host == "" {
		return ""
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("POSTGRES_USER", "fruit"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     net.JoinHostPort(host, getEnv("PGPORT", "5432")),
		Path:     "/" + getEnv("POSTGRES_DB", "fruit"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// ValidAnthropicKey: проверка формы ключа: префикс sk-ant- и длина больше 20.
func ValidAnthropicKey(key string) bool {
	return strings.HasPrefix(key, "sk-ant-") && len(key) > 20
}

// SetupLogging выбирает обработчик (text|json) и уровень apex/log.
func (c *Config) SetupLogging() error {
	switch strings.ToLower(c.LogFormat) {
	case "json":
		log.SetHandler(jsonhandler.New(os.Stderr))
	case "text", "":
		log.SetHandler(text.New(os.Stderr))
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	lvl, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return fmt.Errorf("bad LOG_LEVEL: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}
