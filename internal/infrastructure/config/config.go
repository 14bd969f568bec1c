package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// Config is built once at process start and passed down explicitly.
type Config struct {
	AppEnv     string           `mapstructure:"app_env"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Ollama     OllamaConfig     `mapstructure:"ollama"`
	DigiKey    DigiKeyConfig    `mapstructure:"digikey"`
	Currency   CurrencyConfig   `mapstructure:"currency"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`

	// LoadedFiles lists the dotenv/config files that contributed values.
	LoadedFiles []string `mapstructure:"-"`
}

type LLMConfig struct {
	Provider  string `mapstructure:"provider" validate:"oneof=gemini openrouter ollama"`
	DebugHTTP bool   `mapstructure:"debug_http"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model" validate:"required"`
}

type OpenRouterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	ModelName string `mapstructure:"model_name"`
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
}

type OllamaConfig struct {
	Model     string `mapstructure:"model"`
	ServerURL string `mapstructure:"server_url" validate:"omitempty,url"`
}

type DigiKeyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url" validate:"required,url"`
	TokenURL     string `mapstructure:"token_url" validate:"required,url"`
	MaxRecords   int    `mapstructure:"max_records" validate:"min=1,max=50"`
}

type CurrencyConfig struct {
	USDPKRRate float64 `mapstructure:"usd_pkr_rate" validate:"gt=0"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Dir   string `mapstructure:"dir"`
}

var defaults = map[string]any{
	"app_env":               "dev",
	"llm.provider":          ProviderGemini,
	"llm.debug_http":        false,
	"gemini.api_key":        "",
	"gemini.model":          "gemini-2.5-flash",
	"openrouter.api_key":    "",
	"openrouter.model_name": "",
	"openrouter.base_url":   "https://openrouter.ai/api/v1",
	"ollama.model":          "llama3.1",
	"ollama.server_url":     "",
	"digikey.client_id":     "",
	"digikey.client_secret": "",
	"digikey.base_url":      "https://api.digikey.com",
	"digikey.token_url":     "https://api.digikey.com/v1/oauth2/token",
	"digikey.max_records":   10,
	"currency.usd_pkr_rate": 278.0,
	"http.addr":             ":8000",
	"log.level":             "info",
	"log.dir":               "",
}

// Env names kept from the original deployment that do not follow the
// section_key scheme.
var legacyEnv = map[string][]string{
	"digikey.client_id":     {"CLIENT_ID", "DIGIKEY_CLIENT_ID"},
	"digikey.client_secret": {"CLIENT_SECRET", "DIGIKEY_CLIENT_SECRET"},
	"digikey.max_records":   {"SEARCH_MAX_RECORDS", "DIGIKEY_MAX_RECORDS"},
	"currency.usd_pkr_rate": {"USD_PKR_RATE", "CURRENCY_USD_PKR_RATE"},
}

// Load reads .env files, an optional YAML file and the environment, in
// increasing order of precedence. configPath may be empty.
func Load(configPath string) (*Config, error) {
	loaded := loadDotEnv()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
		loaded = append(loaded, configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else {
			loaded = append(loaded, v.ConfigFileUsed())
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LoadedFiles = loaded

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() []string {
	var loaded []string

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err == nil {
		loaded = append(loaded, ".env")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		loaded = append(loaded, envFile)
	}

	return loaded
}

func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(providerCredentials, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func providerCredentials(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	switch cfg.LLM.Provider {
	case ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			sl.ReportError(cfg.Gemini.APIKey, "Gemini.APIKey", "APIKey", "required_for_provider", ProviderGemini)
		}
	case ProviderOpenRouter:
		if cfg.OpenRouter.APIKey == "" {
			sl.ReportError(cfg.OpenRouter.APIKey, "OpenRouter.APIKey", "APIKey", "required_for_provider", ProviderOpenRouter)
		}
		if cfg.OpenRouter.ModelName == "" {
			sl.ReportError(cfg.OpenRouter.ModelName, "OpenRouter.ModelName", "ModelName", "required_for_provider", ProviderOpenRouter)
		}
	case ProviderOllama:
		if cfg.Ollama.Model == "" {
			sl.ReportError(cfg.Ollama.Model, "Ollama.Model", "Model", "required_for_provider", ProviderOllama)
		}
	}
}
