package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`
	UploadDir       string        `mapstructure:"UPLOAD_DIR"`
	LLMProvider     string        `mapstructure:"LLM_PROVIDER"`
	LLMAPIKey       string        `mapstructure:"LLM_API_KEY"`
	LLMVisionAPIKey string        `mapstructure:"LLM_VISION_API_KEY"`
	LLMBaseURL      string        `mapstructure:"LLM_BASE_URL"`
	LLMTextModel    string        `mapstructure:"LLM_TEXT_MODEL"`
	LLMVisionModel  string        `mapstructure:"LLM_VISION_MODEL"`
	LLMTimeout      time.Duration `mapstructure:"LLM_TIMEOUT"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("UPLOAD_DIR", "upload")
	v.SetDefault("LLM_PROVIDER", "groq")
	v.SetDefault("LLM_TEXT_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("LLM_VISION_MODEL", "gemini-1.5-flash")
	v.SetDefault("LLM_TIMEOUT", "30s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
