package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shouni/nano-banana-cli/pkg/domain"
)

const (
	appName   = "nanobanana"
	envPrefix = "NANOBANANA"
	// APIKeyURL は API キー未設定時に案内する取得先です。
	APIKeyURL = "https://aistudio.google.com/apikey"
)

// APIKeyEnvVars は API キーを探す環境変数の優先順です。
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// Config は環境変数と設定ファイルから読み込む既定値です。CLI フラグが常に優先されます。
type Config struct {
	Resolution   string
	Pro          bool
	OutputPrefix string
	Timeout      time.Duration
	LogLevel     string

	// ResolutionSource は Resolution の読み込み元 (環境変数名または設定ファイルのパス) です。
	ResolutionSource string
}

// Dir は設定ディレクトリ ($XDG_CONFIG_HOME/nanobanana または ~/.config/nanobanana) を返します。
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// LoadDotEnv は存在する .env ファイルだけを読み込みます。既に設定済みの環境変数は上書きしません。
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return fmt.Errorf("failed to check %s: %w", p, err)
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("could not load %s: %w", p, err)
		}
	}
	return nil
}

// Load は .env と config.yaml、NANOBANANA_* 環境変数から既定値を読み込みます。
// dir が空の場合は Dir() を使います。
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = Dir()
	}

	dotenvs := []string{".env"}
	if dir != "" {
		dotenvs = append(dotenvs, filepath.Join(dir, ".env"))
	}
	if err := LoadDotEnv(dotenvs...); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("resolution", "")
	v.SetDefault("pro", false)
	v.SetDefault("output-prefix", "")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("log-level", "warn")

	if dir != "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Resolution:   v.GetString("resolution"),
		Pro:          v.GetBool("pro"),
		OutputPrefix: v.GetString("output-prefix"),
		Timeout:      v.GetDuration("timeout"),
		LogLevel:     v.GetString("log-level"),
	}
	if cfg.Resolution != "" {
		if env := envPrefix + "_RESOLUTION"; os.Getenv(env) != "" {
			cfg.ResolutionSource = env
		} else if v.InConfig("resolution") {
			cfg.ResolutionSource = v.ConfigFileUsed()
		}
	}
	return cfg, nil
}

// APIKey は GEMINI_API_KEY、なければ GOOGLE_API_KEY を返します。
// どちらもない場合は ConfigurationError です。
func APIKey() (string, error) {
	for _, name := range APIKeyEnvVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key, nil
		}
	}
	return "", domain.ConfigurationError("GEMINI_API_KEY environment variable not set.\nGet your API key at: %s", APIKeyURL)
}
