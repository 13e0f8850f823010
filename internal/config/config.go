// Package config はlearnitサーバーの設定を環境変数から読み込む。
//
// カレントディレクトリに .env があれば先に読み込むが、
// 既に設定されている環境変数は上書きしない。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// 既定値。
const (
	defaultPort        = "5001"
	defaultDBPath      = "learnit.db"
	defaultTokenTTL    = 24 * time.Hour
	defaultCORSOrigins = "http://localhost:3000"
	defaultLogLevel    = "info"
	devJWTSecret       = "dev-secret-key"
)

// EnvDevelopment は開発環境を表すAPP_ENVの値。
const EnvDevelopment = "development"

// ErrMissingJWTSecret は本番相当の環境でJWT_SECRETが未設定であることを表す。
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Config はサーバーの設定値。
type Config struct {
	// Env は実行環境（APP_ENV）。
	Env string
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string
	// JWTSecret はセッショントークンの署名鍵。
	JWTSecret string
	// TokenTTL はセッショントークンの有効期間。
	TokenTTL time.Duration
	// CORSOrigins はCORSで許可するオリジン。
	CORSOrigins []string
	// LogLevel はログの出力レベル。
	LogLevel zerolog.Level
}

// Load は .env と環境変数から設定を読み込む。
// .env が存在しない場合は環境変数のみを使う。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(".envの読み込みに失敗: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv はgetenvで取得した値から設定を組み立てる。
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, defaultValue string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return defaultValue
	}

	cfg := &Config{
		Env:       get("APP_ENV", EnvDevelopment),
		Port:      get("PORT", defaultPort),
		DBPath:    get("DB_PATH", defaultDBPath),
		JWTSecret: getenv("JWT_SECRET"),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != EnvDevelopment {
			return nil, ErrMissingJWTSecret
		}
		cfg.JWTSecret = devJWTSecret
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", defaultTokenTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTLが不正です: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTLは正の値である必要があります: %s", ttl)
	}
	cfg.TokenTTL = ttl

	level, err := zerolog.ParseLevel(get("LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVELが不正です: %w", err)
	}
	cfg.LogLevel = level

	for _, o := range strings.Split(get("CORS_ORIGINS", defaultCORSOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// UsesDevJWTSecret はJWT_SECRETが未設定で開発用の署名鍵にフォールバックしたかを返す。
func (c *Config) UsesDevJWTSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Addr はHTTPサーバーのリッスンアドレスを返す。
func (c *Config) Addr() string {
	return ":" + c.Port
}
