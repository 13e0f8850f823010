// learnitサーバーのエントリポイント。
// 学習リンクを管理するREST APIを提供する。
// SIGINT/SIGTERMを受け取ると処理中のリクエストを待ってから終了する。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/learnit/internal/config"
	"github.com/nao1215/learnit/internal/server"
	"github.com/nao1215/learnit/internal/store"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "learnit").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("設定の読み込みに失敗")
	}
	logger = logger.Level(cfg.LogLevel)
	if cfg.UsesDevJWTSecret() {
		logger.Warn().Str("env", cfg.Env).Msg("JWT_SECRETが未設定のため開発用の署名鍵を使用します。本番環境ではAPP_ENVとJWT_SECRETを設定してください")
	}

	if cfg.Env != config.EnvDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("learnitサーバーが異常終了")
		os.Exit(1)
	}
}

// run はデータベースを開いてHTTPサーバーを起動し、ctxがキャンセルされるまで待つ。
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	st, err := store.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("データベースのクローズに失敗")
		}
	}()

	logger.Info().Str("env", cfg.Env).Str("db_path", cfg.DBPath).Msg("learnitサーバーを起動します")
	return server.NewServer(cfg, st, logger).Run(ctx)
}
