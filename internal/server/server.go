package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/learnit/internal/config"
	"github.com/nao1215/learnit/internal/store"
	"github.com/nao1215/learnit/pkg/middleware"
	"github.com/rs/zerolog"
)

// shutdownTimeout はグレースフルシャットダウンで処理中のリクエストを待つ上限。
const shutdownTimeout = 10 * time.Second

// Server はlearnit APIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// addr はサーバーのリッスンアドレス。
	addr string
	// queries はユーザーと投稿のクエリ実行オブジェクト。
	queries *store.Queries
	// db はヘルスチェックに使うデータベース接続。
	db *sql.DB
	// jwtSecret はセッショントークンの署名鍵。
	jwtSecret string
	// tokenTTL はセッショントークンの有効期間。
	tokenTTL time.Duration
	// logger は構造化ロガー。
	logger zerolog.Logger
}

// NewServer は新しいlearnitサーバーを生成する。
// stの生存期間は呼び出し側が管理する。
func NewServer(cfg *config.Config, st *store.Store, logger zerolog.Logger) *Server {
	return newServer(cfg, st.Queries, st.DB(), logger)
}

func newServer(cfg *config.Config, queries *store.Queries, db *sql.DB, logger zerolog.Logger) *Server {
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	s := &Server{
		router:    router,
		addr:      cfg.Addr(),
		queries:   queries,
		db:        db,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
		logger:    logger,
	}
	s.setupRoutes()

	return s
}

// Handler はリクエストを処理するhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまでリクエストを処理する。
// キャンセル後は処理中のリクエストの完了を待ってから戻る。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello world")
	})

	// ヘルスチェック
	s.router.GET("/health", s.handleHealth())

	api := s.router.Group("/api")
	{
		// ユーザー登録とログイン（認証不要）
		auth := api.Group("/auth")
		{
			auth.POST("/register", s.handleRegister())
			auth.POST("/login", s.handleLogin())
		}

		posts := api.Group("/posts")
		posts.Use(middleware.JWTAuth(s.jwtSecret))
		{
			posts.GET("", s.handleListPosts())
			posts.POST("", s.handleCreatePost())
			posts.PUT("/:id", s.handleUpdatePost())
			posts.DELETE("/:id", s.handleDeletePost())
		}
	}

	s.router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found")
	})
}

// handleHealth はデータベースへの疎通を含めたヘルスチェックを返すハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			s.logger.Error().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "learnit"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "learnit"})
	}
}
