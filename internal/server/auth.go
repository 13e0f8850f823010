package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/learnit/internal/auth"
	"github.com/nao1215/learnit/internal/store"
	"github.com/nao1215/learnit/pkg/middleware"
)

// credentialsRequest はユーザー登録・ログインリクエストのJSON構造。
type credentialsRequest struct {
	// Username はユーザー名。前後の空白は除く。
	Username string `json:"username"`
	// Password は平文パスワード。
	Password string `json:"password"`
}

const (
	msgMissingCredentials   = "Missing username and/or password"
	msgIncorrectCredentials = "Incorrect username or password"
	msgUsernameTaken        = "Username already taken"
)

// handleRegister はユーザー登録を処理するハンドラを返す。
// 登録のみを行い、トークンは発行しない。ログインは別途行う。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" || req.Password == "" {
			respondError(c, http.StatusBadRequest, msgMissingCredentials)
			return
		}

		ctx := c.Request.Context()
		_, err := s.queries.GetUserByUsername(ctx, username)
		switch {
		case err == nil:
			respondError(c, http.StatusBadRequest, msgUsernameTaken)
			return
		case !errors.Is(err, store.ErrNotFound):
			s.logError(c, err, "failed to look up user")
			respondError(c, http.StatusBadRequest, "Failed to register user")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if errors.Is(err, auth.ErrPasswordTooLong) {
			respondError(c, http.StatusBadRequest, "Password must be at most 72 bytes")
			return
		}
		if err != nil {
			s.logError(c, err, "failed to hash password")
			respondError(c, http.StatusBadRequest, "Failed to register user")
			return
		}

		// 事前確認と登録の間に同名ユーザーが作られた場合はUNIQUE制約で検出する
		user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
			Username:     username,
			PasswordHash: hash,
		})
		if errors.Is(err, store.ErrUsernameTaken) {
			respondError(c, http.StatusBadRequest, msgUsernameTaken)
			return
		}
		if err != nil {
			s.logError(c, err, "failed to create user")
			respondError(c, http.StatusBadRequest, "Failed to register user")
			return
		}

		s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User created successfully",
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// ユーザーが存在しない場合とパスワード不一致の場合は同じエラーを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" || req.Password == "" {
			respondError(c, http.StatusBadRequest, msgMissingCredentials)
			return
		}

		user, err := s.queries.GetUserByUsername(c.Request.Context(), username)
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusBadRequest, msgIncorrectCredentials)
			return
		}
		if err != nil {
			s.logError(c, err, "failed to look up user")
			respondError(c, http.StatusBadRequest, "Failed to log in")
			return
		}

		if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
			if !errors.Is(err, auth.ErrPasswordMismatch) {
				s.logError(c, err, "failed to verify password")
			}
			respondError(c, http.StatusBadRequest, msgIncorrectCredentials)
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, user.ID, user.Username, s.tokenTTL)
		if err != nil {
			s.logError(c, err, "failed to issue token")
			respondError(c, http.StatusBadRequest, "Failed to log in")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Logged in successfully",
			"token":    token,
			"username": user.Username,
		})
	}
}

// logError は想定外のエラーをログに記録し、リクエストログにも残す。
func (s *Server) logError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	s.logger.Error().
		Err(err).
		Str("path", c.FullPath()).
		Str("user_id", middleware.GetUserID(c)).
		Msg(msg)
}
