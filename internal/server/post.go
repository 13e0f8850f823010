package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/learnit/internal/model"
	"github.com/nao1215/learnit/internal/store"
	"github.com/nao1215/learnit/pkg/middleware"
)

// postRequest は投稿の作成・更新リクエストのJSON構造。
type postRequest struct {
	// Title はタイトル。必須。
	Title string `json:"title"`
	// Description は説明。省略時は空文字列。
	Description string `json:"description"`
	// URL はリンク先。必須。https:// が無ければ付与する。
	URL string `json:"url"`
	// Status は学習ステータス。省略時は "TO LEARN"。
	Status string `json:"status"`
}

// msgPostNotFound は存在しない投稿と他人の投稿に共通のメッセージ。
const msgPostNotFound = "Post not found or user not authorized"

// validPost は検証と正規化を終えた投稿の内容。
type validPost struct {
	title       string
	description string
	url         string
	status      model.Status
}

// bindPost はリクエストボディを読み取り、検証と正規化を行う。
// 失敗した場合はレスポンスを書き込んでfalseを返す。
func bindPost(c *gin.Context) (validPost, bool) {
	var req postRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return validPost{}, false
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondError(c, http.StatusBadRequest, "Title is required")
		return validPost{}, false
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(c, http.StatusBadRequest, "URL is required")
		return validPost{}, false
	}

	return validPost{
		title:       title,
		description: req.Description,
		url:         model.NormalizeURL(req.URL),
		status:      model.NormalizeStatus(req.Status),
	}, true
}

// requireUserID はJWTAuthが設定したユーザーIDを取得する。
// 取得できない場合は401を書き込んで空文字列を返す。
func requireUserID(c *gin.Context) string {
	userID := middleware.GetUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "Access token not found")
	}
	return userID
}

// handleListPosts はログインユーザーの投稿一覧取得を処理するハンドラを返す。
func (s *Server) handleListPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := requireUserID(c)
		if userID == "" {
			return
		}

		posts, err := s.queries.ListPostsByUserID(c.Request.Context(), userID)
		if err != nil {
			s.logError(c, err, "failed to list posts")
			respondError(c, http.StatusBadRequest, "Failed to load posts")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"posts":   posts,
		})
	}
}

// handleCreatePost は投稿の作成を処理するハンドラを返す。
// 作成した投稿の所有者はログインユーザーになる。
func (s *Server) handleCreatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := requireUserID(c)
		if userID == "" {
			return
		}

		in, ok := bindPost(c)
		if !ok {
			return
		}

		post, err := s.queries.CreatePost(c.Request.Context(), store.CreatePostParams{
			UserID:      userID,
			Title:       in.title,
			Description: in.description,
			URL:         in.url,
			Status:      in.status,
		})
		if err != nil {
			s.logError(c, err, "failed to create post")
			respondError(c, http.StatusBadRequest, "Failed to create post")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Create post successfully",
			"post":    post,
		})
	}
}

// handleUpdatePost は投稿の更新を処理するハンドラを返す。
// 所有者以外の更新と存在しない投稿の更新はどちらも401になる。
func (s *Server) handleUpdatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := requireUserID(c)
		if userID == "" {
			return
		}

		in, ok := bindPost(c)
		if !ok {
			return
		}

		post, err := s.queries.UpdatePostByOwner(c.Request.Context(), store.UpdatePostParams{
			ID:          c.Param("id"),
			UserID:      userID,
			Title:       in.title,
			Description: in.description,
			URL:         in.url,
			Status:      in.status,
		})
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, msgPostNotFound)
			return
		}
		if err != nil {
			s.logError(c, err, "failed to update post")
			respondError(c, http.StatusBadRequest, "Failed to update post")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Update post successfully",
			"post":    post,
		})
	}
}

// handleDeletePost は投稿の削除を処理するハンドラを返す。
// 削除前の投稿を返す。所有者以外の削除と存在しない投稿の削除はどちらも401になる。
func (s *Server) handleDeletePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := requireUserID(c)
		if userID == "" {
			return
		}

		post, err := s.queries.DeletePostByOwner(c.Request.Context(), c.Param("id"), userID)
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, msgPostNotFound)
			return
		}
		if err != nil {
			s.logError(c, err, "failed to delete post")
			respondError(c, http.StatusBadRequest, "Failed to delete post")
			return
		}

		s.logger.Info().Str("user_id", userID).Str("post_id", post.ID).Msg("post deleted")
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Delete post successfully",
			"post":    post,
		})
	}
}
