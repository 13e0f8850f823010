package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TestRequestLogger はRequestLoggerミドルウェアを検証する。
func TestRequestLogger(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, status int, header string) map[string]any {
		t.Helper()

		var buf bytes.Buffer
		router := gin.New()
		router.Use(RequestLogger(zerolog.New(&buf)))
		router.Use(JWTAuth(testSecret))
		router.GET("/test", func(c *gin.Context) {
			c.Status(status)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(httptest.NewRecorder(), req)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("ログのパースに失敗: %v, log=%s", err, buf.String())
		}
		return entry
	}

	t.Run("認証済みリクエストでuser_id付きのinfoログが出力されること", func(t *testing.T) {
		t.Parallel()

		token, err := GenerateJWT(testSecret, "user-log", "logger", time.Hour)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}

		entry := run(t, http.StatusOK, "Bearer "+token)
		if entry["level"] != "info" {
			t.Errorf("level = %v, want info", entry["level"])
		}
		if entry["method"] != http.MethodGet {
			t.Errorf("method = %v, want GET", entry["method"])
		}
		if entry["path"] != "/test" {
			t.Errorf("path = %v, want /test", entry["path"])
		}
		if entry["status"] != float64(http.StatusOK) {
			t.Errorf("status = %v, want 200", entry["status"])
		}
		if entry["user_id"] != "user-log" {
			t.Errorf("user_id = %v, want user-log", entry["user_id"])
		}
	})

	t.Run("認証失敗はwarnレベルでuser_idが出力されないこと", func(t *testing.T) {
		t.Parallel()

		entry := run(t, http.StatusOK, "")
		if entry["level"] != "warn" {
			t.Errorf("level = %v, want warn", entry["level"])
		}
		if entry["status"] != float64(http.StatusUnauthorized) {
			t.Errorf("status = %v, want 401", entry["status"])
		}
		if _, ok := entry["user_id"]; ok {
			t.Errorf("user_idが出力されている: %v", entry["user_id"])
		}
	})
}
