package server

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// respondError は {success:false, message} 形式のエラーレスポンスを返す。
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// bindJSON はリクエストボディをdstにデコードする。
// ボディが空の場合はエラーにせず、dstをゼロ値のまま残す。
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
