// Package auth はパスワードのハッシュ化と照合を提供する。
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordMismatch はパスワードがハッシュと一致しないことを表す。
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrPasswordTooLong はbcryptが扱えない長さ（72バイト超）のパスワードを表す。
	ErrPasswordTooLong = errors.New("password too long")
)

// maxPasswordBytes はbcryptが受け付ける入力の最大バイト数。
const maxPasswordBytes = 72

// HashPassword は平文パスワードをbcryptでハッシュ化する。
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードと保存済みハッシュを照合する。
// 一致しない場合はErrPasswordMismatchを返す。
func VerifyPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("パスワードの照合に失敗: %w", err)
	}
	return nil
}
