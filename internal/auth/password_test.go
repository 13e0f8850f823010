package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword()でエラーが発生: %v", err)
	}
	if hash == "pw1" || !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("bcryptハッシュではない: %q", hash)
	}

	if err := VerifyPassword(hash, "pw1"); err != nil {
		t.Errorf("正しいパスワードで照合に失敗: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword() error = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerifyPassword_BrokenHash(t *testing.T) {
	t.Parallel()

	err := VerifyPassword("not-a-bcrypt-hash", "pw")
	if err == nil {
		t.Fatal("壊れたハッシュでエラーが返らない")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("壊れたハッシュはErrPasswordMismatchと区別されるべき")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	// bcryptは72バイトを超える入力を拒否する
	if _, err := HashPassword(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("HashPassword() error = %v, want ErrPasswordTooLong", err)
	}
	if _, err := HashPassword(strings.Repeat("a", 72)); err != nil {
		t.Errorf("72バイトのパスワードでエラーが発生: %v", err)
	}
}
