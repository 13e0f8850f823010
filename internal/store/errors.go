package store

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound は条件に一致するレコードが無いことを表す。
	// 投稿の場合、存在しないのか他人の投稿なのかは区別しない。
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken はユーザー名が既に登録されていることを表す。
	ErrUsernameTaken = errors.New("username already taken")
)

// notFound はsql.ErrNoRowsをErrNotFoundに置き換える。
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation はUNIQUE制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
