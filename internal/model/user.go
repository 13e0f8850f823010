package model

import "time"

// User は登録済みユーザーを表す。
// 登録後は変更されず、公開された操作で削除されることもない。
type User struct {
	// ID はユーザーの一意識別子（UUID）。
	ID string `json:"id"`
	// Username はログインに使うユーザー名。システム内で一意。
	Username string `json:"username"`
	// PasswordHash はbcryptでハッシュ化したパスワード。レスポンスには含めない。
	PasswordHash string `json:"-"`
	// CreatedAt は登録日時。
	CreatedAt time.Time `json:"created_at"`
}
