// Package store はlearnitの永続化層を提供する。
//
// SQLite（modernc.org/sqlite）上にユーザーと投稿を保存する。
// 投稿に対する参照・更新・削除はすべて所有者IDで絞り込み、
// 他人の投稿は存在しないものとして扱う。
// スキーマはmigrationsディレクトリのSQLを起動時に適用する。
package store
