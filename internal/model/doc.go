// Package model はlearnitのドメインモデルを定義する。
//
// ユーザー（User）と学習リンク（Post）、学習ステータス、
// URLの正規化ルールを含む。永続化やHTTPの詳細には依存しない。
package model
