// Package server はlearnit APIのHTTPサーバーを提供する。
//
// 認証不要の /api/auth（ユーザー登録・ログイン）と、
// セッショントークン必須の /api/posts（学習リンクのCRUD）を公開する。
// 投稿はすべて所有者で絞り込み、存在しない投稿と他人の投稿は
// 呼び出し側から区別できないようにする。
package server
