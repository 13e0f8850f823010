package model

import (
	"strings"
	"time"
)

// Status は学習ステータスを表す。
type Status string

const (
	// StatusToLearn はこれから学ぶ状態。ステータス未指定時の既定値。
	StatusToLearn Status = "TO LEARN"
	// StatusLearning は学習中の状態。
	StatusLearning Status = "LEARNING"
	// StatusLearned は学習済みの状態。
	StatusLearned Status = "LEARNED"
)

// urlScheme はPostのURLに必須のスキーム接頭辞。
const urlScheme = "https://"

// Owner はPostの所有者の要約。一覧取得時にユーザー名を解決して埋める。
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Post はユーザーが登録した学習リンクを表す。
// 所有者（User.ID）はちょうど1人で、所有者だけが参照・更新・削除できる。
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Status      Status    `json:"status"`
	User        Owner     `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeURL は前後の空白を除き、"https://" で始まらないURLに接頭辞を付ける。
// 何度適用しても結果は変わらない。
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if strings.HasPrefix(u, urlScheme) {
		return u
	}
	return urlScheme + u
}

// NormalizeStatus は空のステータスをStatusToLearnに置き換える。
// それ以外の値は既知のステータスでなくてもそのまま受け入れる。
func NormalizeStatus(raw string) Status {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StatusToLearn
	}
	return Status(s)
}
