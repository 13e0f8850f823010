// Package httpclient はlearnit APIを呼び出すHTTPクライアントを提供する。
//
// ユーザー登録とログイン、投稿のCRUDをメソッドとして公開する。
// 2xx以外の応答はステータスコードとmessageを持つ*APIErrorとして返す。
package httpclient
