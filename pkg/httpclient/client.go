package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/learnit/internal/model"
)

// APIError はAPIが2xx以外で応答したことを表す。
type APIError struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Message はレスポンスのmessageフィールド。
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, message=%s", e.StatusCode, e.Message)
}

// Client はlearnit APIのHTTPクライアント。
// WithTokenで得たクライアントは投稿APIにBearerトークンを付与する。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL はAPIサーバーのベースURL。
	baseURL string
	// token はAuthorizationヘッダーに付与するセッショントークン。
	token string
}

// New は新しいAPIクライアントを生成する。
// baseURLにはAPIサーバーのベースURL（例: "http://localhost:5001"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// WithToken はtokenを付与してリクエストするクライアントを返す。元のクライアントは変更しない。
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Credentials はユーザー登録・ログインの入力。
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PostInput は投稿の作成・更新の入力。
type PostInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Status      string `json:"status,omitempty"`
}

// envelope はAPIレスポンスの共通形式。
type envelope struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Token    string       `json:"token,omitempty"`
	Username string       `json:"username,omitempty"`
	Post     *model.Post  `json:"post,omitempty"`
	Posts    []model.Post `json:"posts,omitempty"`
}

// Register はユーザーを登録する。トークンは発行されないため、続けてLoginを呼ぶ。
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	var resp envelope
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", creds, &resp)
}

// Login はログインしてセッショントークンを返す。
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp envelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListPosts はログインユーザーの投稿一覧を取得する。
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var resp envelope
	if err := c.doJSON(ctx, http.MethodGet, "/api/posts", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Posts == nil {
		return []model.Post{}, nil
	}
	return resp.Posts, nil
}

// CreatePost は投稿を作成し、作成された投稿を返す。
func (c *Client) CreatePost(ctx context.Context, in PostInput) (model.Post, error) {
	return c.doPost(ctx, http.MethodPost, "/api/posts", in)
}

// UpdatePost は投稿を上書きし、更新後の投稿を返す。
func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (model.Post, error) {
	return c.doPost(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), in)
}

// DeletePost は投稿を削除し、削除前の投稿を返す。
func (c *Client) DeletePost(ctx context.Context, id string) (model.Post, error) {
	return c.doPost(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil)
}

// doPost は単一の投稿を返すAPIを呼び出す。
func (c *Client) doPost(ctx context.Context, method, path string, body any) (model.Post, error) {
	var resp envelope
	if err := c.doJSON(ctx, method, path, body, &resp); err != nil {
		return model.Post{}, err
	}
	if resp.Post == nil {
		return model.Post{}, fmt.Errorf("レスポンスにpostが含まれていない: %s %s", method, path)
	}
	return *resp.Post, nil
}

// doJSON はJSON形式のHTTPリクエストを実行する共通処理。
// 2xx以外の応答は*APIErrorとして返す。
func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var e envelope
		if json.Unmarshal(respBody, &e) == nil && e.Message != "" {
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return nil
}
