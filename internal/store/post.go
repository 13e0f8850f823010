package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nao1215/learnit/internal/model"
)

// postColumns は投稿の取得で共通して読み出すカラム。
const postColumns = `id, title, description, url, status, user_id, created_at, updated_at`

// CreatePostParams は投稿作成の入力。値は呼び出し側で正規化済みであること。
type CreatePostParams struct {
	UserID      string
	Title       string
	Description string
	URL         string
	Status      model.Status
}

const createPost = `
INSERT INTO posts (id, user_id, title, description, url, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

// CreatePost はUserIDを所有者とする投稿を作成し、所有者のユーザー名を解決して返す。
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	now := formatTime(q.now())
	row := q.db.QueryRowContext(ctx, createPost,
		uuid.New().String(), arg.UserID, arg.Title, arg.Description, arg.URL, string(arg.Status), now, now)
	p, err := scanPost(row)
	if err != nil {
		return model.Post{}, fmt.Errorf("投稿の作成に失敗: %w", err)
	}
	return q.withOwner(ctx, p)
}

const listPostsByUserID = `
SELECT p.id, p.title, p.description, p.url, p.status, p.user_id, p.created_at, p.updated_at, u.username
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.user_id = ?
ORDER BY p.created_at, p.rowid
`

// ListPostsByUserID は所有者の投稿を作成順に返す。各投稿には所有者のユーザー名が入る。
// 投稿が無い場合は空スライスを返す。
func (q *Queries) ListPostsByUserID(ctx context.Context, userID string) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, listPostsByUserID, userID)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var username string
		p, err := scanPost(rows, &username)
		if err != nil {
			return nil, fmt.Errorf("投稿の読み取りに失敗: %w", err)
		}
		p.User.Username = username
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗: %w", err)
	}
	return posts, nil
}

// UpdatePostParams は投稿更新の入力。IDとUserIDの両方に一致する投稿だけが更新される。
type UpdatePostParams struct {
	ID          string
	UserID      string
	Title       string
	Description string
	URL         string
	Status      model.Status
}

const updatePostByOwner = `
UPDATE posts
SET title = ?, description = ?, url = ?, status = ?, updated_at = ?
WHERE id = ? AND user_id = ?
RETURNING ` + postColumns

// UpdatePostByOwner は所有者の投稿を1文で上書きし、更新後の状態を返す。
// 一致する投稿が無い場合（存在しない、または他人の投稿）はErrNotFoundを返す。
func (q *Queries) UpdatePostByOwner(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, updatePostByOwner,
		arg.Title, arg.Description, arg.URL, string(arg.Status), formatTime(q.now()), arg.ID, arg.UserID)
	p, err := scanPost(row)
	if err != nil {
		return model.Post{}, notFound(err)
	}
	return q.withOwner(ctx, p)
}

const deletePostByOwner = `
DELETE FROM posts
WHERE id = ? AND user_id = ?
RETURNING ` + postColumns

// DeletePostByOwner は所有者の投稿を1文で削除し、削除前の状態を返す。
// 一致する投稿が無い場合（存在しない、または他人の投稿）はErrNotFoundを返す。
func (q *Queries) DeletePostByOwner(ctx context.Context, id, userID string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, deletePostByOwner, id, userID)
	p, err := scanPost(row)
	if err != nil {
		return model.Post{}, notFound(err)
	}
	return q.withOwner(ctx, p)
}

// withOwner は投稿の所有者のユーザー名を解決する。
func (q *Queries) withOwner(ctx context.Context, p model.Post) (model.Post, error) {
	u, err := q.GetUserByID(ctx, p.User.ID)
	if err != nil {
		return model.Post{}, fmt.Errorf("所有者の取得に失敗: %w", err)
	}
	p.User.Username = u.Username
	return p, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPost はpostColumnsの順に並んだ1行を読み取る。所有者のユーザー名は埋めない。
// extraにはpostColumnsに続くカラムの格納先を渡す。
func scanPost(row rowScanner, extra ...any) (model.Post, error) {
	var (
		p                    model.Post
		status               string
		createdAt, updatedAt string
	)
	dest := append([]any{&p.ID, &p.Title, &p.Description, &p.URL, &status, &p.User.ID, &createdAt, &updatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Post{}, err
	}
	p.Status = model.Status(status)

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Post{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Post{}, err
	}
	return p, nil
}
