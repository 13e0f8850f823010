package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nao1215/learnit/internal/model"
)

// CreateUserParams はユーザー登録の入力。
type CreateUserParams struct {
	Username     string
	PasswordHash string
}

const createUser = `
INSERT INTO users (id, username, password_hash, created_at)
VALUES (?, ?, ?, ?)
`

// CreateUser はユーザーを登録する。
// ユーザー名が既に使われている場合はErrUsernameTakenを返す。
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	u := model.User{
		ID:           uuid.New().String(),
		Username:     arg.Username,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    q.now(),
	}
	if _, err := q.db.ExecContext(ctx, createUser, u.ID, u.Username, u.PasswordHash, formatTime(u.CreatedAt)); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	return u, nil
}

const getUserByUsername = `
SELECT id, username, password_hash, created_at
FROM users
WHERE username = ?
`

// GetUserByUsername はユーザー名でユーザーを取得する。見つからない場合はErrNotFoundを返す。
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return q.getUser(ctx, getUserByUsername, username)
}

const getUserByID = `
SELECT id, username, password_hash, created_at
FROM users
WHERE id = ?
`

// GetUserByID はIDでユーザーを取得する。見つからない場合はErrNotFoundを返す。
func (q *Queries) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return q.getUser(ctx, getUserByID, id)
}

func (q *Queries) getUser(ctx context.Context, query, arg string) (model.User, error) {
	var (
		u         model.User
		createdAt string
	)
	err := q.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if err != nil {
		return model.User{}, notFound(err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}
