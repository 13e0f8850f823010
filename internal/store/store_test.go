package store

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/learnit/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore はマイグレーション済みのインメモリStoreを生成する。
// 作成日時が単調に増えるように時計を差し替える。
func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(t.Context(), ":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return st
}

func mustCreateUser(t *testing.T, st *Store, username string) model.User {
	t.Helper()

	u, err := st.CreateUser(t.Context(), CreateUserParams{Username: username, PasswordHash: "hash-" + username})
	require.NoError(t, err)
	return u
}

func mustCreatePost(t *testing.T, st *Store, userID, title string) model.Post {
	t.Helper()

	p, err := st.CreatePost(t.Context(), CreatePostParams{
		UserID: userID,
		Title:  title,
		URL:    "https://example.com/" + title,
		Status: model.StatusToLearn,
	})
	require.NoError(t, err)
	return p
}

func TestOpen_AppliesMigrations(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	require.NoError(t, st.Ping(t.Context()))

	var versions int
	require.NoError(t, st.DB().QueryRowContext(t.Context(), "SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 2, versions)

	var fk int
	require.NoError(t, st.DB().QueryRowContext(t.Context(), "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"learnit.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		dsn("learnit.db"))
	assert.Equal(t,
		"file:x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		dsn("file:x.db?mode=rwc"))
}

func TestUsers(t *testing.T) {
	t.Parallel()

	t.Run("登録したユーザーを名前とIDで取得できる", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)

		created := mustCreateUser(t, st, "alice")
		assert.NotEmpty(t, created.ID)

		byName, err := st.GetUserByUsername(t.Context(), "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
		assert.Equal(t, "hash-alice", byName.PasswordHash)
		assert.True(t, created.CreatedAt.Equal(byName.CreatedAt))

		byID, err := st.GetUserByID(t.Context(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)
	})

	t.Run("同じユーザー名はErrUsernameTaken", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)

		mustCreateUser(t, st, "alice")
		_, err := st.CreateUser(t.Context(), CreateUserParams{Username: "alice", PasswordHash: "other"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("存在しないユーザーはErrNotFound", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)

		_, err := st.GetUserByUsername(t.Context(), "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = st.GetUserByID(t.Context(), "missing-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPosts(t *testing.T) {
	t.Parallel()

	t.Run("作成した投稿に所有者のユーザー名が入る", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		alice := mustCreateUser(t, st, "alice")

		p := mustCreatePost(t, st, alice.ID, "go")
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "go", p.Title)
		assert.Equal(t, "", p.Description)
		assert.Equal(t, model.StatusToLearn, p.Status)
		assert.Equal(t, model.Owner{ID: alice.ID, Username: "alice"}, p.User)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("存在しないユーザーを所有者にできない", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)

		_, err := st.CreatePost(t.Context(), CreatePostParams{UserID: "ghost", Title: "x", URL: "https://x", Status: model.StatusToLearn})
		assert.Error(t, err)
	})

	t.Run("一覧は所有者の投稿だけを作成順に返す", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		alice := mustCreateUser(t, st, "alice")
		bob := mustCreateUser(t, st, "bob")

		first := mustCreatePost(t, st, alice.ID, "first")
		mustCreatePost(t, st, bob.ID, "bobs")
		second := mustCreatePost(t, st, alice.ID, "second")

		posts, err := st.ListPostsByUserID(t.Context(), alice.ID)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, first.ID, posts[0].ID)
		assert.Equal(t, second.ID, posts[1].ID)
		for _, p := range posts {
			assert.Equal(t, "alice", p.User.Username)
		}

		none, err := st.ListPostsByUserID(t.Context(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("所有者は投稿を上書きできる", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		alice := mustCreateUser(t, st, "alice")
		p := mustCreatePost(t, st, alice.ID, "old")

		updated, err := st.UpdatePostByOwner(t.Context(), UpdatePostParams{
			ID:          p.ID,
			UserID:      alice.ID,
			Title:       "new",
			Description: "desc",
			URL:         "https://new.example.com",
			Status:      model.StatusLearning,
		})
		require.NoError(t, err)
		assert.Equal(t, p.ID, updated.ID)
		assert.Equal(t, "new", updated.Title)
		assert.Equal(t, "desc", updated.Description)
		assert.Equal(t, "https://new.example.com", updated.URL)
		assert.Equal(t, model.StatusLearning, updated.Status)
		assert.Equal(t, "alice", updated.User.Username)
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))
	})

	t.Run("他人の投稿や存在しない投稿の更新はErrNotFound", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		alice := mustCreateUser(t, st, "alice")
		bob := mustCreateUser(t, st, "bob")
		p := mustCreatePost(t, st, alice.ID, "mine")

		_, err := st.UpdatePostByOwner(t.Context(), UpdatePostParams{ID: p.ID, UserID: bob.ID, Title: "stolen", URL: "https://x", Status: model.StatusToLearn})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = st.UpdatePostByOwner(t.Context(), UpdatePostParams{ID: "missing", UserID: alice.ID, Title: "x", URL: "https://x", Status: model.StatusToLearn})
		assert.ErrorIs(t, err, ErrNotFound)

		posts, err := st.ListPostsByUserID(t.Context(), alice.ID)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "mine", posts[0].Title)
	})

	t.Run("削除は削除前の状態を返し二度目はErrNotFound", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		alice := mustCreateUser(t, st, "alice")
		bob := mustCreateUser(t, st, "bob")
		p := mustCreatePost(t, st, alice.ID, "bye")

		_, err := st.DeletePostByOwner(t.Context(), p.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		deleted, err := st.DeletePostByOwner(t.Context(), p.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, deleted.ID)
		assert.Equal(t, "bye", deleted.Title)
		assert.Equal(t, "alice", deleted.User.Username)

		_, err = st.DeletePostByOwner(t.Context(), p.ID, alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListPostsByUserID_SubSecondOrder(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	alice := mustCreateUser(t, st, "alice")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{
		base.Add(100 * time.Millisecond),
		base.Add(120 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Second + 5*time.Millisecond),
	}
	st.now = func() time.Time {
		next := ticks[0]
		ticks = ticks[1:]
		return next
	}

	var want []string
	for _, title := range []string{"first", "second", "third", "fourth"} {
		want = append(want, mustCreatePost(t, st, alice.ID, title).ID)
	}

	posts, err := st.ListPostsByUserID(t.Context(), alice.ID)
	require.NoError(t, err)
	got := make([]string, 0, len(posts))
	for _, p := range posts {
		got = append(got, p.ID)
	}
	assert.Equal(t, want, got)
	assert.True(t, posts[0].CreatedAt.Equal(base.Add(100*time.Millisecond)))
}

func TestFormatTime_FixedWidth(t *testing.T) {
	t.Parallel()

	whole := formatTime(time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC))
	frac := formatTime(time.Date(2026, 1, 1, 0, 0, 0, 120_000_000, time.UTC))
	assert.Equal(t, "2026-01-01T00:00:01.000000000Z", whole)
	assert.Equal(t, "2026-01-01T00:00:00.120000000Z", frac)
	assert.Less(t, frac, whole)

	parsed, err := parseTime(frac)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2026, 1, 1, 0, 0, 0, 120_000_000, time.UTC)))
}

func TestOpen_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Open(ctx, ":memory:", zerolog.Nop())
	assert.Error(t, err)
}
