package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/learnit/pkg/migration"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

// pragmas は接続ごとに適用するSQLiteの設定。
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// DBTX はQueriesが必要とするデータベース操作。*sql.DBと*sql.Txの両方が満たす。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries はユーザーと投稿に対するクエリを実行する。
type Queries struct {
	db DBTX
	// now は作成・更新日時の取得に使う。テストで差し替える。
	now func() time.Time
}

// New はdbに対してクエリを実行するQueriesを生成する。
func New(db DBTX) *Queries {
	return &Queries{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Store はマイグレーション済みのデータベース接続とクエリをまとめたハンドル。
// Openで生成し、プロセス終了時にCloseで閉じる。
type Store struct {
	*Queries
	db *sql.DB
}

// Open はpathのSQLiteデータベースを開き、未適用のマイグレーションを適用する。
// pathに ":memory:" を指定するとインメモリDBになる。
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// SQLiteは書き込みが1本に限られるため、接続も1本にして直列化する。
	// :memory: は接続ごとに別DBになるため、この制限が必須となる。
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("データベースへの疎通確認に失敗: %w", err)
	}

	if _, err := migration.Run(ctx, sqlDB, migrationsFS, "migrations", logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("マイグレーションに失敗: %w", err)
	}

	return &Store{Queries: New(sqlDB), db: sqlDB}, nil
}

// DB は内部の*sql.DBを返す。
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping はデータベースへの疎通を確認する。
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// dsn はpragmaを付与した接続文字列を組み立てる。
func dsn(path string) string {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// timeLayout は保存用の日時形式。小数部を9桁固定にして文字列順と時刻順を一致させる。
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime は日時を保存用の文字列に変換する。
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime は保存された日時文字列を解析する。
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日時の解析に失敗: %q: %w", s, err)
	}
	return t, nil
}
