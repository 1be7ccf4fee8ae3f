package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"news_hub/internal/domain"
)

const articleColumns = `id, title, description, url, source, published_at, category, created_at`

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// InsertIfAbsent stores the article unless its URL is already present and
// reports whether a row was created.
func (s *ArticleStore) InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error) {
	query := `
		INSERT INTO news (title, description, url, source, published_at, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, created_at`

	rows, err := s.db.QueryxContext(ctx, query,
		article.Title,
		article.Description,
		article.URL,
		article.Source,
		article.PublishedAt.UTC(),
		article.Category,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	if err := rows.Scan(&article.ID, &article.CreatedAt); err != nil {
		return false, err
	}

	return true, rows.Err()
}

// Exists reports whether any article of the category was published on date.
func (s *ArticleStore) Exists(ctx context.Context, category domain.Category, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM news WHERE category = $1 AND DATE(published_at) = $2)`

	var exists bool
	err := s.db.GetContext(ctx, &exists, query, category, day(date))
	return exists, err
}

func (s *ArticleStore) ListByDate(ctx context.Context, date time.Time, limit int) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news WHERE DATE(published_at) = $1 ORDER BY published_at DESC`
	return s.list(ctx, query, limit, day(date))
}

func (s *ArticleStore) ListByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news WHERE category = $1 ORDER BY published_at DESC`
	return s.list(ctx, query, limit, category)
}

func (s *ArticleStore) ListByCategoryAndDate(ctx context.Context, category domain.Category, date time.Time, limit int) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news WHERE category = $1 AND DATE(published_at) = $2 ORDER BY published_at DESC`
	return s.list(ctx, query, limit, category, day(date))
}

// Search matches the term case-insensitively against title and description.
func (s *ArticleStore) Search(ctx context.Context, term string, date *time.Time, limit int) ([]domain.Article, error) {
	args := []any{"%" + escapeLike(term) + "%"}
	query := `SELECT ` + articleColumns + ` FROM news WHERE (title ILIKE $1 OR description ILIKE $1)`
	if date != nil {
		args = append(args, day(*date))
		query += ` AND DATE(published_at) = $2`
	}
	query += ` ORDER BY published_at DESC`

	return s.list(ctx, query, limit, args...)
}

// CountByCategory returns per-category counts for date. Categories without
// articles are absent from the map.
func (s *ArticleStore) CountByCategory(ctx context.Context, date time.Time, categories []domain.Category) (map[domain.Category]int, error) {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}

	query := `
		SELECT category, COUNT(*) AS count
		FROM news
		WHERE DATE(published_at) = $1 AND category = ANY($2)
		GROUP BY category`

	var rows []struct {
		Category domain.Category `db:"category"`
		Count    int             `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, day(date), pq.Array(names)); err != nil {
		return nil, err
	}

	counts := make(map[domain.Category]int, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Count
	}
	return counts, nil
}

// CountByDay returns article counts keyed by YYYY-MM-DD for the inclusive
// range [from, to]. Days without articles are absent from the map.
func (s *ArticleStore) CountByDay(ctx context.Context, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT TO_CHAR(DATE(published_at), 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM news
		WHERE DATE(published_at) BETWEEN $1 AND $2
		GROUP BY DATE(published_at)`

	var rows []struct {
		Day   string `db:"day"`
		Count int    `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, day(from), day(to)); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Day] = r.Count
	}
	return counts, nil
}

func (s *ArticleStore) list(ctx context.Context, query string, limit int, args ...any) ([]domain.Article, error) {
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	articles := []domain.Article{}
	if err := s.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].PublishedAt = articles[i].PublishedAt.UTC()
	}
	return articles, nil
}

func day(t time.Time) string {
	return t.UTC().Format(domain.DateLayout)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
