package videos

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/videovault/pkg/pg"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresStore implements Store on the videos table.
type PostgresStore struct {
	db pg.DBTX
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db pg.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*Video, error) {
	query, args, err := psql.
		Select("id", "user_id", "title", "youtube_url", "youtube_id", "description", "thumbnail", "created_at").
		From("videos").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list videos: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := []*Video{}
	for rows.Next() {
		v := &Video{}
		if err := rows.Scan(&v.ID, &v.UserID, &v.Title, &v.YoutubeURL, &v.YoutubeID, &v.Description, &v.Thumbnail, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (s *PostgresStore) ExistsByYouTubeID(ctx context.Context, youtubeID string) (bool, error) {
	query, args, err := psql.
		Select("1").Prefix("SELECT EXISTS (").
		From("videos").
		Where(squirrel.Eq{"youtube_id": youtubeID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build video exists: %w", err)
	}

	var exists bool
	if err := s.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("video exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Create(ctx context.Context, v *Video) error {
	query, args, err := psql.Insert("videos").
		Columns("id", "user_id", "title", "youtube_url", "youtube_id", "description", "thumbnail", "created_at").
		Values(v.ID, v.UserID, v.Title, v.YoutubeURL, v.YoutubeID, v.Description, v.Thumbnail, v.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert video: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}
