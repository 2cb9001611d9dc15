package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/tunebox/internal/domain"
)

// songRepo implements domain.SongRepository using SQLite.
type songRepo struct {
	db *sql.DB
}

const songColumns = `id, title, artist, album, genre, length, created_at, updated_at`

func (r *songRepo) Create(ctx context.Context, song *domain.Song) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO songs (title, artist, album, genre, length, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		song.Title, song.Artist, song.Album, song.Genre, song.Length, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	song.ID = id
	song.CreatedAt = now
	song.UpdatedAt = now
	return nil
}

func (r *songRepo) GetByID(ctx context.Context, id int64) (*domain.Song, error) {
	var s domain.Song
	err := scanSong(r.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE id = ?`, id), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get song: %w", err)
	}
	return &s, nil
}

func (r *songRepo) List(ctx context.Context) ([]domain.Song, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := []domain.Song{}
	for rows.Next() {
		var s domain.Song
		if err := scanSong(rows, &s); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func (r *songRepo) Update(ctx context.Context, song *domain.Song) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE songs SET title = ?, artist = ?, album = ?, genre = ?, length = ?, updated_at = ?
		 WHERE id = ?`,
		song.Title, song.Artist, song.Album, song.Genre, song.Length, now, song.ID,
	)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	song.UpdatedAt = now
	return nil
}

// Delete removes the song. Membership rows referencing it cascade.
func (r *songRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner, s *domain.Song) error {
	return row.Scan(&s.ID, &s.Title, &s.Artist, &s.Album, &s.Genre, &s.Length, &s.CreatedAt, &s.UpdatedAt)
}

// requireAffected returns ErrNotFound when a write touched no rows.
func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
