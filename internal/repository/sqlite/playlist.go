package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/tunebox/internal/domain"
)

// playlistRepo implements domain.PlaylistRepository using SQLite.
type playlistRepo struct {
	db *sql.DB
}

func (r *playlistRepo) Create(ctx context.Context, playlist *domain.Playlist) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO playlists (user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		playlist.UserID, playlist.Name, now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.Invalidf("Playlist owner does not exist.")
		}
		return fmt.Errorf("insert playlist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get playlist id: %w", err)
	}

	playlist.ID = id
	playlist.Songs = []domain.Song{}
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	return nil
}

func (r *playlistRepo) GetByID(ctx context.Context, id int64) (*domain.Playlist, error) {
	p := &domain.Playlist{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at FROM playlists WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	songs, err := r.loadSongs(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Songs = songs
	return p, nil
}

func (r *playlistRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM playlists WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	playlists := []domain.Playlist{}
	for rows.Next() {
		var p domain.Playlist
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	// Release the only connection before loading songs.
	rows.Close()

	for i := range playlists {
		songs, err := r.loadSongs(ctx, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Songs = songs
	}
	return playlists, nil
}

func (r *playlistRepo) Update(ctx context.Context, playlist *domain.Playlist) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE playlists SET name = ?, updated_at = ? WHERE id = ?`,
		playlist.Name, now, playlist.ID,
	)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	playlist.UpdatedAt = now
	return nil
}

func (r *playlistRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return requireAffected(result)
}

func (r *playlistRepo) AddSong(ctx context.Context, playlistID, songID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO playlist_songs (playlist_id, song_id, added_at) VALUES (?, ?, ?)
		 ON CONFLICT (playlist_id, song_id) DO NOTHING`,
		playlistID, songID, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert playlist song: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if inserted > 0 {
		if err := touchPlaylist(ctx, tx, playlistID, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *playlistRepo) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if removed == 0 {
		return domain.ErrNotMember
	}

	if err := touchPlaylist(ctx, tx, playlistID, time.Now().UTC()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *playlistRepo) loadSongs(ctx context.Context, playlistID int64) ([]domain.Song, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.artist, s.album, s.genre, s.length, s.created_at, s.updated_at
		 FROM playlist_songs ps
		 JOIN songs s ON s.id = ps.song_id
		 WHERE ps.playlist_id = ?
		 ORDER BY ps.rowid`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("load playlist songs: %w", err)
	}
	defer rows.Close()

	songs := []domain.Song{}
	for rows.Next() {
		var s domain.Song
		if err := scanSong(rows, &s); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func touchPlaylist(ctx context.Context, tx *sql.Tx, playlistID int64, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE playlists SET updated_at = ? WHERE id = ?", now, playlistID); err != nil {
		return fmt.Errorf("touch playlist: %w", err)
	}
	return nil
}
