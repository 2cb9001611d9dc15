package domain

import (
	"context"
	"time"
)

// Playlist is a named, user-owned set of songs.
type Playlist struct {
	ID        int64
	UserID    int64
	Name      string
	Songs     []Song // in the order they were added
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSong reports whether the song is currently a member of the playlist.
func (p *Playlist) HasSong(songID int64) bool {
	for _, s := range p.Songs {
		if s.ID == songID {
			return true
		}
	}
	return false
}

// PlaylistPatch lists the playlist fields a client may change. Ownership and
// membership are never part of a patch.
type PlaylistPatch struct {
	Name *string
}

// PlaylistRepository defines persistence operations for playlists and their
// song membership.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *Playlist) error
	GetByID(ctx context.Context, id int64) (*Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]Playlist, error)
	Update(ctx context.Context, playlist *Playlist) error
	Delete(ctx context.Context, id int64) error
	// AddSong inserts the membership row. Adding an existing member is a no-op.
	AddSong(ctx context.Context, playlistID, songID int64) error
	// RemoveSong deletes the membership row, returning ErrNotMember when the
	// song was not in the playlist.
	RemoveSong(ctx context.Context, playlistID, songID int64) error
}
