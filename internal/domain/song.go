package domain

import (
	"context"
	"time"
)

// Song is a catalog entry. Songs have no owner; any authenticated user may
// create, edit or delete them.
type Song struct {
	ID        int64
	Title     string
	Artist    string
	Album     string
	Genre     string
	Length    string // free-form, e.g. "3:30"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SongPatch lists the song fields a client may change. Nil fields are left
// untouched.
type SongPatch struct {
	Title  *string
	Artist *string
	Album  *string
	Genre  *string
	Length *string
}

// Apply merges the non-nil patch fields into s.
func (p SongPatch) Apply(s *Song) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Artist != nil {
		s.Artist = *p.Artist
	}
	if p.Album != nil {
		s.Album = *p.Album
	}
	if p.Genre != nil {
		s.Genre = *p.Genre
	}
	if p.Length != nil {
		s.Length = *p.Length
	}
}

// SongRepository defines persistence operations for songs.
type SongRepository interface {
	Create(ctx context.Context, song *Song) error
	GetByID(ctx context.Context, id int64) (*Song, error)
	List(ctx context.Context) ([]Song, error)
	Update(ctx context.Context, song *Song) error
	Delete(ctx context.Context, id int64) error
}
