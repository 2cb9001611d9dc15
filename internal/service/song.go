package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/tunebox/internal/domain"
)

const maxSongFieldLength = 200

// SongService handles catalog operations. Songs are shared by all users.
type SongService struct {
	songs domain.SongRepository
}

// NewSongService creates a new SongService.
func NewSongService(songs domain.SongRepository) *SongService {
	return &SongService{songs: songs}
}

// Create validates and stores a new song.
func (s *SongService) Create(ctx context.Context, song *domain.Song) error {
	if err := validateSong(song); err != nil {
		return err
	}
	if err := s.songs.Create(ctx, song); err != nil {
		return fmt.Errorf("create song: %w", err)
	}
	return nil
}

// List returns every song in the catalog.
func (s *SongService) List(ctx context.Context) ([]domain.Song, error) {
	return s.songs.List(ctx)
}

// GetByID returns a song by its ID.
func (s *SongService) GetByID(ctx context.Context, id int64) (*domain.Song, error) {
	return s.songs.GetByID(ctx, id)
}

// Update applies patch to an existing song. Fields absent from the patch keep
// their current value.
func (s *SongService) Update(ctx context.Context, id int64, patch domain.SongPatch) (*domain.Song, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(song)
	if err := validateSong(song); err != nil {
		return nil, err
	}

	if err := s.songs.Update(ctx, song); err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}
	return song, nil
}

// Delete removes a song. It also disappears from every playlist containing it.
func (s *SongService) Delete(ctx context.Context, id int64) error {
	return s.songs.Delete(ctx, id)
}

// validateSong checks that every field has non-blank content within the
// length limit. Values are stored exactly as supplied.
func validateSong(song *domain.Song) error {
	fields := []struct {
		name  string
		value string
	}{
		{"Title", song.Title},
		{"Artist", song.Artist},
		{"Album", song.Album},
		{"Genre", song.Genre},
		{"Length", song.Length},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return domain.Invalidf("%s is required.", f.name)
		}
		if utf8.RuneCountInString(f.value) > maxSongFieldLength {
			return domain.Invalidf("%s must be %d characters or fewer.", f.name, maxSongFieldLength)
		}
	}
	return nil
}
