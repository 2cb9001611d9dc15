package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/tunebox/internal/domain"
)

const maxPlaylistNameLength = 100

// PlaylistService handles playlist CRUD and song membership. Every operation
// on an existing playlist is restricted to its owner.
type PlaylistService struct {
	playlists domain.PlaylistRepository
	songs     domain.SongRepository
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(playlists domain.PlaylistRepository, songs domain.SongRepository) *PlaylistService {
	return &PlaylistService{playlists: playlists, songs: songs}
}

// Create creates an empty playlist owned by ownerID.
func (s *PlaylistService) Create(ctx context.Context, ownerID int64, name string) (*domain.Playlist, error) {
	name, err := validatePlaylistName(name)
	if err != nil {
		return nil, err
	}

	playlist := &domain.Playlist{UserID: ownerID, Name: name}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return playlist, nil
}

// ListForOwner returns the playlists owned by ownerID.
func (s *PlaylistService) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Playlist, error) {
	return s.playlists.ListByUser(ctx, ownerID)
}

// Get returns a playlist with its songs.
func (s *PlaylistService) Get(ctx context.Context, userID, id int64) (*domain.Playlist, error) {
	return s.owned(ctx, userID, id)
}

// Update applies patch to a playlist.
func (s *PlaylistService) Update(ctx context.Context, userID, id int64, patch domain.PlaylistPatch) (*domain.Playlist, error) {
	playlist, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := validatePlaylistName(*patch.Name)
		if err != nil {
			return nil, err
		}
		playlist.Name = name
	}

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return playlist, nil
}

// Delete deletes a playlist and its memberships.
func (s *PlaylistService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.playlists.Delete(ctx, id)
}

// AddSong adds a song to a playlist and returns the updated playlist.
// Adding a song that is already present changes nothing.
func (s *PlaylistService) AddSong(ctx context.Context, userID, playlistID, songID int64) (*domain.Playlist, error) {
	if _, err := s.owned(ctx, userID, playlistID); err != nil {
		return nil, err
	}
	if _, err := s.songs.GetByID(ctx, songID); err != nil {
		return nil, err
	}

	if err := s.playlists.AddSong(ctx, playlistID, songID); err != nil {
		return nil, fmt.Errorf("add song: %w", err)
	}
	return s.playlists.GetByID(ctx, playlistID)
}

// RemoveSong removes a song from a playlist. It returns ErrNotMember when the
// song exists but is not in the playlist.
func (s *PlaylistService) RemoveSong(ctx context.Context, userID, playlistID, songID int64) error {
	playlist, err := s.owned(ctx, userID, playlistID)
	if err != nil {
		return err
	}
	if _, err := s.songs.GetByID(ctx, songID); err != nil {
		return err
	}
	if !playlist.HasSong(songID) {
		return domain.ErrNotMember
	}

	// The store reports ErrNotMember again if a concurrent request got there first.
	if err := s.playlists.RemoveSong(ctx, playlistID, songID); err != nil {
		return fmt.Errorf("remove song: %w", err)
	}
	return nil
}

// owned loads a playlist and checks that userID owns it.
func (s *PlaylistService) owned(ctx context.Context, userID, id int64) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return playlist, nil
}

func validatePlaylistName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", domain.Invalidf("Playlist name is required.")
	}
	if utf8.RuneCountInString(name) > maxPlaylistNameLength {
		return "", domain.Invalidf("Playlist name must be %d characters or fewer.", maxPlaylistNameLength)
	}
	return name, nil
}
