package handler

import (
	"github.com/msomdec/tunebox/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash is never
// serialized.
type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// SongDTO is the JSON representation of a song.
type SongDTO struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
	Length string `json:"length"`
}

func toSongDTO(s *domain.Song) SongDTO {
	return SongDTO{
		ID:     s.ID,
		Title:  s.Title,
		Artist: s.Artist,
		Album:  s.Album,
		Genre:  s.Genre,
		Length: s.Length,
	}
}

func toSongDTOs(songs []domain.Song) []SongDTO {
	dtos := make([]SongDTO, len(songs))
	for i := range songs {
		dtos[i] = toSongDTO(&songs[i])
	}
	return dtos
}

// PlaylistDTO is the JSON representation of a playlist and its songs.
type PlaylistDTO struct {
	ID     int64     `json:"id"`
	Name   string    `json:"name"`
	UserID int64     `json:"user_id"`
	Songs  []SongDTO `json:"songs"`
}

func toPlaylistDTO(p *domain.Playlist) PlaylistDTO {
	return PlaylistDTO{
		ID:     p.ID,
		Name:   p.Name,
		UserID: p.UserID,
		Songs:  toSongDTOs(p.Songs),
	}
}

func toPlaylistDTOs(playlists []domain.Playlist) []PlaylistDTO {
	dtos := make([]PlaylistDTO, len(playlists))
	for i := range playlists {
		dtos[i] = toPlaylistDTO(&playlists[i])
	}
	return dtos
}

// songRequest is the body accepted by POST /songs.
type songRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
	Length string `json:"length"`
}

// songPatchRequest is the body accepted by PUT /songs/{id}. Only these keys
// can change a song; anything else in the body, id included, is ignored.
type songPatchRequest struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
	Album  *string `json:"album"`
	Genre  *string `json:"genre"`
	Length *string `json:"length"`
}

func (req songPatchRequest) toPatch() domain.SongPatch {
	return domain.SongPatch{
		Title:  req.Title,
		Artist: req.Artist,
		Album:  req.Album,
		Genre:  req.Genre,
		Length: req.Length,
	}
}

// playlistPatchRequest is the body accepted by PUT /playlists/{id}. Owner and
// membership cannot be set through it.
type playlistPatchRequest struct {
	Name *string `json:"name"`
}

func (req playlistPatchRequest) toPatch() domain.PlaylistPatch {
	return domain.PlaylistPatch{Name: req.Name}
}
