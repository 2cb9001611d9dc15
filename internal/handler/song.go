package handler

import (
	"net/http"

	"github.com/msomdec/tunebox/internal/domain"
	"github.com/msomdec/tunebox/internal/service"
)

// SongHandler handles catalog HTTP requests. Any authenticated user may use it.
type SongHandler struct {
	songs *service.SongService
}

// NewSongHandler creates a new SongHandler.
func NewSongHandler(songs *service.SongService) *SongHandler {
	return &SongHandler{songs: songs}
}

// HandleList returns every song.
// GET /songs
func (h *SongHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list songs")
		return
	}
	writeJSON(w, http.StatusOK, toSongDTOs(songs))
}

// HandleCreate creates a song.
// POST /songs
func (h *SongHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	song := &domain.Song{
		Title:  req.Title,
		Artist: req.Artist,
		Album:  req.Album,
		Genre:  req.Genre,
		Length: req.Length,
	}
	if err := h.songs.Create(r.Context(), song); err != nil {
		writeServiceError(w, r, err, "create song")
		return
	}
	writeJSON(w, http.StatusCreated, toSongDTO(song))
}

// HandleGet returns a single song.
// GET /songs/{id}
func (h *SongHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	song, err := h.songs.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "get song")
		return
	}
	writeJSON(w, http.StatusOK, toSongDTO(song))
}

// HandleUpdate merges the supplied fields into a song.
// PUT /songs/{id}
func (h *SongHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req songPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	song, err := h.songs.Update(r.Context(), id, req.toPatch())
	if err != nil {
		writeServiceError(w, r, err, "update song")
		return
	}
	writeJSON(w, http.StatusOK, toSongDTO(song))
}

// HandleDelete deletes a song.
// DELETE /songs/{id}
func (h *SongHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.songs.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete song")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
