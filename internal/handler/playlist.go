package handler

import (
	"net/http"

	"github.com/msomdec/tunebox/internal/service"
)

// PlaylistHandler handles playlist and membership HTTP requests. The owner is
// always the authenticated user, never a value from the request body.
type PlaylistHandler struct {
	playlists *service.PlaylistService
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(playlists *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

// HandleList returns the caller's playlists.
// GET /playlists
func (h *PlaylistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	playlists, err := h.playlists.ListForOwner(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "list playlists")
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistDTOs(playlists))
}

// HandleCreate creates a playlist owned by the caller.
// POST /playlists
// Request: {"name":"..."}
func (h *PlaylistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	playlist, err := h.playlists.Create(r.Context(), user.ID, req.Name)
	if err != nil {
		writeServiceError(w, r, err, "create playlist")
		return
	}
	writeJSON(w, http.StatusCreated, toPlaylistDTO(playlist))
}

// HandleGet returns a playlist with its songs.
// GET /playlists/{id}
func (h *PlaylistHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	playlist, err := h.playlists.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err, "get playlist")
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistDTO(playlist))
}

// HandleUpdate renames a playlist.
// PUT /playlists/{id}
func (h *PlaylistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req playlistPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	playlist, err := h.playlists.Update(r.Context(), user.ID, id, req.toPatch())
	if err != nil {
		writeServiceError(w, r, err, "update playlist")
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistDTO(playlist))
}

// HandleDelete deletes a playlist.
// DELETE /playlists/{id}
func (h *PlaylistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.playlists.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, r, err, "delete playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddSong adds a song to a playlist and returns the playlist.
// POST /playlists/{pid}/songs/{sid}
func (h *PlaylistHandler) HandleAddSong(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	playlistID, ok := pathID(w, r, "pid")
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "sid")
	if !ok {
		return
	}

	playlist, err := h.playlists.AddSong(r.Context(), user.ID, playlistID, songID)
	if err != nil {
		writeServiceError(w, r, err, "add song to playlist")
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistDTO(playlist))
}

// HandleRemoveSong removes a song from a playlist.
// DELETE /playlists/{pid}/songs/{sid}
func (h *PlaylistHandler) HandleRemoveSong(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	playlistID, ok := pathID(w, r, "pid")
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "sid")
	if !ok {
		return
	}

	if err := h.playlists.RemoveSong(r.Context(), user.ID, playlistID, songID); err != nil {
		writeServiceError(w, r, err, "remove song from playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
