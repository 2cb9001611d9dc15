package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/msomdec/tunebox/internal/service"
)

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Auth      *service.AuthService
	Songs     *service.SongService
	Playlists *service.PlaylistService
	DB        Pinger
	// AuthLimiter throttles /register and /login per client address. Nil
	// disables throttling.
	AuthLimiter *service.RateLimiter
}

// NewRouter builds the HTTP handler for the whole API, middleware included.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Resource not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	authHandler := NewAuthHandler(cfg.Auth)
	songHandler := NewSongHandler(cfg.Songs)
	playlistHandler := NewPlaylistHandler(cfg.Playlists)

	throttle := func(h http.HandlerFunc) http.Handler {
		if cfg.AuthLimiter == nil {
			return h
		}
		return RateLimit(cfg.AuthLimiter, h)
	}
	protect := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(cfg.Auth, h)
	}

	r.Handle("/healthz", HandleHealthz(cfg.DB)).Methods(http.MethodGet)

	r.Handle("/register", throttle(authHandler.HandleRegister)).Methods(http.MethodPost)
	r.Handle("/login", throttle(authHandler.HandleLogin)).Methods(http.MethodPost)
	r.Handle("/me", protect(authHandler.HandleMe)).Methods(http.MethodGet)

	r.Handle("/songs", protect(songHandler.HandleList)).Methods(http.MethodGet)
	r.Handle("/songs", protect(songHandler.HandleCreate)).Methods(http.MethodPost)
	r.Handle("/songs/{id:[0-9]+}", protect(songHandler.HandleGet)).Methods(http.MethodGet)
	r.Handle("/songs/{id:[0-9]+}", protect(songHandler.HandleUpdate)).Methods(http.MethodPut)
	r.Handle("/songs/{id:[0-9]+}", protect(songHandler.HandleDelete)).Methods(http.MethodDelete)

	r.Handle("/playlists", protect(playlistHandler.HandleList)).Methods(http.MethodGet)
	r.Handle("/playlists", protect(playlistHandler.HandleCreate)).Methods(http.MethodPost)
	r.Handle("/playlists/{id:[0-9]+}", protect(playlistHandler.HandleGet)).Methods(http.MethodGet)
	r.Handle("/playlists/{id:[0-9]+}", protect(playlistHandler.HandleUpdate)).Methods(http.MethodPut)
	r.Handle("/playlists/{id:[0-9]+}", protect(playlistHandler.HandleDelete)).Methods(http.MethodDelete)
	r.Handle("/playlists/{pid:[0-9]+}/songs/{sid:[0-9]+}", protect(playlistHandler.HandleAddSong)).Methods(http.MethodPost)
	r.Handle("/playlists/{pid:[0-9]+}/songs/{sid:[0-9]+}", protect(playlistHandler.HandleRemoveSong)).Methods(http.MethodDelete)

	return SecurityHeaders(RequestLogger(Recovery(r)))
}

// pathID parses a numeric route variable, writing a 400 when it is not a
// valid id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid resource id.")
		return 0, false
	}
	return id, true
}
