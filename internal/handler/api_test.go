package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/tunebox/internal/service"
)

func createSong(t *testing.T, ts *testServer, token, title string) songBody {
	t.Helper()
	rr := ts.request(http.MethodPost, "/songs", map[string]string{
		"title": title, "artist": "Artist", "album": "Album", "genre": "Rock", "length": "3:30",
	}, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[songBody](t, rr)
}

func createPlaylist(t *testing.T, ts *testServer, token, name string) playlistBody {
	t.Helper()
	rr := ts.request(http.MethodPost, "/playlists", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[playlistBody](t, rr)
}

func TestPlaylistMembershipScenario(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/register", map[string]string{
		"username": "a", "email": "a@x.com", "password": "p",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	user := decode[map[string]any](t, rr)
	assert.Equal(t, "a", user["username"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, rr.Body.String(), "password")

	rr = ts.request(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "p"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	token := decode[map[string]string](t, rr)["access_token"]
	require.NotEmpty(t, token)

	song := createSong(t, ts, token, "Song One")
	assert.Equal(t, int64(1), song.ID)

	playlist := createPlaylist(t, ts, token, "Mix")
	assert.Equal(t, int64(1), playlist.ID)
	assert.Equal(t, int64(user["id"].(float64)), playlist.UserID)
	assert.NotNil(t, playlist.Songs)
	assert.Empty(t, playlist.Songs)

	rr = ts.request(http.MethodPost, "/playlists/1/songs/1", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	withSong := decode[playlistBody](t, rr)
	require.Len(t, withSong.Songs, 1)
	assert.Equal(t, song, withSong.Songs[0])

	rr = ts.request(http.MethodDelete, "/playlists/1/songs/1", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = ts.request(http.MethodGet, "/playlists/1", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":1,"name":"Mix","user_id":%d,"songs":[]}`, playlist.UserID), rr.Body.String())
}

func TestRegister_Errors(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "alice")

	tests := []struct {
		name string
		body any
	}{
		{"duplicate email", map[string]string{"username": "other", "email": "ALICE@example.com", "password": "x"}},
		{"duplicate username", map[string]string{"username": "alice", "email": "new@example.com", "password": "x"}},
		{"invalid email", map[string]string{"username": "bob", "email": "not-an-email", "password": "x"}},
		{"missing password", map[string]string{"username": "bob", "email": "bob@example.com"}},
		{"malformed json", `{"username":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode[messageBody](t, rr).Message)
		})
	}
}

func TestLogin_Errors(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "alice")

	for _, body := range []map[string]string{
		{"email": "alice@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "secret"},
	} {
		rr := ts.request(http.MethodPost, "/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid credentials", decode[messageBody](t, rr).Message)
		assert.NotContains(t, rr.Body.String(), "access_token")
	}
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerAndLogin(t, "alice")

	rr := ts.request(http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[map[string]any](t, rr)
	assert.Equal(t, float64(userID), me["id"])
	assert.Equal(t, "alice", me["username"])
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/songs"},
		{http.MethodPost, "/songs"},
		{http.MethodGet, "/songs/1"},
		{http.MethodPut, "/songs/1"},
		{http.MethodDelete, "/songs/1"},
		{http.MethodGet, "/playlists"},
		{http.MethodPost, "/playlists"},
		{http.MethodGet, "/playlists/1"},
		{http.MethodPut, "/playlists/1"},
		{http.MethodDelete, "/playlists/1"},
		{http.MethodPost, "/playlists/1/songs/1"},
		{http.MethodDelete, "/playlists/1/songs/1"},
	}
	for _, rt := range routes {
		rr := ts.request(rt.method, rt.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", rt.method, rt.path)
	}
}

func TestSongCRUD(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	song := createSong(t, ts, token, "First")
	createSong(t, ts, token, "Second")

	rr := ts.request(http.MethodGet, "/songs", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	songs := decode[[]songBody](t, rr)
	require.Len(t, songs, 2)
	assert.Equal(t, "First", songs[0].Title)

	rr = ts.request(http.MethodPut, fmt.Sprintf("/songs/%d", song.ID),
		map[string]any{"title": "Renamed", "id": 999, "unknown": true}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[songBody](t, rr)
	assert.Equal(t, song.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, song.Artist, updated.Artist)

	rr = ts.request(http.MethodPut, fmt.Sprintf("/songs/%d", song.ID), map[string]string{"title": ""}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodDelete, fmt.Sprintf("/songs/%d", song.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/songs/%d", song.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, fmt.Sprintf("/songs/%d", song.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSongCreate_MissingFields(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	rr := ts.request(http.MethodPost, "/songs", map[string]string{"title": "Only title"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/songs", nil, token)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestNonNumericID(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	for _, path := range []string{"/songs/abc", "/playlists/abc", "/playlists/1/songs/x"} {
		rr := ts.request(http.MethodGet, path, nil, token)
		assert.NotEqual(t, http.StatusInternalServerError, rr.Code, path)
		assert.Contains(t, []int{http.StatusBadRequest, http.StatusNotFound, http.StatusMethodNotAllowed}, rr.Code, path)
	}
}

func TestPlaylistOwnership(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.registerAndLogin(t, "alice")
	_, bob := ts.registerAndLogin(t, "bob")

	song := createSong(t, ts, alice, "Song")
	playlist := createPlaylist(t, ts, alice, "Alice's")
	base := fmt.Sprintf("/playlists/%d", playlist.ID)
	member := fmt.Sprintf("%s/songs/%d", base, song.ID)

	for _, rt := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, base, nil},
		{http.MethodPut, base, map[string]string{"name": "Stolen"}},
		{http.MethodDelete, base, nil},
		{http.MethodPost, member, nil},
		{http.MethodDelete, member, nil},
	} {
		rr := ts.request(rt.method, rt.path, rt.body, bob)
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s", rt.method, rt.path)
	}

	rr := ts.request(http.MethodGet, "/playlists", nil, bob)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]playlistBody](t, rr))

	rr = ts.request(http.MethodGet, base, nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[playlistBody](t, rr)
	assert.Equal(t, "Alice's", got.Name)
	assert.Empty(t, got.Songs)
}

func TestPlaylistUpdate_IgnoresOwnerAndSongs(t *testing.T) {
	ts := newTestServer(t)
	aliceID, alice := ts.registerAndLogin(t, "alice")
	bobID, _ := ts.registerAndLogin(t, "bob")
	playlist := createPlaylist(t, ts, alice, "Old")

	rr := ts.request(http.MethodPut, fmt.Sprintf("/playlists/%d", playlist.ID), map[string]any{
		"name": "New", "user_id": bobID, "songs": []map[string]any{{"id": 1}},
	}, alice)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := decode[playlistBody](t, rr)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, aliceID, got.UserID)
	assert.Empty(t, got.Songs)
}

func TestAddSong_Idempotent(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")
	first := createSong(t, ts, token, "First")
	second := createSong(t, ts, token, "Second")
	playlist := createPlaylist(t, ts, token, "Mix")

	add := func(songID int64) playlistBody {
		rr := ts.request(http.MethodPost, fmt.Sprintf("/playlists/%d/songs/%d", playlist.ID, songID), nil, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		return decode[playlistBody](t, rr)
	}

	add(second.ID)
	add(first.ID)
	got := add(second.ID)

	require.Len(t, got.Songs, 2)
	assert.Equal(t, second.ID, got.Songs[0].ID)
	assert.Equal(t, first.ID, got.Songs[1].ID)
}

func TestMembership_NotFound(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")
	song := createSong(t, ts, token, "Song")
	playlist := createPlaylist(t, ts, token, "Mix")

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"add missing song", http.MethodPost, fmt.Sprintf("/playlists/%d/songs/999", playlist.ID)},
		{"add to missing playlist", http.MethodPost, fmt.Sprintf("/playlists/999/songs/%d", song.ID)},
		{"remove non-member", http.MethodDelete, fmt.Sprintf("/playlists/%d/songs/%d", playlist.ID, song.ID)},
		{"remove missing song", http.MethodDelete, fmt.Sprintf("/playlists/%d/songs/999", playlist.ID)},
		{"remove from missing playlist", http.MethodDelete, fmt.Sprintf("/playlists/999/songs/%d", song.ID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(tt.method, tt.path, nil, token)
			assert.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode[messageBody](t, rr).Message)
		})
	}
}

func TestDeleteSong_RemovesFromPlaylists(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")
	song := createSong(t, ts, token, "Song")
	playlist := createPlaylist(t, ts, token, "Mix")

	rr := ts.request(http.MethodPost, fmt.Sprintf("/playlists/%d/songs/%d", playlist.ID, song.ID), nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodDelete, fmt.Sprintf("/songs/%d", song.ID), nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/playlists/%d", playlist.ID), nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[playlistBody](t, rr).Songs)
}

func TestDeletePlaylist(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")
	keep := createPlaylist(t, ts, token, "Keep")
	drop := createPlaylist(t, ts, token, "Drop")

	rr := ts.request(http.MethodDelete, fmt.Sprintf("/playlists/%d", drop.ID), nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/playlists", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]playlistBody](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/playlists/%d", drop.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAuthRateLimit(t *testing.T) {
	limiter := service.NewRateLimiter(0.001, 2)
	t.Cleanup(limiter.Stop)
	ts := newTestServerWithLimiter(t, limiter)

	body := map[string]string{"email": "nobody@example.com", "password": "x"}
	assert.Equal(t, http.StatusUnauthorized, ts.request(http.MethodPost, "/login", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, ts.request(http.MethodPost, "/login", body, "").Code)

	rr := ts.request(http.MethodPost, "/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, decode[messageBody](t, rr).Message)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = ts.request(http.MethodPatch, "/songs", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestSong_ValuesRoundTripVerbatim(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	supplied := songBody{Title: "  T  ", Artist: " A", Album: "Al ", Genre: "G", Length: "3:30"}
	rr := ts.request(http.MethodPost, "/songs", supplied, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[songBody](t, rr)
	supplied.ID = created.ID
	assert.Equal(t, supplied, created)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/songs/%d", created.ID), nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, supplied, decode[songBody](t, rr))

	rr = ts.request(http.MethodPut, fmt.Sprintf("/songs/%d", created.ID), map[string]string{"genre": " Jazz "}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, " Jazz ", decode[songBody](t, rr).Genre)
}

func TestRequestBody_TrailingDataRejected(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	rr := ts.request(http.MethodPost, "/playlists", `{"name":"Mix"} trailing garbage`, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/playlists", `{"name":"Mix"}{"name":"Again"}`, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/playlists", nil, token)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = ts.request(http.MethodPost, "/playlists", "{\"name\":\"Mix\"}\n", token)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestErrorMessages_AreClientFacing(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	rr := ts.request(http.MethodPost, "/register", map[string]string{
		"username": "bob", "email": "not-an-email", "password": "x",
	}, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Email address is not valid.", decode[messageBody](t, rr).Message)

	rr = ts.request(http.MethodPost, "/songs", map[string]string{"title": "Only title"}, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	msg := decode[messageBody](t, rr).Message
	assert.NotContains(t, msg, "invalid input")
	assert.Contains(t, msg, "is required")

	rr = ts.request(http.MethodPost, "/playlists/0/songs/1", nil, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid resource id.", decode[messageBody](t, rr).Message)
}
