package wire

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/events"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/middleware"
	"movie-catalog/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"
)

const unknownID = "652f0744373e017388151858"

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T, limiter middleware.Limiter) *testServer {
	t.Helper()

	store, err := database.InitFileStore(afero.NewMemMapFs(), "/db")
	if err != nil {
		t.Fatalf("InitFileStore: %v", err)
	}

	log := zaptest.NewLogger(t)
	config := &utils.Config{
		Docs: utils.DocsConfig{Enabled: true, Path: "/api-docs"},
	}
	app := Wiring(repository.NewFileRepository(store, log), events.NopPublisher{}, limiter, config, log)

	return &testServer{t: t, router: app.Router}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) expect(rec *httptest.ResponseRecorder, status int) {
	s.t.Helper()
	if rec.Code != status {
		s.t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
}

func (s *testServer) expectError(rec *httptest.ResponseRecorder, status int, message string) {
	s.t.Helper()
	s.expect(rec, status)
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		s.t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	if body.Error != message {
		s.t.Fatalf("error = %q, want %q", body.Error, message)
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type genreBody struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

type movieBody struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"releaseDate"`
	Genre       []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"genre"`
}

func (s *testServer) createGenre(name string) genreBody {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/genres", `{"name":"`+name+`"}`)
	s.expect(rec, http.StatusCreated)
	return decode[genreBody](s.t, rec)
}

func movieJSON(title string, genreIDs ...string) string {
	quoted := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		quoted[i] = `"` + id + `"`
	}
	return `{"title":"` + title + `","description":"The true nature of reality.",` +
		`"releaseDate":"2023-03-31T00:00:00.000Z","genre":[` + strings.Join(quoted, ",") + `]}`
}

func TestGenreEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	action := s.createGenre("Action")
	if len(action.ID) != 24 || action.Name != "Action" {
		t.Fatalf("created genre = %+v", action)
	}

	s.expectError(s.do(http.MethodPost, "/api/genres", `{"name":"Action"}`), http.StatusConflict, "Genre already exists")

	rec := s.do(http.MethodGet, "/api/genres/"+action.ID, "")
	s.expect(rec, http.StatusOK)
	if got := decode[genreBody](t, rec); got != action {
		t.Fatalf("GET genre = %+v, want %+v", got, action)
	}

	first := s.do(http.MethodGet, "/api/genres", "")
	second := s.do(http.MethodGet, "/api/genres", "")
	s.expect(first, http.StatusOK)
	if first.Body.String() != second.Body.String() {
		t.Fatalf("repeated GET differs: %s vs %s", first.Body.String(), second.Body.String())
	}

	rec = s.do(http.MethodPut, "/api/genres/"+action.ID, `{"name":"Adventure"}`)
	s.expect(rec, http.StatusOK)
	if got := decode[genreBody](t, rec); got.Name != "Adventure" || got.ID != action.ID {
		t.Fatalf("PUT genre = %+v", got)
	}

	s.expectError(s.do(http.MethodPut, "/api/genres/"+unknownID, `{"name":"Drama"}`), http.StatusNotFound, "Genre not found")
	s.expectError(s.do(http.MethodPut, "/api/genres/"+unknownID, `{"name":"Adventure"}`), http.StatusNotFound, "Genre not found")

	rec = s.do(http.MethodDelete, "/api/genres/"+action.ID, "")
	s.expect(rec, http.StatusOK)
	if rec.Body.Len() != 0 {
		t.Fatalf("DELETE body = %q, want empty", rec.Body.String())
	}

	s.expectError(s.do(http.MethodDelete, "/api/genres/"+action.ID, ""), http.StatusNotFound, "Genre not found")
	s.expectError(s.do(http.MethodGet, "/api/genres/"+action.ID, ""), http.StatusNotFound, "Genre not found")
}

func TestGenreValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty object", `{}`, "Invalid input"},
		{"empty body", ``, "Invalid input"},
		{"malformed json", `{"name":`, "Invalid input"},
		{"array body", `["Action"]`, "Invalid input"},
		{"trailing data", `{"name":"Action"} {}`, "Invalid input"},
		{"missing name", `{"title":"Action"}`, "Missing required name field"},
		{"name not string", `{"name":42}`, `"name" must be a string`},
		{"short name", `{"name":"Ac"}`, `"name" length must be at least 3 characters long`},
		{"unknown key", `{"name":"Action","extra":true}`, `"extra" is not allowed`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.t = t
			s.expectError(s.do(http.MethodPost, "/api/genres", tt.body), http.StatusBadRequest, tt.message)
		})
	}
}

func TestInvalidPathID(t *testing.T) {
	s := newTestServer(t, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/genres/123"},
		{http.MethodPut, "/api/genres/123"},
		{http.MethodDelete, "/api/genres/123"},
		{http.MethodGet, "/api/movies/123"},
		{http.MethodPut, "/api/movies/123"},
		{http.MethodDelete, "/api/movies/123"},
		{http.MethodGet, "/api/movies/genre/123"},
	}

	for _, p := range paths {
		s.expectError(s.do(p.method, p.path, `{"name":"Action"}`), http.StatusBadRequest, "123 is not correct")
	}
}

func TestMovieEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	scifi := s.createGenre("Science Fiction")
	action := s.createGenre("Action")

	rec := s.do(http.MethodPost, "/api/movies", movieJSON("The Matrix", scifi.ID, action.ID))
	s.expect(rec, http.StatusCreated)
	matrix := decode[movieBody](t, rec)
	if matrix.ReleaseDate != "2023-03-31T00:00:00.000Z" {
		t.Fatalf("releaseDate = %q", matrix.ReleaseDate)
	}
	if len(matrix.Genre) != 2 || matrix.Genre[0].Name != "Science Fiction" || matrix.Genre[1].Name != "Action" {
		t.Fatalf("genre = %+v", matrix.Genre)
	}

	s.expectError(s.do(http.MethodPost, "/api/movies", movieJSON("The Matrix", action.ID)), http.StatusConflict, "Movie already exists")

	rec = s.do(http.MethodGet, "/api/movies/"+matrix.ID, "")
	s.expect(rec, http.StatusOK)
	if got := decode[movieBody](t, rec); got.Title != "The Matrix" || len(got.Genre) != 2 {
		t.Fatalf("GET movie = %+v", got)
	}

	rec = s.do(http.MethodGet, "/api/movies/genre/"+action.ID, "")
	s.expect(rec, http.StatusOK)
	if got := decode[[]movieBody](t, rec); len(got) != 1 || got[0].ID != matrix.ID {
		t.Fatalf("movies by genre = %+v", got)
	}
	s.expectError(s.do(http.MethodGet, "/api/movies/genre/"+unknownID, ""), http.StatusNotFound, "Genre not found")

	rec = s.do(http.MethodPut, "/api/movies/"+matrix.ID, movieJSON("The Matrix", action.ID))
	s.expect(rec, http.StatusOK)
	if got := decode[movieBody](t, rec); len(got.Genre) != 1 || got.Genre[0].ID != action.ID {
		t.Fatalf("PUT movie genre = %+v", got.Genre)
	}

	s.expectError(s.do(http.MethodPut, "/api/movies/"+unknownID, movieJSON("Heat", action.ID)), http.StatusNotFound, "Movie not found")
	s.expectError(s.do(http.MethodPut, "/api/movies/"+matrix.ID, movieJSON("Heat", unknownID)), http.StatusNotFound, "Genre not found")

	rec = s.do(http.MethodDelete, "/api/movies/"+matrix.ID, "")
	s.expect(rec, http.StatusOK)
	s.expectError(s.do(http.MethodDelete, "/api/movies/"+matrix.ID, ""), http.StatusNotFound, "Movie not found")
}

func TestMovieUnknownGenreNotPersisted(t *testing.T) {
	s := newTestServer(t, nil)

	s.expectError(s.do(http.MethodPost, "/api/movies", movieJSON("The Matrix", unknownID)), http.StatusNotFound, "Genre not found")

	rec := s.do(http.MethodGet, "/api/movies", "")
	s.expect(rec, http.StatusOK)
	if got := decode[[]movieBody](t, rec); len(got) != 0 {
		t.Fatalf("movies = %+v, want none", got)
	}
}

func TestMovieValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"title not a string", `{"title":123,"description":"desc","releaseDate":"2023-03-31","genre":["` + unknownID + `"]}`, `"title" must be a string`},
		{"bad genre id", `{"title":"Heat","description":"desc","releaseDate":"2023-03-31","genre":["123"]}`, `"genre[0]" with value "123" fails to match the required pattern: /^[0-9a-fA-F]{24}$/`},
		{"empty genre", `{"title":"Heat","description":"desc","releaseDate":"2023-03-31","genre":[]}`, `"genre" must contain at least 1 items`},
		{"date beyond int64", `{"title":"Heat","description":"desc","releaseDate":1e20,"genre":["` + unknownID + `"]}`, `"releaseDate" must be a valid date`},
		{"date in year 10000", `{"title":"Heat","description":"desc","releaseDate":253402300800000,"genre":["` + unknownID + `"]}`, `"releaseDate" must be a valid date`},
		{"date before year 0", `{"title":"Heat","description":"desc","releaseDate":-62167219200001,"genre":["` + unknownID + `"]}`, `"releaseDate" must be a valid date`},
		{"bad date", `{"title":"Heat","description":"desc","releaseDate":"Release date","genre":["` + unknownID + `"]}`, `"releaseDate" must be a valid date`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.t = t
			s.expectError(s.do(http.MethodPost, "/api/movies", tt.body), http.StatusBadRequest, tt.message)
		})
	}
}

func TestDeletedGenreIsDroppedFromMovies(t *testing.T) {
	s := newTestServer(t, nil)

	horror := s.createGenre("Horror")
	thriller := s.createGenre("Thriller")

	rec := s.do(http.MethodPost, "/api/movies", movieJSON("The Shining", horror.ID, thriller.ID))
	s.expect(rec, http.StatusCreated)
	movie := decode[movieBody](t, rec)

	s.expect(s.do(http.MethodDelete, "/api/genres/"+horror.ID, ""), http.StatusOK)

	rec = s.do(http.MethodGet, "/api/movies/"+movie.ID, "")
	s.expect(rec, http.StatusOK)
	got := decode[movieBody](t, rec)
	if len(got.Genre) != 1 || got.Genre[0].ID != thriller.ID {
		t.Fatalf("genre = %+v, want only Thriller", got.Genre)
	}
}

func TestAuxiliaryRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/health-check", "")
	s.expect(rec, http.StatusOK)
	if got := decode[map[string]string](t, rec); got["status"] != "OK" {
		t.Fatalf("health = %v", got)
	}

	rec = s.do(http.MethodGet, "/api-docs", "")
	s.expect(rec, http.StatusOK)
	if !strings.HasPrefix(rec.Body.String(), "openapi:") {
		t.Fatalf("docs body does not look like an OpenAPI document")
	}

	s.expectError(s.do(http.MethodGet, "/api/unknown", ""), http.StatusNotFound, "Not found")
	s.expectError(s.do(http.MethodPatch, "/api/genres", ""), http.StatusNotFound, "Not found")

	if id := rec.Header().Get(middleware.RequestIDHeader); id == "" {
		t.Fatalf("missing %s header", middleware.RequestIDHeader)
	}
}

func TestRateLimitedRouter(t *testing.T) {
	s := newTestServer(t, middleware.NewLocalLimiter(1, 1))

	s.expect(s.do(http.MethodGet, "/health-check", ""), http.StatusOK)
	s.expectError(s.do(http.MethodGet, "/health-check", ""), http.StatusTooManyRequests, "Too many requests")
}
