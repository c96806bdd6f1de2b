// Package pokeapitest provides an in-process PokeAPI fake serving recorded
// responses.
package pokeapitest

import (
	"embed"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

//go:embed testdata/*.json
var fixtures embed.FS

// PNG is the body served for every sprite.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// Server is a fake PokeAPI. Recorded URLs are rewritten to point at it.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	hits      map[string]int
	overrides map[string]http.HandlerFunc
}

// NewServer starts a fake PokeAPI. Callers must Close it.
func NewServer() *Server {
	s := &Server{hits: map[string]int{}, overrides: map[string]http.HandlerFunc{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string { return s.URL + "/api/v2/" }

// Hits returns how many requests reached path (query excluded).
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Handle overrides the response for path.
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = h
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	s.mu.Lock()
	s.hits[path]++
	h := s.overrides[path]
	s.mu.Unlock()
	if h != nil {
		h(w, r)
		return
	}

	if strings.HasPrefix(path, "/sprites/") {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(PNG)
		return
	}

	var name string
	switch path {
	case "/api/v2/pokemon":
		name = "pokemon_list.json"
	case "/api/v2/pokemon/1", "/api/v2/pokemon/bulbasaur":
		name = "pokemon_1.json"
	case "/api/v2/pokemon-species/1", "/api/v2/pokemon-species/bulbasaur":
		name = "pokemon_species_1.json"
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	b, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(s.rewrite(string(b))))
}

func (s *Server) rewrite(body string) string {
	body = strings.ReplaceAll(body, "https://raw.githubusercontent.com/PokeAPI/sprites/master", s.URL)
	return strings.ReplaceAll(body, "https://pokeapi.co", s.URL)
}
