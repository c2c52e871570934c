// Package fakepw provides an in-process fake Paperwork host for tests.
//
// It serves the /api/v1/ resource catalog over plain HTTP with the
// `{success, response}` envelope, backed by an in-memory store. Tests can
// seed entities with explicit timestamps, force per-resource failures to
// exercise abort and isolation policies, and inspect the request log.
package fakepw

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/ntnn/paperwork.go/pkg/api"
)

// Server is a fake Paperwork host.
type Server struct {
	User     string
	Password string

	mu        sync.Mutex
	notebooks map[int]*notebookRec
	tags      map[int]api.Tag
	versions  map[int][]api.Version
	i18n      map[string]string
	nextID    int
	clock     int
	requests  []string
	failures  map[string]bool

	httpServer *httptest.Server
}

type notebookRec struct {
	api.Notebook
	notes map[int]*api.Note
}

// NewServer starts a fake host accepting the given basic credentials.
func NewServer(user, password string) *Server {
	s := &Server{
		User:      user,
		Password:  password,
		notebooks: make(map[int]*notebookRec),
		tags:      make(map[int]api.Tag),
		versions:  make(map[int][]api.Version),
		i18n:      map[string]string{"notebooks": "Notebooks"},
		nextID:    1,
		failures:  make(map[string]bool),
	}
	s.httpServer = httptest.NewServer(s.handler())
	return s
}

// URL returns the base URL of the fake host.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the fake host down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// SetFailure forces every request whose path contains pattern to answer
// with a success:false envelope until cleared.
func (s *Server) SetFailure(pattern string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.failures[pattern] = true
	} else {
		delete(s.failures, pattern)
	}
}

// Requests returns the request log as "METHOD path" entries in arrival
// order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CountMatching counts logged requests whose entry contains substr.
func (s *Server) CountMatching(substr string) int {
	count := 0
	for _, req := range s.Requests() {
		if strings.Contains(req, substr) {
			count++
		}
	}
	return count
}

// SetClock positions the server clock; timestamps produced afterwards are
// strictly greater than any produced before.
func (s *Server) SetClock(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = n
}

// stamp produces the next timestamp. Zero-padding keeps the strings
// comparable both lexicographically and numerically.
func (s *Server) stamp() string {
	s.clock++
	return fmt.Sprintf("%010d", s.clock)
}

// SeedTag stores a tag as-is.
func (s *Server) SeedTag(tag api.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[tag.ID] = tag
	if tag.ID >= s.nextID {
		s.nextID = tag.ID + 1
	}
}

// SeedNotebook stores a notebook as-is, keeping its timestamp.
func (s *Server) SeedNotebook(nb api.Notebook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notebooks[nb.ID] = &notebookRec{Notebook: nb, notes: make(map[int]*api.Note)}
	if nb.ID >= s.nextID {
		s.nextID = nb.ID + 1
	}
}

// SeedNote stores a note in the given notebook as-is, keeping its
// timestamp. The notebook must have been seeded before.
func (s *Server) SeedNote(notebookID int, note api.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note.NotebookID = notebookID
	stored := note
	s.notebooks[notebookID].notes[note.ID] = &stored
	if note.ID >= s.nextID {
		s.nextID = note.ID + 1
	}
}

// SeedVersions stores the version history of a note.
func (s *Server) SeedVersions(noteID int, versions []api.Version) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[noteID] = versions
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/notebooks", s.listNotebooks)
	mux.HandleFunc("POST /api/v1/notebooks", s.createNotebook)
	mux.HandleFunc("GET /api/v1/notebooks/{id}", s.getNotebook)
	mux.HandleFunc("PUT /api/v1/notebooks/{id}", s.updateNotebook)
	mux.HandleFunc("DELETE /api/v1/notebooks/{id}", s.deleteNotebook)

	mux.HandleFunc("GET /api/v1/notebooks/{id}/notes", s.listNotes)
	mux.HandleFunc("POST /api/v1/notebooks/{id}/notes", s.createNote)
	mux.HandleFunc("GET /api/v1/notebooks/{id}/notes/{note}", s.getNotes)
	mux.HandleFunc("PUT /api/v1/notebooks/{id}/notes/{note}", s.updateNote)
	mux.HandleFunc("DELETE /api/v1/notebooks/{id}/notes/{note}", s.deleteNotes)
	mux.HandleFunc("GET /api/v1/notebooks/{id}/notes/{note}/move/{target}", s.moveNotes)
	mux.HandleFunc("GET /api/v1/notebooks/{id}/notes/{note}/versions", s.listVersions)

	mux.HandleFunc("GET /api/v1/tags", s.listTags)
	mux.HandleFunc("GET /api/v1/tags/{id}", s.getTag)
	mux.HandleFunc("GET /api/v1/tagged/{id}", s.listTagged)
	mux.HandleFunc("GET /api/v1/search/{keyword}", s.search)
	mux.HandleFunc("GET /api/v1/i18n", s.i18nTable)
	mux.HandleFunc("GET /api/v1/i18n/{key}", s.i18nKey)

	return s.middleware(mux)
}

// middleware logs the request, checks basic auth and applies forced
// failures before the actual handler runs.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		failed := false
		for pattern := range s.failures {
			if strings.Contains(r.URL.Path, pattern) {
				failed = true
				break
			}
		}
		s.mu.Unlock()

		user, pass, ok := r.BasicAuth()
		if !ok || user != s.User || pass != s.Password {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if failed {
			writeFailure(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeSuccess(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"response": payload,
	})
}

func writeFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  false,
		"response": nil,
	})
}

func pathID(r *http.Request, name string) int {
	id, _ := strconv.Atoi(r.PathValue(name))
	return id
}

func pathIDs(r *http.Request, name string) []int {
	parts := strings.Split(r.PathValue(name), ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, _ := strconv.Atoi(part)
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) listNotebooks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nbs := make([]api.Notebook, 0, len(s.notebooks))
	for _, rec := range s.notebooks {
		nbs = append(nbs, rec.Notebook)
	}
	writeSuccess(w, nbs)
}

func (s *Server) createNotebook(w http.ResponseWriter, r *http.Request) {
	var nb api.Notebook
	if err := json.NewDecoder(r.Body).Decode(&nb); err != nil {
		writeFailure(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	nb.ID = s.nextID
	s.nextID++
	nb.UpdatedAt = s.stamp()
	s.notebooks[nb.ID] = &notebookRec{Notebook: nb, notes: make(map[int]*api.Note)}
	writeSuccess(w, nb)
}

func (s *Server) getNotebook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	writeSuccess(w, rec.Notebook)
}

func (s *Server) updateNotebook(w http.ResponseWriter, r *http.Request) {
	var nb api.Notebook
	if err := json.NewDecoder(r.Body).Decode(&nb); err != nil {
		writeFailure(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	rec.Title = nb.Title
	rec.Type = nb.Type
	rec.UpdatedAt = s.stamp()
	writeSuccess(w, rec.Notebook)
}

func (s *Server) deleteNotebook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r, "id")
	if _, ok := s.notebooks[id]; !ok {
		writeFailure(w)
		return
	}
	delete(s.notebooks, id)
	writeSuccess(w, nil)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	notes := make([]api.Note, 0, len(rec.notes))
	for _, note := range rec.notes {
		notes = append(notes, *note)
	}
	writeSuccess(w, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var note api.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		writeFailure(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	note.ID = s.nextID
	s.nextID++
	note.NotebookID = rec.ID
	note.UpdatedAt = s.stamp()
	rec.notes[note.ID] = &note
	writeSuccess(w, note)
}

// getNotes answers both the single-id and the comma-joined multi-id form:
// a single id yields one object, several ids a list.
func (s *Server) getNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	ids := pathIDs(r, "note")
	notes := make([]api.Note, 0, len(ids))
	for _, id := range ids {
		note, ok := rec.notes[id]
		if !ok {
			writeFailure(w)
			return
		}
		notes = append(notes, *note)
	}
	if len(notes) == 1 {
		writeSuccess(w, notes[0])
		return
	}
	writeSuccess(w, notes)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var update api.Note
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeFailure(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	note, ok := rec.notes[pathID(r, "note")]
	if !ok {
		writeFailure(w)
		return
	}
	note.Title = update.Title
	note.Content = update.Content
	note.Tags = update.Tags
	note.UpdatedAt = s.stamp()
	writeSuccess(w, *note)
}

func (s *Server) deleteNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	for _, id := range pathIDs(r, "note") {
		delete(rec.notes, id)
	}
	writeSuccess(w, nil)
}

func (s *Server) moveNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from, ok := s.notebooks[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	to, ok := s.notebooks[pathID(r, "target")]
	if !ok {
		writeFailure(w)
		return
	}
	moved := make([]api.Note, 0)
	for _, id := range pathIDs(r, "note") {
		note, ok := from.notes[id]
		if !ok {
			writeFailure(w)
			return
		}
		delete(from.notes, id)
		note.NotebookID = to.ID
		to.notes[id] = note
		moved = append(moved, *note)
	}
	writeSuccess(w, moved)
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions := s.versions[pathID(r, "note")]
	if versions == nil {
		versions = []api.Version{}
	}
	writeSuccess(w, versions)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]api.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		tags = append(tags, tag)
	}
	writeSuccess(w, tags)
}

func (s *Server) getTag(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, ok := s.tags[pathID(r, "id")]
	if !ok {
		writeFailure(w)
		return
	}
	writeSuccess(w, tag)
}

func (s *Server) listTagged(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tagID := pathID(r, "id")
	tagged := make([]api.Note, 0)
	for _, rec := range s.notebooks {
		for _, note := range rec.notes {
			for _, tag := range note.Tags {
				if tag.ID == tagID {
					tagged = append(tagged, *note)
					break
				}
			}
		}
	}
	writeSuccess(w, tagged)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	decoded, err := base64.StdEncoding.DecodeString(r.PathValue("keyword"))
	if err != nil {
		writeFailure(w)
		return
	}
	keyword := strings.ToLower(string(decoded))

	s.mu.Lock()
	defer s.mu.Unlock()
	matches := make([]api.Note, 0)
	for _, rec := range s.notebooks {
		for _, note := range rec.notes {
			if strings.Contains(strings.ToLower(note.Title), keyword) ||
				strings.Contains(strings.ToLower(note.Content), keyword) {
				matches = append(matches, *note)
			}
		}
	}
	writeSuccess(w, matches)
}

func (s *Server) i18nTable(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeSuccess(w, s.i18n)
}

func (s *Server) i18nKey(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	word, ok := s.i18n[r.PathValue("key")]
	if !ok {
		writeFailure(w)
		return
	}
	writeSuccess(w, word)
}
