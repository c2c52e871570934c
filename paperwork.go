package paperwork

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ntnn/paperwork.go/pkg/api"
)

// AllNotesTitle is the synthetic notebook the remote host uses as a
// virtual aggregate view over every note. It never exists as a real
// notebook and must not be created remotely.
const AllNotesTitle = "All Notes"

// Paperwork is the root aggregate of one authenticated session: it owns
// the notebook and tag collections of the local mirror. Construct one per
// session; instances share nothing.
type Paperwork struct {
	notebooks map[int]*Notebook
	tags      map[int]*Tag

	api           *api.Client
	authenticated bool
	log           zerolog.Logger
	scorer        Scorer
}

// New connects to host with basic credentials and returns the workspace.
// Whether the credentials were accepted is reported by Authenticated;
// Download, Update and the create operations refuse to run without it.
func New(host, user, password string) *Paperwork {
	return FromClient(api.NewClient(host, user, password))
}

// FromClient builds a workspace on top of an already configured client,
// for callers that need custom timeouts or transports.
func FromClient(c *api.Client) *Paperwork {
	return &Paperwork{
		notebooks:     make(map[int]*Notebook),
		tags:          make(map[int]*Tag),
		api:           c,
		authenticated: c.Authenticate(),
		log:           zerolog.Nop(),
		scorer:        DefaultScorer,
	}
}

// WithLogger attaches a logger to the workspace; it is silent by default.
func (pw *Paperwork) WithLogger(log zerolog.Logger) *Paperwork {
	pw.log = log
	return pw
}

// WithScorer replaces the similarity primitive used by the fuzzy finders.
func (pw *Paperwork) WithScorer(s Scorer) *Paperwork {
	pw.scorer = s
	return pw
}

// API exposes the underlying client for the catalog operations the mirror
// does not model, such as note versions and attachment metadata.
func (pw *Paperwork) API() *api.Client {
	return pw.api
}

// Authenticated reports whether the remote host accepted the credentials.
func (pw *Paperwork) Authenticated() bool {
	return pw.authenticated
}

// Download populates the mirror from the remote host: all tags, then all
// notebooks, then each notebook's notes with their tags attached by id.
// Tags come first because note-tag attachment resolves ids against the
// workspace tag collection.
//
// A failure listing tags or notebooks aborts the download. A failure
// listing one notebook's notes only leaves that notebook empty; the
// remaining notebooks are still populated.
func (pw *Paperwork) Download() error {
	if !pw.authenticated {
		return ErrNotAuthenticated
	}

	pw.log.Info().Msg("downloading tags")
	wireTags, err := pw.api.ListTags()
	if err != nil {
		return fmt.Errorf("downloading tags: %w", err)
	}
	for _, wt := range wireTags {
		tag := newTagFromWire(wt)
		pw.tags[tag.ID] = tag
	}

	pw.log.Info().Msg("downloading notebooks")
	wireNotebooks, err := pw.api.ListNotebooks()
	if err != nil {
		return fmt.Errorf("downloading notebooks: %w", err)
	}
	for _, wnb := range wireNotebooks {
		nb := newNotebookFromWire(wnb, pw.api, pw.log)
		pw.notebooks[nb.ID] = nb
		if err := nb.download(pw.tags); err != nil {
			if errors.Is(err, ErrUnknownTag) {
				return err
			}
			pw.log.Warn().Err(err).Int("notebook", nb.ID).
				Msg("skipping notes of unreachable notebook")
		}
	}
	return nil
}

// Update reconciles every notebook, and within each every note, with its
// remote counterpart. Entities are visited sorted by title so runs are
// reproducible. One entity's failure does not stop the traversal; all
// failures are joined into the returned error.
func (pw *Paperwork) Update() error {
	if !pw.authenticated {
		return ErrNotAuthenticated
	}

	pw.log.Info().Msg("updating notebooks and notes")
	var errs []error
	for _, nb := range pw.Notebooks() {
		if err := nb.Update(false); err != nil {
			pw.log.Error().Err(err).Int("notebook", nb.ID).Msg("notebook update failed")
			errs = append(errs, err)
		}
		for _, note := range nb.Notes() {
			if err := note.Update(false); err != nil {
				pw.log.Error().Err(err).Int("note", note.ID).Msg("note update failed")
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// CreateNotebook creates a notebook remotely and inserts it into the
// workspace. The title "All Notes" is reserved for the remote host's
// virtual aggregate view; creating it is a no-op that returns nil.
func (pw *Paperwork) CreateNotebook(title string) (*Notebook, error) {
	if !pw.authenticated {
		return nil, ErrNotAuthenticated
	}
	if title == AllNotesTitle {
		pw.log.Debug().Msg("refusing to create the virtual notebook")
		return nil, nil
	}

	wire, err := pw.api.CreateNotebook(title)
	if err != nil {
		return nil, fmt.Errorf("creating notebook %q: %w", title, err)
	}
	nb := newNotebookFromWire(*wire, pw.api, pw.log)
	pw.AddNotebook(nb)
	pw.log.Info().Int("id", nb.ID).Str("title", nb.Title).Msg("created notebook")
	return nb, nil
}

// AddNotebook inserts a notebook into the workspace and wires it to the
// session. Notebooks without a remote id are ignored; they cannot be
// addressed until a create call assigns one.
func (pw *Paperwork) AddNotebook(nb *Notebook) {
	if nb.ID == 0 {
		pw.log.Debug().Str("title", nb.Title).Msg("ignoring notebook without remote id")
		return
	}
	nb.api = pw.api
	nb.log = pw.log
	pw.notebooks[nb.ID] = nb
	pw.log.Info().Int("id", nb.ID).Str("title", nb.Title).Msg("added notebook")
}

// AddTag inserts a tag into the workspace tag collection.
func (pw *Paperwork) AddTag(tag *Tag) {
	pw.tags[tag.ID] = tag
	pw.log.Info().Int("id", tag.ID).Str("title", tag.Title).Msg("added tag")
}

// DeleteNotebook deletes the notebook and all its notes remotely, then
// removes it from the workspace.
func (pw *Paperwork) DeleteNotebook(nb *Notebook) error {
	if err := pw.api.DeleteNotebook(nb.ID); err != nil {
		return fmt.Errorf("deleting notebook %d: %w", nb.ID, err)
	}
	delete(pw.notebooks, nb.ID)
	pw.log.Info().Int("id", nb.ID).Str("title", nb.Title).Msg("deleted notebook")
	return nil
}

// Notebooks returns the notebooks sorted by title.
func (pw *Paperwork) Notebooks() []*Notebook {
	nbs := make([]*Notebook, 0, len(pw.notebooks))
	for _, nb := range pw.notebooks {
		nbs = append(nbs, nb)
	}
	sort.Slice(nbs, func(i, j int) bool {
		if nbs[i].Title == nbs[j].Title {
			return nbs[i].ID < nbs[j].ID
		}
		return nbs[i].Title < nbs[j].Title
	})
	return nbs
}

// Notes returns every note of every notebook, sorted by title.
func (pw *Paperwork) Notes() []*Note {
	var notes []*Note
	for _, nb := range pw.notebooks {
		for _, note := range nb.notes {
			notes = append(notes, note)
		}
	}
	sortNotes(notes)
	return notes
}

// Tags returns the tags sorted by title.
func (pw *Paperwork) Tags() []*Tag {
	tags := make([]*Tag, 0, len(pw.tags))
	for _, tag := range pw.tags {
		tags = append(tags, tag)
	}
	sortTags(tags)
	return tags
}

// NotesByTag returns the notes currently carrying the tag, sorted by
// title. The association is owned by the notes; this is a derived query,
// not a stored index.
func (pw *Paperwork) NotesByTag(tag *Tag) []*Note {
	var notes []*Note
	for _, nb := range pw.notebooks {
		for _, note := range nb.notes {
			if note.HasTag(tag.ID) {
				notes = append(notes, note)
			}
		}
	}
	sortNotes(notes)
	return notes
}

// NotebookByID returns the notebook with the given id. An unknown id is
// an integration mistake and reported as ErrUnknownID.
func (pw *Paperwork) NotebookByID(id int) (*Notebook, error) {
	nb, ok := pw.notebooks[id]
	if !ok {
		return nil, fmt.Errorf("notebook %d: %w", id, ErrUnknownID)
	}
	return nb, nil
}

// NotebookByTitle returns the first notebook with exactly the given
// title. Title collisions are legal; which of several equal titles wins
// is not specified.
func (pw *Paperwork) NotebookByTitle(title string) (*Notebook, error) {
	for _, nb := range pw.Notebooks() {
		if nb.Title == title {
			return nb, nil
		}
	}
	return nil, fmt.Errorf("notebook %q: %w", title, ErrTitleNotFound)
}

// NoteByID returns the note with the given id from any notebook.
func (pw *Paperwork) NoteByID(id int) (*Note, error) {
	for _, nb := range pw.notebooks {
		if note, ok := nb.notes[id]; ok {
			return note, nil
		}
	}
	return nil, fmt.Errorf("note %d: %w", id, ErrUnknownID)
}

// NoteByTitle returns the first note with exactly the given title.
func (pw *Paperwork) NoteByTitle(title string) (*Note, error) {
	for _, note := range pw.Notes() {
		if note.Title == title {
			return note, nil
		}
	}
	return nil, fmt.Errorf("note %q: %w", title, ErrTitleNotFound)
}

// TagByID returns the tag with the given id.
func (pw *Paperwork) TagByID(id int) (*Tag, error) {
	tag, ok := pw.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %d: %w", id, ErrUnknownID)
	}
	return tag, nil
}

// TagByTitle returns the first tag with exactly the given title.
func (pw *Paperwork) TagByTitle(title string) (*Tag, error) {
	for _, tag := range pw.Tags() {
		if tag.Title == title {
			return tag, nil
		}
	}
	return nil, fmt.Errorf("tag %q: %w", title, ErrTitleNotFound)
}

// Search asks the remote host for notes matching the keyword and resolves
// the returned ids against the local mirror. Ids the mirror does not know
// are skipped; run Download first for a complete mirror.
func (pw *Paperwork) Search(keyword string) ([]*Note, error) {
	if !pw.authenticated {
		return nil, ErrNotAuthenticated
	}
	wireNotes, err := pw.api.Search(keyword)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", keyword, err)
	}
	var notes []*Note
	for _, wn := range wireNotes {
		note, err := pw.NoteByID(wn.ID)
		if err != nil {
			pw.log.Warn().Int("note", wn.ID).Msg("search result not in local mirror")
			continue
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func sortNotes(notes []*Note) {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Title == notes[j].Title {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].Title < notes[j].Title
	})
}
