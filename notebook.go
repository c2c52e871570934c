package paperwork

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ntnn/paperwork.go/pkg/api"
)

// Notebook is a named container owning its notes. A note belongs to
// exactly one notebook at any time; only the owning notebook inserts into
// or removes from its note collection.
type Notebook struct {
	ID        int
	Title     string
	Type      int
	UpdatedAt string

	notes map[int]*Note
	api   *api.Client
	log   zerolog.Logger
}

func newNotebookFromWire(w api.Notebook, c *api.Client, log zerolog.Logger) *Notebook {
	return &Notebook{
		ID:        w.ID,
		Title:     w.Title,
		Type:      w.Type,
		UpdatedAt: w.UpdatedAt,
		notes:     make(map[int]*Note),
		api:       c,
		log:       log,
	}
}

// wire serializes for a write. The server manages updated_at, so it is
// not sent.
func (nb *Notebook) wire() api.Notebook {
	return api.Notebook{
		ID:    nb.ID,
		Title: nb.Title,
		Type:  nb.Type,
	}
}

func (nb *Notebook) String() string {
	return fmt.Sprintf("%d:%q", nb.ID, nb.Title)
}

// Update reconciles the notebook with its remote counterpart. If the
// remote notebook cannot be fetched, local state is left untouched and
// ErrRemoteNotFound is reported. The local side is pushed when force is
// set or the remote timestamp is strictly older; on a tie or a newer
// remote, the remote fields are pulled into the local notebook. A
// successful push adopts the server-returned updated_at.
func (nb *Notebook) Update(force bool) error {
	nb.log.Info().Stringer("notebook", nb).Msg("updating notebook")

	remote, err := nb.api.GetNotebook(nb.ID)
	if err != nil {
		nb.log.Error().Err(err).Stringer("notebook", nb).
			Msg("remote notebook could not be found, wrong id or deleted")
		return fmt.Errorf("notebook %d: %w: %s", nb.ID, ErrRemoteNotFound, err)
	}

	if force || remote.UpdatedAt < nb.UpdatedAt {
		updated, err := nb.api.UpdateNotebook(nb.wire())
		if err != nil {
			return fmt.Errorf("pushing notebook %d: %w", nb.ID, err)
		}
		if updated.UpdatedAt != "" {
			nb.UpdatedAt = updated.UpdatedAt
		}
		return nil
	}

	nb.log.Info().Stringer("notebook", nb).Msg("remote version is newer, updating local notebook")
	nb.Title = remote.Title
	nb.UpdatedAt = remote.UpdatedAt
	return nil
}

// CreateNote creates a note with the given title in this notebook. The
// server assigns the id and the initial updated_at.
func (nb *Notebook) CreateNote(title string) (*Note, error) {
	wire, err := nb.api.CreateNote(nb.ID, title, "")
	if err != nil {
		return nil, fmt.Errorf("creating note %q in notebook %d: %w", title, nb.ID, err)
	}
	note := &Note{
		ID:        wire.ID,
		Title:     title,
		UpdatedAt: wire.UpdatedAt,
	}
	nb.AddNote(note)
	nb.log.Info().Stringer("note", note).Stringer("notebook", nb).Msg("created note")
	return note, nil
}

// AddNote inserts a note into this notebook and takes ownership of it.
func (nb *Notebook) AddNote(note *Note) {
	if nb.notes == nil {
		nb.notes = make(map[int]*Note)
	}
	note.notebook = nb
	nb.notes[note.ID] = note
	nb.log.Info().Stringer("note", note).Stringer("notebook", nb).Msg("added note")
}

// removeNote drops the note from the collection. Only note deletion and
// move-transfer go through here.
func (nb *Notebook) removeNote(id int) {
	delete(nb.notes, id)
}

// Notes returns the notebook's notes sorted by title.
func (nb *Notebook) Notes() []*Note {
	notes := make([]*Note, 0, len(nb.notes))
	for _, note := range nb.notes {
		notes = append(notes, note)
	}
	sortNotes(notes)
	return notes
}

// download fetches this notebook's notes and attaches their tags. Every
// tag id on the wire must already be present in tags; the remote host
// serves tags before notes reference them.
func (nb *Notebook) download(tags map[int]*Tag) error {
	nb.log.Info().Stringer("notebook", nb).Msg("downloading notes")
	wireNotes, err := nb.api.ListNotebookNotes(nb.ID)
	if err != nil {
		return fmt.Errorf("listing notes of notebook %d: %w", nb.ID, err)
	}
	for _, wn := range wireNotes {
		note := newNoteFromWire(wn)
		nb.AddNote(note)
		for _, wt := range wn.Tags {
			tag, ok := tags[wt.ID]
			if !ok {
				return fmt.Errorf("note %d references tag %d: %w", note.ID, wt.ID, ErrUnknownTag)
			}
			note.AddTags(tag)
		}
	}
	return nil
}
