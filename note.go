package paperwork

import (
	"fmt"

	"github.com/ntnn/paperwork.go/pkg/api"
)

// Note is a titled content unit owned by exactly one notebook. It keeps a
// non-owning reference to its notebook to reach the transport and to know
// its notebook-scoped remote path.
type Note struct {
	ID        int
	Title     string
	Content   string
	UpdatedAt string

	tags     map[int]*Tag
	notebook *Notebook
}

func newNoteFromWire(w api.Note) *Note {
	return &Note{
		ID:        w.ID,
		Title:     w.Title,
		Content:   w.Content,
		UpdatedAt: w.UpdatedAt,
	}
}

// wire serializes for a write. The server manages updated_at; tags travel
// as stubs carrying only id, title and visibility.
func (n *Note) wire() api.Note {
	wireTags := make([]api.Tag, 0, len(n.tags))
	for _, tag := range n.Tags() {
		wireTags = append(wireTags, tag.wire())
	}
	return api.Note{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Tags:       wireTags,
		NotebookID: n.notebook.ID,
	}
}

func (n *Note) String() string {
	return fmt.Sprintf("%d:%q", n.ID, n.Title)
}

// Notebook returns the notebook currently owning this note.
func (n *Note) Notebook() *Notebook {
	return n.notebook
}

// Update reconciles the note with its remote counterpart. If the remote
// note cannot be fetched, local state is left untouched and
// ErrRemoteNotFound is reported. The local side is pushed when force is
// set or the remote timestamp is older or equal; a timestamp tie favors
// the local note, unlike notebooks. Only a strictly newer remote is
// pulled into the local note. A successful push adopts the
// server-returned updated_at.
func (n *Note) Update(force bool) error {
	n.notebook.log.Info().Stringer("note", n).Msg("updating note")

	remote, err := n.notebook.api.GetNote(n.notebook.ID, n.ID)
	if err != nil {
		n.notebook.log.Error().Err(err).Stringer("note", n).
			Msg("remote note could not be found, wrong id, deleted or moved to another notebook")
		return fmt.Errorf("note %d: %w: %s", n.ID, ErrRemoteNotFound, err)
	}

	if force || remote.UpdatedAt <= n.UpdatedAt {
		n.notebook.log.Info().Stringer("note", n).
			Msg("remote version is older or equal, updating remote note")
		updated, err := n.notebook.api.UpdateNote(n.wire())
		if err != nil {
			return fmt.Errorf("pushing note %d: %w", n.ID, err)
		}
		n.UpdatedAt = updated.UpdatedAt
		return nil
	}

	n.notebook.log.Info().Stringer("note", n).Msg("remote version is newer, updating local note")
	n.Title = remote.Title
	n.Content = remote.Content
	n.UpdatedAt = remote.UpdatedAt
	return nil
}

// Delete deletes the note remotely and removes it from its notebook.
func (n *Note) Delete() error {
	n.notebook.log.Info().Stringer("note", n).Stringer("notebook", n.notebook).Msg("deleting note")
	if err := n.notebook.api.DeleteNote(n.notebook.ID, n.ID); err != nil {
		return fmt.Errorf("deleting note %d: %w", n.ID, err)
	}
	n.notebook.removeNote(n.ID)
	return nil
}

// MoveTo transfers the note into another notebook: one remote move call,
// then removal from the old owner and insertion into the new one. The two
// local steps stay adjacent so the note is always reachable from an
// owner.
func (n *Note) MoveTo(newNotebook *Notebook) error {
	if err := n.notebook.api.MoveNote(n.notebook.ID, n.ID, newNotebook.ID); err != nil {
		return fmt.Errorf("moving note %d to notebook %d: %w", n.ID, newNotebook.ID, err)
	}
	n.notebook.removeNote(n.ID)
	newNotebook.AddNote(n)
	return nil
}

// AddTags attaches tags to the note. The note owns the association; the
// tags themselves are not touched.
func (n *Note) AddTags(tags ...*Tag) {
	if n.tags == nil {
		n.tags = make(map[int]*Tag)
	}
	for _, tag := range tags {
		n.notebook.log.Info().Stringer("tag", tag).Stringer("note", n).Msg("adding tag to note")
		n.tags[tag.ID] = tag
	}
}

// RemoveTag detaches the tag from this note. The tag stays in the
// workspace; other notes carrying it are unaffected.
func (n *Note) RemoveTag(tag *Tag) {
	delete(n.tags, tag.ID)
}

// HasTag reports whether the note carries the tag with the given id.
func (n *Note) HasTag(tagID int) bool {
	_, ok := n.tags[tagID]
	return ok
}

// Tags returns the note's tags sorted by title.
func (n *Note) Tags() []*Tag {
	tags := make([]*Tag, 0, len(n.tags))
	for _, tag := range n.tags {
		tags = append(tags, tag)
	}
	sortTags(tags)
	return tags
}
