package paperwork

import (
	"fmt"
	"sort"

	"github.com/ntnn/paperwork.go/pkg/api"
)

// Tag is a label for notes. The association lives on the notes; the notes
// carrying a tag are answered by the derived Paperwork.NotesByTag query.
type Tag struct {
	ID         int
	Title      string
	Visibility int
}

func newTagFromWire(w api.Tag) *Tag {
	return &Tag{
		ID:         w.ID,
		Title:      w.Title,
		Visibility: w.Visibility,
	}
}

func (t *Tag) wire() api.Tag {
	return api.Tag{
		ID:         t.ID,
		Title:      t.Title,
		Visibility: t.Visibility,
	}
}

func (t *Tag) String() string {
	return fmt.Sprintf("%d:%q", t.ID, t.Title)
}

func sortTags(tags []*Tag) {
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Title == tags[j].Title {
			return tags[i].ID < tags[j].ID
		}
		return tags[i].Title < tags[j].Title
	})
}
