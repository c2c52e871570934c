package api

// Wire representations of the remote entities. These are the shapes the
// REST API speaks; the in-memory graph in the root package has its own
// types and converts at the boundary.

// Notebook is the wire shape of a notebook.
type Notebook struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Type      int    `json:"type"`
	Shortcut  string `json:"shortcut,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Note is the wire shape of a note. Tags carries stubs with at least the
// id set; the server does not expect full tag objects on writes.
type Note struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	ContentPreview string `json:"content_preview,omitempty"`
	Tags           []Tag  `json:"tags,omitempty"`
	NotebookID     int    `json:"notebook_id"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// Tag is the wire shape of a tag.
type Tag struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Visibility int    `json:"visibility"`
}

// Version is one entry of a note's version history.
type Version struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Attachment is the metadata of a file attached to a note version.
// Binary up- and download is not part of the client.
type Attachment struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
	Size     int    `json:"size,omitempty"`
}
