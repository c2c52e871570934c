// Package api implements the HTTP client for the Paperwork REST API.
//
// The client addresses resources through a keyword catalog mirroring the
// remote routing table and speaks the `{success, response}` JSON envelope.
// It never retries; any transport-level problem is returned as an error
// and the caller decides whether to abort or continue.
package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// ClientVersion is the client version reported in the User-Agent header.
	ClientVersion = "0.1.0"

	apiVersion = "/api/v1/"

	defaultTimeout = 10 * time.Second
)

// Resource keywords addressed by the client. Each maps to a templated
// path under /api/v1/.
const (
	KeyNotebooks   = "notebooks"
	KeyNotebook    = "notebook"
	KeyNotes       = "notes"
	KeyNote        = "note"
	KeyMove        = "move"
	KeyVersions    = "versions"
	KeyVersion     = "version"
	KeyAttachments = "attachments"
	KeyAttachment  = "attachment"
	KeyTags        = "tags"
	KeyTag         = "tag"
	KeyTagged      = "tagged"
	KeySearch      = "search"
	KeyI18n        = "i18n"
	KeyI18nKey     = "i18nkey"
)

var apiPath = map[string]string{
	KeyNotebooks:   "notebooks",
	KeyNotebook:    "notebooks/%v",
	KeyNotes:       "notebooks/%v/notes",
	KeyNote:        "notebooks/%v/notes/%v",
	KeyMove:        "notebooks/%v/notes/%v/move/%v",
	KeyVersions:    "notebooks/%v/notes/%v/versions",
	KeyVersion:     "notebooks/%v/notes/%v/versions/%v",
	KeyAttachments: "notebooks/%v/notes/%v/versions/%v/attachments",
	KeyAttachment:  "notebooks/%v/notes/%v/versions/%v/attachments/%v",
	KeyTags:        "tags",
	KeyTag:         "tags/%v",
	KeyTagged:      "tagged/%v",
	KeySearch:      "search/%v",
	KeyI18n:        "i18n",
	KeyI18nKey:     "i18n/%v",
}

// Client issues authenticated requests against one Paperwork host.
type Client struct {
	host       string
	user       string
	password   string
	userAgent  string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for the given host and credentials. A host
// without a scheme is assumed to be plain http, matching the remote
// service's default deployment.
func NewClient(host, user, password string) *Client {
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return &Client{
		host:      strings.TrimRight(host, "/"),
		user:      user,
		password:  password,
		userAgent: "paperwork.go api client v" + ClientVersion,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		log: zerolog.Nop(),
	}
}

// SetTimeout overrides the default request timeout.
func (c *Client) SetTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// SetHTTPClient replaces the underlying http.Client.
func (c *Client) SetHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithLogger attaches a logger; the client is silent by default.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	return c
}

// Host returns the normalized base URL the client talks to.
func (c *Client) Host() string {
	return c.host
}

// Authenticate probes the remote host with the configured credentials and
// reports whether they were accepted.
func (c *Client) Authenticate() bool {
	if _, err := c.Request(http.MethodGet, KeyNotebooks, nil); err != nil {
		c.log.Error().Err(err).Str("host", c.host).Msg("authentication failed")
		return false
	}
	return true
}

type envelope struct {
	Success  bool            `json:"success"`
	Response json.RawMessage `json:"response"`
}

// Request sends one request to the remote host and returns the raw
// response payload. The keyword selects a templated path from the catalog
// and args fill its placeholders.
func (c *Client) Request(method, keyword string, body any, args ...any) (json.RawMessage, error) {
	tmpl, ok := apiPath[keyword]
	if !ok {
		return nil, fmt.Errorf("unknown resource keyword %q", keyword)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", keyword, err)
		}
		reqBody = bytes.NewReader(data)
	}

	uri := c.host + apiVersion + fmt.Sprintf(tmpl, args...)
	req, err := http.NewRequest(method, uri, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.SetBasicAuth(c.user, c.password)

	c.log.Info().Str("method", method).Str("uri", uri).Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: %w: %d", method, uri, ErrStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s %s: decoding envelope: %w", method, uri, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%s %s: %w", method, uri, ErrUnsuccessful)
	}
	return env.Response, nil
}

func (c *Client) get(out any, keyword string, args ...any) error {
	return c.do(http.MethodGet, keyword, nil, out, args...)
}

func (c *Client) post(body, out any, keyword string, args ...any) error {
	return c.do(http.MethodPost, keyword, body, out, args...)
}

func (c *Client) put(body, out any, keyword string, args ...any) error {
	return c.do(http.MethodPut, keyword, body, out, args...)
}

func (c *Client) delete(keyword string, args ...any) error {
	return c.do(http.MethodDelete, keyword, nil, nil, args...)
}

func (c *Client) do(method, keyword string, body, out any, args ...any) error {
	raw, err := c.Request(method, keyword, body, args...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

// ListNotebooks returns all notebooks on the remote host.
func (c *Client) ListNotebooks() ([]Notebook, error) {
	var nbs []Notebook
	err := c.get(&nbs, KeyNotebooks)
	return nbs, err
}

// CreateNotebook creates a notebook with the given title and returns its
// wire representation with the server-assigned id.
func (c *Client) CreateNotebook(title string) (*Notebook, error) {
	var nb Notebook
	body := Notebook{Title: title, Shortcut: ""}
	if err := c.post(&body, &nb, KeyNotebooks); err != nil {
		return nil, err
	}
	return &nb, nil
}

// GetNotebook fetches a single notebook by id.
func (c *Client) GetNotebook(notebookID int) (*Notebook, error) {
	var nb Notebook
	if err := c.get(&nb, KeyNotebook, notebookID); err != nil {
		return nil, err
	}
	return &nb, nil
}

// UpdateNotebook replaces the remote notebook and returns the server's
// resulting representation.
func (c *Client) UpdateNotebook(nb Notebook) (*Notebook, error) {
	var updated Notebook
	if err := c.put(&nb, &updated, KeyNotebook, nb.ID); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteNotebook deletes the notebook and every note it contains.
func (c *Client) DeleteNotebook(notebookID int) error {
	return c.delete(KeyNotebook, notebookID)
}

// ListNotebookNotes returns all notes of one notebook.
func (c *Client) ListNotebookNotes(notebookID int) ([]Note, error) {
	var notes []Note
	err := c.get(&notes, KeyNotes, notebookID)
	return notes, err
}

// CreateNote creates a note in the given notebook. The server assigns the
// id and the initial updated_at.
func (c *Client) CreateNote(notebookID int, title, content string) (*Note, error) {
	preview := content
	if len(preview) > 15 {
		preview = preview[:15]
	}
	body := Note{Title: title, Content: content, ContentPreview: preview}
	var note Note
	if err := c.post(&body, &note, KeyNotes, notebookID); err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNote fetches a single note by notebook and note id.
func (c *Client) GetNote(notebookID, noteID int) (*Note, error) {
	var note Note
	if err := c.get(&note, KeyNote, notebookID, noteID); err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNotes fetches several notes of one notebook in a single request.
func (c *Client) GetNotes(notebookID int, noteIDs []int) ([]Note, error) {
	var notes []Note
	err := c.get(&notes, KeyNote, notebookID, joinIDs(noteIDs))
	return notes, err
}

// UpdateNote replaces the remote note and returns the server's resulting
// representation, including the new updated_at.
func (c *Client) UpdateNote(note Note) (*Note, error) {
	var updated Note
	if err := c.put(&note, &updated, KeyNote, note.NotebookID, note.ID); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteNote deletes one note.
func (c *Client) DeleteNote(notebookID, noteID int) error {
	return c.delete(KeyNote, notebookID, noteID)
}

// DeleteNotes deletes several notes of one notebook in a single request.
func (c *Client) DeleteNotes(notebookID int, noteIDs []int) error {
	return c.delete(KeyNote, notebookID, joinIDs(noteIDs))
}

// MoveNote moves a note into another notebook. The remote service models
// this as a GET on the move resource.
func (c *Client) MoveNote(notebookID, noteID, newNotebookID int) error {
	return c.do(http.MethodGet, KeyMove, nil, nil, notebookID, noteID, newNotebookID)
}

// MoveNotes moves several notes of one notebook into another notebook.
func (c *Client) MoveNotes(notebookID int, noteIDs []int, newNotebookID int) error {
	return c.do(http.MethodGet, KeyMove, nil, nil, notebookID, joinIDs(noteIDs), newNotebookID)
}

// ListNoteVersions returns the version history of a note.
func (c *Client) ListNoteVersions(notebookID, noteID int) ([]Version, error) {
	var versions []Version
	err := c.get(&versions, KeyVersions, notebookID, noteID)
	return versions, err
}

// GetNoteVersion returns one version of a note.
func (c *Client) GetNoteVersion(notebookID, noteID, versionID int) (*Version, error) {
	var version Version
	if err := c.get(&version, KeyVersion, notebookID, noteID, versionID); err != nil {
		return nil, err
	}
	return &version, nil
}

// ListNoteAttachments lists the attachments of one note version.
func (c *Client) ListNoteAttachments(notebookID, noteID, versionID int) ([]Attachment, error) {
	var attachments []Attachment
	err := c.get(&attachments, KeyAttachments, notebookID, noteID, versionID)
	return attachments, err
}

// GetNoteAttachment returns attachment metadata for one note version.
func (c *Client) GetNoteAttachment(notebookID, noteID, versionID, attachmentID int) (*Attachment, error) {
	var attachment Attachment
	if err := c.get(&attachment, KeyAttachment, notebookID, noteID, versionID, attachmentID); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DeleteNoteAttachment deletes one attachment of a note version.
func (c *Client) DeleteNoteAttachment(notebookID, noteID, versionID, attachmentID int) error {
	return c.delete(KeyAttachment, notebookID, noteID, versionID, attachmentID)
}

// ListTags returns all tags on the remote host.
func (c *Client) ListTags() ([]Tag, error) {
	var tags []Tag
	err := c.get(&tags, KeyTags)
	return tags, err
}

// GetTag fetches a single tag by id.
func (c *Client) GetTag(tagID int) (*Tag, error) {
	var tag Tag
	if err := c.get(&tag, KeyTag, tagID); err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTagged returns the notes carrying the given tag.
func (c *Client) ListTagged(tagID int) ([]Note, error) {
	var notes []Note
	err := c.get(&notes, KeyTagged, tagID)
	return notes, err
}

// Search asks the remote host for notes matching the keyword. The keyword
// travels base64-encoded in the path.
func (c *Client) Search(keyword string) ([]Note, error) {
	var notes []Note
	encoded := base64.StdEncoding.EncodeToString([]byte(keyword))
	err := c.get(&notes, KeySearch, encoded)
	return notes, err
}

// I18n returns the full translation table of the remote host.
func (c *Client) I18n() (map[string]string, error) {
	var table map[string]string
	err := c.get(&table, KeyI18n)
	return table, err
}

// I18nKey returns a single translated word.
func (c *Client) I18nKey(key string) (string, error) {
	var word string
	err := c.get(&word, KeyI18nKey, key)
	return word, err
}
