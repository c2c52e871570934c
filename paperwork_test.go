package paperwork_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paperwork "github.com/ntnn/paperwork.go"
	"github.com/ntnn/paperwork.go/internal/fakepw"
	"github.com/ntnn/paperwork.go/pkg/api"
)

// openServer starts a fake host seeded with two notebooks, three notes
// and two tags, all stamped "0000000100". The server clock is positioned
// so every stamp it hands out afterwards is strictly greater.
func openServer(t *testing.T) *fakepw.Server {
	t.Helper()
	srv := fakepw.NewServer("user", "secret")
	t.Cleanup(srv.Close)

	srv.SeedTag(api.Tag{ID: 1, Title: "shopping"})
	srv.SeedTag(api.Tag{ID: 2, Title: "work", Visibility: 1})
	srv.SeedNotebook(api.Notebook{ID: 10, Title: "Groceries", UpdatedAt: stamp(100)})
	srv.SeedNotebook(api.Notebook{ID: 11, Title: "Projects", UpdatedAt: stamp(100)})
	srv.SeedNote(10, api.Note{ID: 20, Title: "Grocery List", Content: "milk and eggs",
		Tags: []api.Tag{{ID: 1}}, UpdatedAt: stamp(100)})
	srv.SeedNote(10, api.Note{ID: 21, Title: "Hardware Store", Content: "nails",
		UpdatedAt: stamp(100)})
	srv.SeedNote(11, api.Note{ID: 22, Title: "Quarterly Report", Content: "numbers",
		Tags: []api.Tag{{ID: 2}}, UpdatedAt: stamp(100)})
	srv.SetClock(1000)
	return srv
}

func openWorkspace(t *testing.T) (*paperwork.Paperwork, *fakepw.Server) {
	t.Helper()
	srv := openServer(t)
	pw := paperwork.New(srv.URL(), "user", "secret")
	require.True(t, pw.Authenticated())
	return pw, srv
}

func downloadedWorkspace(t *testing.T) (*paperwork.Paperwork, *fakepw.Server) {
	t.Helper()
	pw, srv := openWorkspace(t)
	require.NoError(t, pw.Download())
	return pw, srv
}

// stamp formats a timestamp the way the fake server's clock does.
func stamp(n int) string {
	return fmt.Sprintf("%010d", n)
}

func TestAuthenticationGate(t *testing.T) {
	srv := openServer(t)
	pw := paperwork.New(srv.URL(), "user", "wrong")
	assert.False(t, pw.Authenticated())

	assert.ErrorIs(t, pw.Download(), paperwork.ErrNotAuthenticated)
	assert.ErrorIs(t, pw.Update(), paperwork.ErrNotAuthenticated)
	_, err := pw.CreateNotebook("Recipes")
	assert.ErrorIs(t, err, paperwork.ErrNotAuthenticated)
	_, err = pw.Search("milk")
	assert.ErrorIs(t, err, paperwork.ErrNotAuthenticated)
}

func TestDownload(t *testing.T) {
	pw, _ := downloadedWorkspace(t)

	nbs := pw.Notebooks()
	require.Len(t, nbs, 2)
	assert.Equal(t, "Groceries", nbs[0].Title)
	assert.Equal(t, "Projects", nbs[1].Title)

	t.Run("notes know their owning notebook", func(t *testing.T) {
		for _, nb := range nbs {
			for _, note := range nb.Notes() {
				assert.Same(t, nb, note.Notebook())
				assert.Equal(t, nb.ID, note.Notebook().ID)
			}
		}
	})

	t.Run("tags attach from the workspace collection", func(t *testing.T) {
		note, err := pw.NoteByID(20)
		require.NoError(t, err)
		tags := note.Tags()
		require.Len(t, tags, 1)

		workspaceTag, err := pw.TagByID(1)
		require.NoError(t, err)
		assert.Same(t, workspaceTag, tags[0])
	})
}

func TestDownloadIdempotent(t *testing.T) {
	pw, _ := downloadedWorkspace(t)

	first := graphSnapshot(pw)
	require.NoError(t, pw.Download())
	assert.Equal(t, first, graphSnapshot(pw))
}

// graphSnapshot flattens the observable graph for equality checks.
func graphSnapshot(pw *paperwork.Paperwork) map[string]string {
	snap := make(map[string]string)
	for _, nb := range pw.Notebooks() {
		snap["nb"+nb.Title] = nb.UpdatedAt
		for _, note := range nb.Notes() {
			snap["note"+note.Title] = note.Content + "@" + note.UpdatedAt
			for _, tag := range note.Tags() {
				snap["note"+note.Title+"/tag"+tag.Title] = tag.Title
			}
		}
	}
	for _, tag := range pw.Tags() {
		snap["tag"+tag.Title] = tag.Title
	}
	return snap
}

func TestDownloadAbortsWithoutTags(t *testing.T) {
	pw, srv := openWorkspace(t)
	srv.SetFailure("tags", true)

	require.Error(t, pw.Download())
	assert.Empty(t, pw.Notebooks())
}

func TestDownloadIsolatesNotebookFailure(t *testing.T) {
	pw, srv := openWorkspace(t)
	srv.SetFailure("notebooks/10/notes", true)

	require.NoError(t, pw.Download())

	groceries, err := pw.NotebookByID(10)
	require.NoError(t, err)
	assert.Empty(t, groceries.Notes())

	projects, err := pw.NotebookByID(11)
	require.NoError(t, err)
	assert.Len(t, projects.Notes(), 1)
}

func TestDownloadRejectsUnknownTag(t *testing.T) {
	pw, srv := openWorkspace(t)
	srv.SeedNote(11, api.Note{ID: 23, Title: "Orphan", Tags: []api.Tag{{ID: 99}},
		UpdatedAt: stamp(100)})

	err := pw.Download()
	assert.ErrorIs(t, err, paperwork.ErrUnknownTag)
}

func TestCreateNotebook(t *testing.T) {
	pw, srv := openWorkspace(t)

	nb, err := pw.CreateNotebook("Recipes")
	require.NoError(t, err)
	require.NotNil(t, nb)
	assert.NotZero(t, nb.ID)

	found, err := pw.NotebookByID(nb.ID)
	require.NoError(t, err)
	assert.Same(t, nb, found)

	t.Run("the virtual notebook is never created", func(t *testing.T) {
		before := len(srv.Requests())

		nb, err := pw.CreateNotebook(paperwork.AllNotesTitle)
		require.NoError(t, err)
		assert.Nil(t, nb)
		assert.Equal(t, before, len(srv.Requests()))

		_, err = pw.NotebookByTitle(paperwork.AllNotesTitle)
		assert.ErrorIs(t, err, paperwork.ErrTitleNotFound)
	})
}

func TestAddNotebookIgnoresZeroID(t *testing.T) {
	pw, _ := openWorkspace(t)

	pw.AddNotebook(&paperwork.Notebook{Title: "Draft"})
	assert.Empty(t, pw.Notebooks())
}

func TestDeleteNotebook(t *testing.T) {
	pw, _ := downloadedWorkspace(t)

	nb, err := pw.NotebookByID(10)
	require.NoError(t, err)
	require.NoError(t, pw.DeleteNotebook(nb))

	_, err = pw.NotebookByID(10)
	assert.ErrorIs(t, err, paperwork.ErrUnknownID)
}

func TestLookups(t *testing.T) {
	pw, _ := downloadedWorkspace(t)

	t.Run("by id", func(t *testing.T) {
		nb, err := pw.NotebookByID(10)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", nb.Title)

		note, err := pw.NoteByID(22)
		require.NoError(t, err)
		assert.Equal(t, "Quarterly Report", note.Title)

		tag, err := pw.TagByID(2)
		require.NoError(t, err)
		assert.Equal(t, "work", tag.Title)
	})

	t.Run("by title", func(t *testing.T) {
		nb, err := pw.NotebookByTitle("Projects")
		require.NoError(t, err)
		assert.Equal(t, 11, nb.ID)

		note, err := pw.NoteByTitle("Hardware Store")
		require.NoError(t, err)
		assert.Equal(t, 21, note.ID)

		tag, err := pw.TagByTitle("shopping")
		require.NoError(t, err)
		assert.Equal(t, 1, tag.ID)
	})

	t.Run("unknown id is distinct from unknown title", func(t *testing.T) {
		_, err := pw.NotebookByID(999)
		assert.ErrorIs(t, err, paperwork.ErrUnknownID)
		assert.NotErrorIs(t, err, paperwork.ErrTitleNotFound)

		_, err = pw.NoteByTitle("No Such Note")
		assert.ErrorIs(t, err, paperwork.ErrTitleNotFound)
		assert.NotErrorIs(t, err, paperwork.ErrUnknownID)

		_, err = pw.TagByID(999)
		assert.ErrorIs(t, err, paperwork.ErrUnknownID)
		_, err = pw.TagByTitle("no such tag")
		assert.ErrorIs(t, err, paperwork.ErrTitleNotFound)
	})
}

func TestSortedListings(t *testing.T) {
	pw, _ := downloadedWorkspace(t)

	var notebookTitles []string
	for _, nb := range pw.Notebooks() {
		notebookTitles = append(notebookTitles, nb.Title)
	}
	assert.Equal(t, []string{"Groceries", "Projects"}, notebookTitles)

	var noteTitles []string
	for _, note := range pw.Notes() {
		noteTitles = append(noteTitles, note.Title)
	}
	assert.Equal(t, []string{"Grocery List", "Hardware Store", "Quarterly Report"}, noteTitles)

	var tagTitles []string
	for _, tag := range pw.Tags() {
		tagTitles = append(tagTitles, tag.Title)
	}
	assert.Equal(t, []string{"shopping", "work"}, tagTitles)
}

func TestNotesByTag(t *testing.T) {
	pw, _ := downloadedWorkspace(t)

	tag, err := pw.TagByTitle("shopping")
	require.NoError(t, err)

	notes := pw.NotesByTag(tag)
	require.Len(t, notes, 1)
	assert.Equal(t, "Grocery List", notes[0].Title)

	t.Run("association follows the notes", func(t *testing.T) {
		other, err := pw.NoteByID(21)
		require.NoError(t, err)
		other.AddTags(tag)

		assert.Len(t, pw.NotesByTag(tag), 2)

		other.RemoveTag(tag)
		assert.Len(t, pw.NotesByTag(tag), 1)
	})
}

func TestSearch(t *testing.T) {
	pw, srv := downloadedWorkspace(t)

	// Best-effort reconstruction: the remote search yields ids, which the
	// workspace resolves to local notes.
	notes, err := pw.Search("milk")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	local, err := pw.NoteByID(20)
	require.NoError(t, err)
	assert.Same(t, local, notes[0])

	t.Run("unknown ids are skipped", func(t *testing.T) {
		c := api.NewClient(srv.URL(), "user", "secret")
		_, err := c.CreateNote(11, "Fresh Milk Prices", "milk")
		require.NoError(t, err)

		notes, err := pw.Search("milk")
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})
}

func TestWorkspaceUpdateContinuesPastFailures(t *testing.T) {
	pw, srv := downloadedWorkspace(t)

	// One note gone remotely must not stop its siblings from syncing.
	c := api.NewClient(srv.URL(), "user", "secret")
	require.NoError(t, c.DeleteNote(10, 20))

	err := pw.Update()
	require.Error(t, err)
	assert.ErrorIs(t, err, paperwork.ErrRemoteNotFound)

	sibling, err := c.GetNote(10, 21)
	require.NoError(t, err)
	assert.Greater(t, sibling.UpdatedAt, stamp(100), "sibling note should still have been pushed")
}

func TestWorkspacesAreIndependent(t *testing.T) {
	pw1, _ := downloadedWorkspace(t)
	pw2, _ := downloadedWorkspace(t)

	nb1, err := pw1.NotebookByID(10)
	require.NoError(t, err)
	nb1.Title = "Renamed"

	nb2, err := pw2.NotebookByID(10)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", nb2.Title)
}
