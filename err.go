package paperwork

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation requires
	// credentials the remote host did not accept.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnknownID is returned by the by-id lookups for an id that is not
	// present in the graph. This points at an integration mistake, not at
	// a legitimately missing entity.
	ErrUnknownID = errors.New("unknown id")

	// ErrTitleNotFound is returned by the by-title lookups when no entity
	// carries the exact title.
	ErrTitleNotFound = errors.New("no entity with this title")

	// ErrRemoteNotFound is returned by Update when the remote counterpart
	// of an entity cannot be fetched: wrong id, deleted remotely, or (for
	// notes) moved to another notebook. Local state is left untouched.
	ErrRemoteNotFound = errors.New("remote entity not found")

	// ErrUnknownTag is returned when a downloaded note references a tag id
	// that is not present in the workspace tag collection. Tags are always
	// downloaded first, so this indicates a broken remote, not bad data.
	ErrUnknownTag = errors.New("note references unknown tag")
)
