// The [paperwork] package keeps a local, in-memory mirror of a Paperwork
// workspace — notebooks, notes and tags — consistent with a remote host
// over the Paperwork REST API.
//
// # Workspace
//
// [Paperwork] is the root aggregate for one authenticated session. It is an
// explicitly constructed context object; create as many as you need, they
// share nothing. [New] authenticates with basic credentials and returns a
// workspace ready for use.
//
// # Synchronization
//
// [Paperwork.Download] replaces the local graph with the remote state:
// tags first, then notebooks, then each notebook's notes with their tags
// attached by id.
//
// [Paperwork.Update] reconciles every notebook and note with its remote
// counterpart by comparing updated_at timestamps and pushing or pulling
// per entity. A notebook pushes only when the remote timestamp is strictly
// older; a note also pushes on a timestamp tie.
//
// # Lookup
//
// Entities are found either exactly — by id or by title — or approximately
// with the fuzzy finders, which score every candidate title against the
// query and return the best match. Fuzzy lookup is what interactive
// callers want: human-entered titles rarely match exactly.
//
// # Transport
//
// The wire protocol lives in [github.com/ntnn/paperwork.go/pkg/api]. Use
// it directly for the catalog operations the mirror does not model, such
// as note versions and attachment metadata.
package paperwork
