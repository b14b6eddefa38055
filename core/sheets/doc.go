// Package sheets provides the client for the spreadsheet collaboration
// service and the schema helpers built on top of it.
//
// # Client
//
// The Client interface covers the five operations this application needs:
// listing sheets, fetching a sheet with rows, batched row updates, batched
// row appends, and copying a sheet schema. The HTTP implementation uses
// bearer-token authentication and strict transport timeouts.
//
// # Error taxonomy
//
// Failures are classified so callers can choose a recovery strategy:
//
//   - IsNotFound: the sheet/row does not exist (expected on first run for
//     the state sheet).
//   - IsCapacity: the sheet is at its row limit; the writer falls over to
//     an overflow sibling instead of retrying.
//   - IsTransient: rate limiting, server errors, or transport failures;
//     retried with backoff.
//
// # Column resolution
//
// ResolveColumns maps human-readable column names to the opaque per-sheet
// column IDs. IDs are never reused across sheets: copies of a sheet carry
// the same column names with different IDs.
package sheets
