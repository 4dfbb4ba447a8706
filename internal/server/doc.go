// Package server implements a mock of the gallery REST API.
//
// It exists so the CLI and TUI can run end to end without the production backend. The
// handlers serve the same endpoints and wire format the [services.GalleryService] client
// speaks: documents keyed by "_id", sibling positions in "order", and errors as a JSON
// object with a "message" field.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter]
// registers [http.ServeMux] method patterns, so path parameters are read with
// [http.Request.PathValue].
//
// [Middleware] wraps handlers in reverse order (last added executes first).
//
// # Handlers
//
// Custom handlers implement [Handler], which adds the list of route patterns to the stdlib
// interface so one type can own a group of endpoints:
//
//   - [AuthHandler]: login, register and forgot-password. Tokens are HS256 JWTs.
//   - [GalleryHandler]: categories, albums and images over a [store.Store]. Reads are
//     public; mutations require a bearer token checked by [RequireAuth].
//
// Deletes cascade the way the real API does, and reorder requests run through the same
// ordering engine as the client, so a client replaying its changed siblings converges on
// the same positions.
package server
