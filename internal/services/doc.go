// Package services implements the HTTP clients for the remote gallery API.
//
// # Raw Access
//
// [APIService] performs raw requests against the API root (which includes the /api prefix) and
// returns an [APIResponse]. Non-2xx responses become [shared.RemoteRequestError] through
// [APIResponse.Err], with the message read from the "message", "error" or "detail" key.
//
// Bearer tokens are attached by the transport from [NewAuthorizedClient], which wraps an
// [oauth2.StaticTokenSource].
//
// # Gallery
//
// [GalleryService] implements [Gallery] for categories, albums and images. The API identifies
// documents by "_id" and orders them by "order"; the *Doc types hold that wire form and convert to
// and from [models]. Albums call their thumbnail "coverImage".
//
// Reordering replicates one sibling at a time:
//   - categories: PUT /categories/:id/reorder {order}
//   - albums: PUT /albums/:id/reorder {categoryId, order}
//   - images: PUT /images/:id {order, albumId}
//
// # Uploads
//
// Images are created from a multipart form carrying either an "image" file part or a "url" field.
// [ProbeImage] sets the part content type with mimetype and reads JPEG, PNG, GIF and WEBP
// dimensions from the image header.
//
// # Auth
//
// [AuthService] logs in, registers and requests password resets. Tokens are HS256 JWTs whose
// claims carry the user; the client reads them with [DecodeToken] and the mock server signs and
// verifies them with [SignToken] and [ParseToken].
package services
