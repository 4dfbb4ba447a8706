// Package models defines the gallery entities managed by vowfolio.
//
// The package contains three groups of types:
//
// 1. Ordered entities, each positioned densely (1..N) within a sibling group:
//   - [HeroImage] : banner image, grouped by page name
//   - [Category] : top level photo category, one global group
//   - [Album] : album, grouped by category
//   - [Image] : photo, grouped by album
//
// 2. Inputs for partial updates and uploads:
//   - [CategoryPatch], [AlbumPatch], [ImagePatch], [HeroImagePatch]
//   - [ImageUpload], [UploadFile]
//
// 3. Identity:
//   - [User] : claims decoded from the API bearer token
//   - [Session] : persisted token and user
//
// Category.Albums and Album.Images are derived caches of the flat collections and are
// rebuilt by the store after every mutation.
package models
