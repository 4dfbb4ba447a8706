// Package repositories implements SQLite persistence for data the gallery API does not hold.
//
// Key Implementations:
//   - [SessionRepository] : the current bearer token and its decoded user
//   - [HeroImageRepository] : hero banner images per page, stored with their position
//
// Hero pages are written whole with [HeroImageRepository.ReplacePage] so a page on disk always
// holds a dense 1..N sequence of positions, matching the in-memory store.
package repositories
