// Package tasks replicates local gallery edits to the remote API with non-blocking notices.
//
// # Two-phase apply
//
// Every [SyncAdapter] operation commits to the [store.Store] synchronously and returns the
// local result. Replication is queued and runs in the background:
//
//  1. The store validates and applies the edit (renumbering siblings as needed)
//  2. A job is appended to the FIFO queue of the affected sibling group
//  3. The queue's worker performs the remote calls, waiting on a shared rate limiter
//  4. On failure an error [Notice] is sent and the group is refetched, which replaces the
//     local group with the server's copy
//
// Reorders replicate every changed sibling with its own request. When any of them fails, the
// group is refetched once after the job.
//
// # Local ids
//
// Creates get a local id immediately. The create job swaps it for the server id with
// [store.Store.Rekey]; jobs on other queues that reference the local id (an album created in
// a new category) wait for that swap before calling the API.
//
// # Hero images
//
// Hero images have no API endpoint. Their jobs write whole page snapshots through the
// [HeroPersister] (repositories.HeroImageRepository) on the same per-page queues.
//
// # Notices
//
// Notices use select with default so a slow or absent reader never blocks replication.
package tasks
