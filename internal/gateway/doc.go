// Package gateway is the remote data gateway for the musics catalog backend.
//
// It translates domain operations (catalog listing, auth, favorites,
// downloads, selections, admin mutations) into HTTP requests against a fixed
// base URL and normalizes the backend's heterogeneous response shapes into the
// canonical types in [tunedeck/internal/models].
//
// # Caching
//
// Read-mostly collections (catalog, users) pass through an injectable
// [SnapshotCache] with a per-key freshness window (catalog 5m, users 10m).
// Every mutation invalidates the affected key so the next read is fresh. The
// cache is owned by the composition root and handed to [New]; nothing in this
// package keeps ambient global state.
//
// # Normalization
//
// The backend has shipped track fields under several names over time
// (audioUrl/musicUrl/musicFile/audio/file/url, thumbnail variants, and
// id/_id). All observed fallbacks are resolved here, once, at the gateway
// boundary; callers only ever see [models.Track].
//
// # Error Handling
//
//   - transport failures wrap [shared.ErrNetwork]
//   - non-2xx responses surface as [*ServerError] with status and a message
//     derived from the response body
//   - [IsNotFound] identifies 404s, which collection stores treat as a
//     legitimate empty collection rather than a failure
//
// No retries, no backoff, and no timeout beyond the supplied http.Client's.
package gateway
