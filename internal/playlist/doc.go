// Package playlist resolves identifiers to live library objects and
// reconciles them against a user's playlist container.
//
// # Resolution
//
// [Resolver.Resolve] parses an identifier through the media library and
// checks its kind. A string that does not parse fails with
// InvalidIdentifier; a string of the wrong kind fails with
// WrongResourceKind, and the error carries both kind labels.
//
// # Reconciliation
//
// The container is owned by the library and changes under event delivery
// between commands. [Reconciler.FindIndex] walks it, serializes each member
// back to its canonical identifier and compares the full string against the
// input. The only equality that holds across the library boundary is
// string identity.
//
// [Reconciler.PinAndRemove] takes an extra reference on the member before
// asking the container to drop it, because the container may hold the last
// reference. The result is a [Pinned] handle. When removal fails the pin is
// not rolled back; the error exposes the handle so the caller can decide
// whether to [Pinned.Unpin] it.
//
// Lookup and removal must not be separated by a membership change. Every
// [Match] records the container generation it was found in, and a removal
// against a newer generation fails with StaleIndex.
//
// [Reconciler.Hide] chains the three steps for playlist identifiers.
//
// # Errors
//
// All failures are *[Error] values. Callers branch on the kind with
// errors.Is and the Err* sentinels, or with errors.As and Error.Kind.
//
// # Exchange format
//
// [EncodeWPL] and [DecodeWPL] read and write track lists as Windows Media
// Player playlists, with identifiers as media sources.
package playlist
