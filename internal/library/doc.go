// Package library is an offline media library: the session, object and
// container model the playlist shell runs against.
//
// A [Session] is opened with [Login] for one user over a [Store] and is
// closed with [Session.Logout]. Identifiers are parsed with
// [Session.ParseLink], which returns borrowed, reference-counted objects
// ([Playlist], [Track], [Album], [Artist], [Search]) from a per-session
// cache. An object whose count drops back to zero is freed and can no
// longer be serialized.
//
// The user's [Container] holds a reference on each of its playlists and
// each [Playlist] holds a reference on each of its tracks. Mutations are
// written to the store before memory is changed, so a store failure leaves
// both untouched.
//
// Mutations queue events. They reach registered [ContainerCallbacks] and
// [PlaylistCallbacks] only when the owner of the session calls
// [Session.ProcessEvents], which means membership can change between
// commands but never during one.
package library
