// Package link parses and formats media-library identifiers.
//
// An identifier is an opaque string with an embedded resource kind:
//
//	spotify:track:<id>
//	spotify:album:<id>
//	spotify:artist:<id>
//	spotify:search:<query>
//	spotify:playlist:<id>
//	spotify:user:<user>:playlist:<id>
//
// Ids are 22 base-62 characters. Web links of the form
// https://open.spotify.com/<kind>/<id> are accepted and converted to the
// canonical form above.
//
// The set of kinds is fixed. [Label] is a bounded lookup, so kind values
// that did not come from [Parse] never index outside the label table.
package link
