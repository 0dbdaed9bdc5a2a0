package link

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Kind is the resource kind embedded in an identifier.
type Kind int

const (
	// KindInvalid is a well-formed identifier of no known resource kind
	KindInvalid Kind = iota
	// KindTrack identifies a single track
	KindTrack
	// KindAlbum identifies an album
	KindAlbum
	// KindArtist identifies an artist
	KindArtist
	// KindSearch identifies a saved search query
	KindSearch
	// KindPlaylist identifies a playlist
	KindPlaylist
)

const (
	scheme    = "spotify:"
	webPrefix = "open.spotify.com"

	// IDLength is the length of a base-62 resource id.
	IDLength = 22
)

const base62 = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var labels = [...]string{
	KindInvalid:  "invalid",
	KindTrack:    "track",
	KindAlbum:    "album",
	KindArtist:   "artist",
	KindSearch:   "search",
	KindPlaylist: "playlist",
}

// ErrMalformed is returned when a string is not an identifier at all.
var ErrMalformed = errors.New("malformed identifier")

// Label returns the display label of k. The second result is false when k
// is outside the known kinds.
func Label(k Kind) (string, bool) {
	if k < 0 || int(k) >= len(labels) {
		return "", false
	}
	return labels[k], true
}

// String returns the label of k, or unknown(N) for out-of-range values.
func (k Kind) String() string {
	if label, ok := Label(k); ok {
		return label
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Link is a parsed identifier.
type Link struct {
	Kind Kind
	// User is the owner of a user playlist; empty otherwise.
	User string
	// ID is the base-62 id, or the query text of a search link.
	ID string

	raw string
}

// Parse parses s in canonical form or as an open.spotify.com web link.
//
// A string using the identifier scheme that matches no known form parses
// successfully with KindInvalid. Anything else fails with ErrMalformed.
func Parse(s string) (Link, error) {
	if s == "" {
		return Link{}, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	if strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		return parseWeb(s)
	}

	if !strings.HasPrefix(s, scheme) {
		return Link{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	rest := s[len(scheme):]
	if query, ok := strings.CutPrefix(rest, "search:"); ok && query != "" {
		return Link{Kind: KindSearch, ID: query}, nil
	}

	parts := strings.Split(rest, ":")
	switch {
	case len(parts) == 2 && ValidID(parts[1]):
		switch parts[0] {
		case "track":
			return Link{Kind: KindTrack, ID: parts[1]}, nil
		case "album":
			return Link{Kind: KindAlbum, ID: parts[1]}, nil
		case "artist":
			return Link{Kind: KindArtist, ID: parts[1]}, nil
		case "playlist":
			return Link{Kind: KindPlaylist, ID: parts[1]}, nil
		}
	case len(parts) == 4 && parts[0] == "user" && parts[1] != "" && parts[2] == "playlist" && ValidID(parts[3]):
		return Link{Kind: KindPlaylist, User: parts[1], ID: parts[3]}, nil
	}

	return Link{Kind: KindInvalid, raw: s}, nil
}

func parseWeb(s string) (Link, error) {
	u, err := url.Parse(s)
	if err != nil || u.Host != webPrefix {
		return Link{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(segs) == 2 && ValidID(segs[1]):
		switch segs[0] {
		case "track", "album", "artist", "playlist":
			return Parse(scheme + segs[0] + ":" + segs[1])
		}
	case len(segs) == 4 && segs[0] == "user" && segs[2] == "playlist":
		return Parse(scheme + strings.Join(segs, ":"))
	}

	return Link{}, fmt.Errorf("%w: unsupported web link %q", ErrMalformed, s)
}

// String returns the canonical form of l.
func (l Link) String() string {
	switch l.Kind {
	case KindTrack, KindAlbum, KindArtist, KindSearch:
		return scheme + labels[l.Kind] + ":" + l.ID
	case KindPlaylist:
		if l.User != "" {
			return scheme + "user:" + l.User + ":playlist:" + l.ID
		}
		return scheme + "playlist:" + l.ID
	default:
		return l.raw
	}
}

// ValidID reports whether id is a base-62 resource id.
func ValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(base62, id[i]) < 0 {
			return false
		}
	}
	return true
}

// NewID returns a fresh random base-62 resource id.
func NewID() string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:])
	radix := big.NewInt(int64(len(base62)))
	mod := new(big.Int)

	buf := make([]byte, IDLength)
	for i := IDLength - 1; i >= 0; i-- {
		n.DivMod(n, radix, mod)
		buf[i] = base62[mod.Int64()]
	}
	return string(buf)
}

// UserPlaylist returns a new playlist link owned by user.
func UserPlaylist(user string) Link {
	return Link{Kind: KindPlaylist, User: user, ID: NewID()}
}
