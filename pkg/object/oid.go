package object

import (
	"github.com/pkg/errors"
)

// Oid is a lowercase hex-encoded SHA-256 content identity. A full oid is
// OidHexLen characters long and addresses an object directly; anything
// shorter is a prefix usable only to disambiguate lookups.
type Oid string

const (
	// OidHexLen is the length of a full hex-encoded oid.
	OidHexLen = 64
	// MinOidPrefixLen is the shortest prefix accepted for disambiguation.
	MinOidPrefixLen = 4
)

// ErrMalformedOid reports an oid string that is not lowercase hex of an
// acceptable length.
var ErrMalformedOid = errors.New("malformed oid")

// ParseOid validates s as a full oid or a prefix.
func ParseOid(s string) (Oid, error) {
	if len(s) < MinOidPrefixLen || len(s) > OidHexLen {
		return "", errors.Wrapf(ErrMalformedOid, "%q: length %d", s, len(s))
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", errors.Wrapf(ErrMalformedOid, "%q: non-hex byte %q", s, c)
		}
	}
	return Oid(s), nil
}

// IsFull reports whether o is a complete identity rather than a prefix.
func (o Oid) IsFull() bool {
	return len(o) == OidHexLen
}

// Short returns an abbreviated form for display.
func (o Oid) Short() string {
	if len(o) > 8 {
		return string(o[:8])
	}
	return string(o)
}

func (o Oid) String() string {
	return string(o)
}
