package model

import (
	"path"
	"strings"
)

// Locator addresses a blob as scheme://bucket/key.
type Locator struct {
	Scheme string
	Bucket string
	Key    string
}

// ParseLocator extracts the bucket from the first label of the host and the
// key from the path, so virtual-hosted URLs such as
// s3://bucket.s3.amazonaws.com/a/b.txt resolve to ("bucket", "a/b.txt").
// The key is kept as written: percent sequences are part of the object name.
func ParseLocator(uri string) (Locator, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || !validScheme(scheme) {
		return Locator{}, &MalformedURIError{URI: uri, Reason: "missing scheme"}
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	host, p, _ := strings.Cut(rest, "/")
	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}
	if host == "" {
		return Locator{}, &MalformedURIError{URI: uri, Reason: "missing host"}
	}
	label, _, _ := strings.Cut(host, ".")
	bucket, _, _ := strings.Cut(label, ":")
	if bucket == "" {
		return Locator{}, &MalformedURIError{URI: uri, Reason: "empty bucket label"}
	}
	key := strings.TrimLeft(p, "/")
	if key == "" {
		return Locator{}, &MalformedURIError{URI: uri, Reason: "missing path"}
	}
	return Locator{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// validScheme follows RFC 3986: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func validScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return s != ""
}

func (l Locator) String() string {
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// Base is the last path element of the key.
func (l Locator) Base() string { return path.Base(l.Key) }
