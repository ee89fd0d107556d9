// Package identity derives stable UUIDs for feeds and feed items so that
// Atom ids survive rebuilds.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "folio:"

// UUID hashes key into a UUID with go-hashid, falling back to a SHA1 name
// based UUID. Blank keys yield uuid.Nil.
//
// Keys must be prefixed by kind to keep feeds and items apart.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(trimmed))
	}
	return uid
}

// FeedUUID identifies the feed for a collection on a site.
func FeedUUID(siteURL, collection string) uuid.UUID {
	return UUID(namespace + "feed:" + normalizeSite(siteURL) + ":" + strings.ToLower(strings.TrimSpace(collection)))
}

// EntryUUID identifies one entry of a collection on a site.
func EntryUUID(siteURL, collection, entryID string) uuid.UUID {
	return UUID(namespace + "entry:" + normalizeSite(siteURL) + ":" + strings.ToLower(strings.TrimSpace(collection)) + ":" + strings.TrimSpace(entryID))
}

// URN renders id as urn:uuid:<id>.
func URN(id uuid.UUID) string {
	return "urn:uuid:" + id.String()
}

func normalizeSite(siteURL string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(siteURL)), "/")
}
