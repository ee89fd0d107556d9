package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	a := UUID("folio:entry:posts:hello")
	b := UUID("  folio:entry:posts:hello ")
	if a == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if a != b {
		t.Fatalf("expected trimmed keys to match: %s != %s", a, b)
	}
}

func TestUUIDBlankKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid, got %s", got)
	}
}

func TestFeedUUIDIgnoresTrailingSlash(t *testing.T) {
	if FeedUUID("https://parda.me/", "posts") != FeedUUID("https://parda.me", "Posts") {
		t.Fatal("expected site and collection normalisation")
	}
}

func TestEntryUUIDSeparatesCollections(t *testing.T) {
	if EntryUUID("https://parda.me", "posts", "hello") == EntryUUID("https://parda.me", "newsletters", "hello") {
		t.Fatal("expected distinct ids per collection")
	}
}

func TestURN(t *testing.T) {
	id := FeedUUID("https://parda.me", "newsletters")
	if got := URN(id); !strings.HasPrefix(got, "urn:uuid:") || !strings.HasSuffix(got, id.String()) {
		t.Fatalf("unexpected urn %q", got)
	}
}
