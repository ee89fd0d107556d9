package feeds

import (
	"errors"
	"fmt"
)

// ErrFeedConstruction is matched by every *FeedConstructionError.
var ErrFeedConstruction = errors.New("feeds: cannot construct feed")

// FeedConstructionError reports a feed configuration that cannot produce
// valid links. Nothing is emitted when it is returned.
type FeedConstructionError struct {
	Collection string
	Err        error
}

func (e *FeedConstructionError) Error() string {
	return fmt.Sprintf("feeds: cannot construct feed for collection %q: %v", e.Collection, e.Err)
}

func (e *FeedConstructionError) Unwrap() []error {
	return []error{ErrFeedConstruction, e.Err}
}
