package sitecmd

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-command/dispatcher"
)

// ErrUnsupportedHandler is returned by DispatcherRegistry for handlers that
// do not belong to this package.
var ErrUnsupportedHandler = errors.New("site: unsupported command handler")

// Subscription tears down one dispatcher subscription.
type Subscription interface {
	Unsubscribe()
}

// DispatcherRegistry subscribes site handlers to the go-command dispatcher so
// hosts can run them with dispatcher.Dispatch. It satisfies
// di.CommandRegistry.
type DispatcherRegistry struct {
	mu            sync.Mutex
	subscriptions []Subscription
}

// RegisterCommand subscribes handler to its message type.
func (r *DispatcherRegistry) RegisterCommand(handler any) error {
	var sub Subscription
	switch h := handler.(type) {
	case *BuildSiteHandler:
		sub = dispatcher.SubscribeCommand(h)
	case *BuildFeedHandler:
		sub = dispatcher.SubscribeCommand(h)
	case *ValidateContentHandler:
		sub = dispatcher.SubscribeCommand(h)
	case *CleanSiteHandler:
		sub = dispatcher.SubscribeCommand(h)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedHandler, handler)
	}

	r.mu.Lock()
	r.subscriptions = append(r.subscriptions, sub)
	r.mu.Unlock()
	return nil
}

// Len reports the number of active subscriptions.
func (r *DispatcherRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscriptions)
}

// Close unsubscribes every registered handler.
func (r *DispatcherRegistry) Close() {
	r.mu.Lock()
	subs := r.subscriptions
	r.subscriptions = nil
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
