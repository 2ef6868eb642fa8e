package engine

// DrainNotifier holds one-shot callbacks waiting for both queues to drain.
type DrainNotifier struct {
	subscribers []func()
}

// Subscribe registers cb for the next drain.
func (n *DrainNotifier) Subscribe(cb func()) {
	n.subscribers = append(n.subscribers, cb)
}

// Notify fires every registered callback once, in subscription order.
// The list is detached first, so a callback that subscribes again waits for
// the following drain.
func (n *DrainNotifier) Notify() {
	subs := n.subscribers
	n.subscribers = nil
	for _, cb := range subs {
		cb()
	}
}

// Clear drops every registration without firing it.
func (n *DrainNotifier) Clear() {
	n.subscribers = nil
}

// Pending returns the number of registered callbacks.
func (n *DrainNotifier) Pending() int {
	return len(n.subscribers)
}
