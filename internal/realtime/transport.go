package realtime

import "encoding/json"

// Handler receives the raw data of one named event.
type Handler func(data json.RawMessage)

// Subscription is one logical channel binding. Handlers bound here run
// in delivery order as provided by the transport.
type Subscription interface {
	// Bind attaches a handler for a named event on this channel.
	Bind(event string, h Handler)
	// UnbindAll detaches every handler so nothing fires after teardown.
	UnbindAll()
	// Unsubscribe leaves the channel.
	Unsubscribe()
}

// Transport is the underlying pub/sub connection. Reconnection and
// backoff are the transport's own concern; this layer only manages
// bind/unbind lifecycle per screen mount.
type Transport interface {
	Subscribe(channel string) (Subscription, error)
	Disconnect()
}

// Client owns one transport connection and the subscriptions taken on
// it. Close releases everything in the required order (unbind all
// handlers, unsubscribe, then disconnect) on every exit path, so a
// half-initialized mount tears down the same way a healthy one does.
type Client struct {
	transport Transport
	subs      []Subscription
	closed    bool
}

func Dial(t Transport) *Client {
	return &Client{transport: t}
}

// Subscribe joins a channel and tracks the subscription for teardown.
func (c *Client) Subscribe(channel string) (Subscription, error) {
	sub, err := c.transport.Subscribe(channel)
	if err != nil {
		return nil, err
	}
	c.subs = append(c.subs, sub)
	return sub, nil
}

// Close unbinds, unsubscribes and disconnects, in that order. Safe to
// call more than once.
func (c *Client) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, sub := range c.subs {
		sub.UnbindAll()
		sub.Unsubscribe()
	}
	c.subs = nil
	c.transport.Disconnect()
}
