// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package event

// compiled returns the composed invoker for the current subscriptions,
// building it on first use after a subscription change.
func (c *Channel[T]) compiled() func(T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.invoker == nil {
		c.invoker = compose(c.typ, c.subs[:len(c.subs):len(c.subs)])
	}
	return c.invoker
}

// compose folds links into a single function. Each link receives the payload
// returned by the previous one; the chain returns as soon as a link returns a
// cancelled payload or an error. A nil payload counts as an error. Panics are
// not recovered.
func compose[T Payload](typ Type, links []subscription[T]) func(T) (T, error) {
	switch len(links) {
	case 0:
		return func(e T) (T, error) { return e, nil }
	case 1:
		link := links[0]
		return func(e T) (T, error) {
			out, err := link.fn(e)
			if err == nil && isNil(out) {
				err = errNilPayload()
			}
			if err != nil {
				recordFault(typ, link.subscriber)
				return e, ErrSubscriberFault(typ, link.subscriber, err)
			}
			return out, nil
		}
	}

	return func(e T) (T, error) {
		for i, link := range links {
			out, err := link.fn(e)
			if err == nil && isNil(out) {
				err = errNilPayload()
			}
			if err != nil {
				recordFault(typ, link.subscriber)
				return e, ErrSubscriberFault(typ, link.subscriber, err)
			}
			e = out
			if e.IsCancelled() {
				recordShortCircuit(typ, len(links)-i-1)
				return e, nil
			}
		}
		return e, nil
	}
}
