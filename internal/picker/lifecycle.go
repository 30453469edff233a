package picker

import (
	"nostr-widgets/internal/dom"
)

// Mount marks root as a click boundary and attaches the window listeners after the
// attach delay. The returned scope removes them; closing it before the delay cancels
// the attach. Mounting an already mounted controller returns the live scope.
func (c *Controller) Mount(win *dom.Window, root *dom.Node) *dom.Scope {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scope != nil && !c.scope.Closed() {
		return c.scope
	}

	root.StopPropagation = true
	c.scope = dom.AttachAfter(c.opts.Scheduler, c.opts.AttachDelay, func() []func() {
		c.mu.Lock()
		c.term = DefaultTerm
		c.mu.Unlock()
		c.pulseFocus()

		return []func(){
			win.OnKeyUp(c.onKey),
			win.OnClick(func(e dom.ClickEvent) { c.onClickOutside(root, e) }),
		}
	})
	return c.scope
}

// Unmount removes listeners, cancelling a pending attach
func (c *Controller) Unmount() {
	c.mu.Lock()
	scope := c.scope
	c.mu.Unlock()
	if scope != nil {
		scope.Close()
	}
}

// Mounted reports whether window listeners are live
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope != nil && c.scope.Attached() && !c.scope.Closed()
}

func (c *Controller) onKey(e *dom.KeyEvent) {
	e.StopPropagation()
	if e.Code == "Escape" {
		c.close(CloseEvent{Key: e.Code})
	}
}

func (c *Controller) onClickOutside(root *dom.Node, e dom.ClickEvent) {
	if e.Target != nil && root.Contains(e.Target) {
		return
	}
	c.close(CloseEvent{Target: e.Target})
}

func (c *Controller) close(e CloseEvent) {
	if c.opts.OnClose != nil {
		c.opts.OnClose(e)
	}
}
