// Package dom is a minimal document model for widget interaction: a node tree with
// propagation boundaries and a window that dispatches key and click events to listeners.
package dom

import "sync"

// Node is an element in the widget tree
type Node struct {
	ID              string
	Parent          *Node
	StopPropagation bool // clicks inside never reach window listeners

	mu       sync.RWMutex
	children []*Node
}

// NewNode creates a detached node
func NewNode(id string) *Node {
	return &Node{ID: id}
}

// Append attaches child under n and returns the child
func (n *Node) Append(child *Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	child.Parent = n
	n.children = append(n.children, child)
	return child
}

// Find returns the first descendant (or n itself) with the given id
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	n.mu.RLock()
	children := n.children
	n.mu.RUnlock()
	for _, c := range children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Contains reports whether other is n or one of its descendants
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// stopsPropagation reports whether a click on n is swallowed before reaching the window
func (n *Node) stopsPropagation() bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.StopPropagation {
			return true
		}
	}
	return false
}
