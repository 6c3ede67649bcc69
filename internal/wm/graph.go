package wm

import "github.com/jezek/xgb/xproto"

// The relationship graph: transient-for links form a tree in well-behaved
// applications, but nothing stops a client from publishing a cycle, so every
// traversal carries a visited set and terminates in O(reachable clients).

// SearchModalTree finds a transient descendant of node flagged modal,
// depth-first in insertion order of the transient lists. skip is never
// returned as a match (pass the root itself to exclude it). Returns nil when
// no modal descendant exists.
func (t *Table) SearchModalTree(node, skip *Client) *Client {
	return t.searchTree(node, skip, make(map[xproto.Window]bool), func(c *Client) bool {
		return c.modal
	})
}

// SearchFocusTree finds a transient descendant of node that holds the input
// focus, with the same traversal shape as SearchModalTree. Used to decide
// focus redirection when a related window's focus state changes.
func (t *Table) SearchFocusTree(node, skip *Client) *Client {
	return t.searchTree(node, skip, make(map[xproto.Window]bool), func(c *Client) bool {
		return c.focused
	})
}

func (t *Table) searchTree(node, skip *Client, seen map[xproto.Window]bool, match func(*Client) bool) *Client {
	if node == nil {
		return nil
	}
	for _, win := range node.transients {
		if seen[win] {
			continue
		}
		seen[win] = true

		child := t.Get(win)
		if child == nil {
			continue
		}
		if found := t.searchTree(child, skip, seen, match); found != nil {
			return found
		}
		if child != skip && match(child) {
			return child
		}
	}
	return nil
}

// FindModalChild returns a modal transient descendant of c, or nil.
func (t *Table) FindModalChild(c *Client) *Client {
	return t.SearchModalTree(c, c)
}

// linkTransient rewires c's transient-for edge to parent (0 to clear),
// maintaining the parent's child list. A self-reference is rejected.
func (t *Table) linkTransient(c *Client, parent xproto.Window) {
	if parent == c.win {
		parent = 0
	}
	if c.transientFor == parent {
		return
	}
	if old := t.Get(c.transientFor); old != nil {
		old.removeTransient(c.win)
	}
	c.transientFor = parent
	if p := t.Get(parent); p != nil {
		p.transients = append(p.transients, c.win)
	}
}

// unlink detaches every relationship edge touching c: its parent's child
// list, and the parent edge of each of its children. Called on destruction
// so no other entity keeps a back-reference.
func (t *Table) unlink(c *Client) {
	if p := t.Get(c.transientFor); p != nil {
		p.removeTransient(c.win)
	}
	c.transientFor = 0
	for _, win := range c.transients {
		if child := t.Get(win); child != nil && child.transientFor == c.win {
			child.transientFor = 0
		}
	}
	c.transients = nil
	c.group = 0
}

func (c *Client) removeTransient(win xproto.Window) {
	for i, w := range c.transients {
		if w == win {
			c.transients = append(c.transients[:i], c.transients[i+1:]...)
			return
		}
	}
}
