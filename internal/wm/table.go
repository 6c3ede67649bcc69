package wm

import "github.com/jezek/xgb/xproto"

// Table is the entity-per-window registry. It is mutated only by the state
// machine on the event thread; collaborators get read access.
type Table struct {
	clients map[xproto.Window]*Client
	order   []xproto.Window
}

func NewTable() *Table {
	return &Table{clients: make(map[xproto.Window]*Client)}
}

// Get resolves a window id to its entity, nil when unmanaged. Weak
// references between clients go through here so a destroyed referent simply
// stops resolving.
func (t *Table) Get(win xproto.Window) *Client {
	return t.clients[win]
}

func (t *Table) Len() int {
	return len(t.clients)
}

// All returns the managed clients in management order.
func (t *Table) All() []*Client {
	all := make([]*Client, 0, len(t.order))
	for _, win := range t.order {
		if c, ok := t.clients[win]; ok {
			all = append(all, c)
		}
	}
	return all
}

func (t *Table) add(c *Client) {
	if _, ok := t.clients[c.win]; ok {
		return
	}
	t.clients[c.win] = c
	t.order = append(t.order, c.win)
}

func (t *Table) remove(c *Client) {
	delete(t.clients, c.win)
	for i, win := range t.order {
		if win == c.win {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}
