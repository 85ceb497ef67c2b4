package graph

// Connection is a directed wire from an output pin to an input pin.
type Connection struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	FromPin string `json:"fromPin"`
	To      string `json:"to"`
	ToPin   string `json:"toPin"`
	IsData  bool   `json:"isData"`
}

// Touches reports whether the connection references the node at either end.
func (c *Connection) Touches(nodeID string) bool {
	return c.From == nodeID || c.To == nodeID
}

// StaleConnection describes a connection whose endpoints no longer resolve.
type StaleConnection struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"` // "missing_from", "missing_to", or "missing_both"
}

// FindStale reports connections referencing nodes outside the given set.
// Nothing is removed; stale connections are simply skipped at render time.
func FindStale(conns []Connection, nodes []Node) []StaleConnection {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	var stale []StaleConnection
	for _, c := range conns {
		fromOK, toOK := ids[c.From], ids[c.To]
		if fromOK && toOK {
			continue
		}
		info := StaleConnection{ID: c.ID, From: c.From, To: c.To}
		switch {
		case !fromOK && !toOK:
			info.Reason = "missing_both"
		case !fromOK:
			info.Reason = "missing_from"
		default:
			info.Reason = "missing_to"
		}
		stale = append(stale, info)
	}
	return stale
}

// canConnect reports whether two pins may be wired together. Only node
// identity and direction are checked; a data pin may feed an exec pin.
func canConnect(a, b PinRef) bool {
	return a.NodeID != b.NodeID && a.Direction != b.Direction
}
