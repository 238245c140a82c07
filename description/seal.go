package description

import (
	"shape-caster/promise"
	"shape-caster/utils"
)

// Seal freezes d and every description reachable from it. Sealing an already
// sealed description is a no-op. Every promise in the graph must be fulfilled.
func Seal(d *TypeDescription) *TypeDescription {
	if d.Sealed() {
		return d
	}

	var dealer utils.Dealer[*TypeDescription]

	dealer.Needs(d)

	for {
		next, ok := dealer.NextNeeds()
		if !ok {
			break
		}

		if next.Sealed() {
			continue
		}

		next.sealed.Store(true)
		dealer.Needs(next.neighbours()...)
	}

	return d
}

// Reachable returns d and every description reachable from it, d first.
func Reachable(d *TypeDescription) []*TypeDescription {
	var (
		dealer utils.Dealer[*TypeDescription]
		res    []*TypeDescription
	)

	dealer.Needs(d)

	for {
		next, ok := dealer.NextNeeds()
		if !ok {
			return res
		}

		res = append(res, next)

		// reverse so that the worklist pops members in name order
		neighbours := next.neighbours()
		for i := len(neighbours) - 1; i >= 0; i-- {
			dealer.Needs(neighbours[i])
		}
	}
}

// Clone deep-copies the graph reachable from d. Sharing and cycles are
// preserved: every original node has exactly one copy. The copy is unsealed;
// flattening labels are carried over.
func Clone(d *TypeDescription) *TypeDescription {
	nodes := Reachable(d)

	copies := make(map[*TypeDescription]*TypeDescription, len(nodes))
	for _, node := range nodes {
		c := New(node.key.Type, node.key.Filter)
		c.flattened, c.id, c.refID = node.flattened, node.id, node.refID
		copies[node] = c
	}

	for _, node := range nodes {
		c := copies[node]

		for name, m := range node.members {
			c.members[name] = m.clone(copies[m.Description()])
		}

		if node.elem != nil {
			c.elem = promise.Resolved(copies[node.elem.Get()])
		}

		if node.keyDesc != nil {
			c.keyDesc = promise.Resolved(copies[node.keyDesc.Get()])
		}

		if node.root != nil {
			c.root = node.root
			if root, ok := copies[node.root]; ok {
				c.root = root
			}
		}

		if node.index != nil {
			c.index = make(map[string]*TypeDescription, len(node.index))
			for id, target := range node.index {
				c.index[id] = copies[target]
			}
		}
	}

	return copies[d]
}
