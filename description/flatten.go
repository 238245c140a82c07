package description

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"shape-caster/promise"
	"shape-caster/utils"
)

// Flatten returns a sealed, self-contained copy of the graph reachable from d.
//
// Every description is inlined at each place it is referenced, so each copy
// has exactly one parent. An occurrence of a description that is already
// being expanded on the path from the root becomes a reference node instead,
// whose RefID resolves back to that ancestor copy through Resolve. A cyclic
// description reached from two unrelated branches is therefore expanded in
// both. Only copies actually referenced get an ID from ids.
//
// Flattening an already flattened description returns it unchanged.
func Flatten(d *TypeDescription, ids IDProvider) *TypeDescription {
	if d.Flattened() {
		return d
	}

	if ids == nil {
		ids = DefaultIDs
	}

	f := &flattener{
		ids:     ids,
		cyclic:  cyclicNodes(Reachable(d)),
		path:    make(map[*TypeDescription]*TypeDescription),
		origins: make(map[*TypeDescription]*TypeDescription),
		index:   make(map[string]*TypeDescription),
		taken:   make(map[string]struct{}),
	}

	root := f.copy(d)
	root.index = f.index

	for _, node := range f.created {
		node.root = root
		node.sealed.Store(true)
	}

	return root
}

type flattener struct {
	ids     IDProvider
	cyclic  map[*TypeDescription]struct{}
	path    map[*TypeDescription]*TypeDescription // cyclic original -> its copy being expanded
	origins map[*TypeDescription]*TypeDescription // copy of a cyclic original -> original
	index   map[string]*TypeDescription
	taken   map[string]struct{}
	created []*TypeDescription
}

func (f *flattener) node(orig *TypeDescription) *TypeDescription {
	c := New(orig.key.Type, orig.key.Filter)
	c.flattened = true
	f.created = append(f.created, c)

	return c
}

func (f *flattener) copy(orig *TypeDescription) *TypeDescription {
	// only descriptions on a cycle can be their own ancestors
	_, onCycle := f.cyclic[orig]
	if onCycle {
		if target, ok := f.path[orig]; ok {
			return f.ref(target)
		}
	}

	c := f.node(orig)

	if onCycle {
		f.path[orig] = c
		f.origins[c] = orig

		defer delete(f.path, orig)
	}

	for _, m := range orig.Members() {
		c.members[m.Name] = m.clone(f.copy(m.Description()))
	}

	if orig.keyDesc != nil {
		c.keyDesc = promise.Resolved(f.copy(orig.keyDesc.Get()))
	}

	if orig.elem != nil {
		c.elem = promise.Resolved(f.copy(orig.elem.Get()))
	}

	return c
}

// ref labels target on first use and returns a reference node to it.
func (f *flattener) ref(target *TypeDescription) *TypeDescription {
	if target.id == "" {
		id := f.ids.Next(f.origins[target])
		if _, clash := f.taken[id]; clash {
			id = utils.NewStem(id+"_", f.taken).Next()
		}

		f.taken[id] = struct{}{}
		target.id = id
		f.index[id] = target
	}

	r := f.node(target)
	r.refID = target.id

	return r
}

type descNode struct {
	id   int64
	desc *TypeDescription
}

func (n descNode) ID() int64 { return n.id }

// cyclicNodes returns the descriptions that lie on at least one cycle: members
// of a strongly connected component with more than one node, or nodes
// referencing themselves.
func cyclicNodes(nodes []*TypeDescription) map[*TypeDescription]struct{} {
	res := make(map[*TypeDescription]struct{})

	g := simple.NewDirectedGraph()
	ids := make(map[*TypeDescription]graph.Node, len(nodes))

	for i, d := range nodes {
		n := descNode{id: int64(i), desc: d}
		ids[d] = n
		g.AddNode(n)
	}

	for _, d := range nodes {
		for _, next := range d.neighbours() {
			if next == d {
				res[d] = struct{}{}
				continue
			}

			g.SetEdge(g.NewEdge(ids[d], ids[next]))
		}
	}

	for _, component := range topo.TarjanSCC(g) {
		if len(component) < 2 {
			continue
		}

		for _, n := range component {
			res[n.(descNode).desc] = struct{}{}
		}
	}

	return res
}
