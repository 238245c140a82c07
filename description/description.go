// Package description models the filtered structural shape of Go types.
//
// A TypeDescription lists the members of one type that pass an
// options.Filter. Member descriptions are held through promises so that a
// description can point at itself, or at a description whose construction
// is still in progress, while the graph is being built.
//
// Descriptions are mutable only until sealed. Seal freezes a whole graph for
// sharing, Clone produces an independent unsealed copy, and Flatten produces a
// sealed self-contained copy in which cycles are replaced with references to
// synthetic identifiers.
package description

import (
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"gitlab.com/tozd/go/errors"

	"shape-caster/options"
	"shape-caster/promise"
)

var (
	ErrSealed          = errors.New("description is sealed")
	ErrDuplicateMember = errors.New("member declared twice")
	ErrNotContainer    = errors.New("description has no element or key slot")
)

// Key identifies a canonical description: the type by identity and the filter.
type Key struct {
	Type   reflect.Type
	Filter options.Filter
}

func (k Key) String() string {
	return typeName(k.Type) + "@" + k.Filter.String()
}

type ShapeEnum int

const (
	ShapeScalar ShapeEnum = iota // basic kinds, interfaces, channels, funcs
	ShapeObject                  // structs
	ShapeList                    // slices and arrays
	ShapeMap                     // maps
)

func (s ShapeEnum) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeList:
		return "list"
	case ShapeMap:
		return "map"
	default:
		return "scalar"
	}
}

// ShapeOf classifies a non-pointer type.
func ShapeOf(t reflect.Type) ShapeEnum {
	switch t.Kind() {
	case reflect.Struct:
		return ShapeObject
	case reflect.Slice, reflect.Array:
		return ShapeList
	case reflect.Map:
		return ShapeMap
	default:
		return ShapeScalar
	}
}

// Member is one described member of a type.
type Member struct {
	Name       string
	Kind       options.MemberEnum
	Visibility options.VisibilityEnum

	// Type is the declared member type; a pointer member has Optional set and
	// is described by its element type.
	Type     reflect.Type
	Optional bool

	// Writable is set for fields and for properties with a SetName method.
	Writable bool

	// Index is the field index path, nil for properties.
	Index []int

	desc *promise.Promise[*TypeDescription]
}

// NewMember creates a member referencing the (possibly unfulfilled) description.
func NewMember(name string, desc *promise.Promise[*TypeDescription]) *Member {
	return &Member{Name: name, desc: desc}
}

// Description returns the member's value type description. It panics with
// promise.ErrUnfulfilled while that description is still being constructed.
func (m *Member) Description() *TypeDescription {
	return m.desc.Get()
}

func (m *Member) Promise() *promise.Promise[*TypeDescription] {
	return m.desc
}

func (m *Member) clone(desc *TypeDescription) *Member {
	c := *m
	c.Index = slices.Clone(m.Index)
	c.desc = promise.Resolved(desc)

	return &c
}

// TypeDescription is the shape of one type under one filter.
type TypeDescription struct {
	key     Key
	shape   ShapeEnum
	members map[string]*Member
	elem    *promise.Promise[*TypeDescription]
	keyDesc *promise.Promise[*TypeDescription]

	sealed    atomic.Bool
	flattened bool
	id        string
	refID     string

	// root of a flattened graph; only the root holds the index
	root  *TypeDescription
	index map[string]*TypeDescription
}

// New returns an empty, unsealed description of t under filter.
// Pointer types are described by their element type.
func New(t reflect.Type, filter options.Filter) *TypeDescription {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return &TypeDescription{
		key:     Key{Type: t, Filter: filter},
		shape:   ShapeOf(t),
		members: make(map[string]*Member),
	}
}

func (d *TypeDescription) Key() Key               { return d.key }
func (d *TypeDescription) Type() reflect.Type     { return d.key.Type }
func (d *TypeDescription) Filter() options.Filter { return d.key.Filter }
func (d *TypeDescription) Shape() ShapeEnum       { return d.shape }
func (d *TypeDescription) Sealed() bool           { return d.sealed.Load() }
func (d *TypeDescription) Flattened() bool        { return d.flattened }

// ID is the synthetic identifier of a flattened node referenced by at least
// one reference node. It is empty otherwise.
func (d *TypeDescription) ID() string { return d.id }

// RefID is non-empty for reference nodes of a flattened graph.
func (d *TypeDescription) RefID() string { return d.refID }

func (d *TypeDescription) IsRef() bool { return d.refID != "" }

func (d *TypeDescription) Len() int { return len(d.members) }

// Members returns the members ordered by name.
func (d *TypeDescription) Members() []*Member {
	res := make([]*Member, 0, len(d.members))
	for _, m := range d.members {
		res = append(res, m)
	}

	slices.SortFunc(res, func(a, b *Member) int {
		return strings.Compare(a.Name, b.Name)
	})

	return res
}

func (d *TypeDescription) Member(name string) (*Member, bool) {
	m, ok := d.members[name]
	return m, ok
}

// Elem returns the element description of a list or map, or nil.
func (d *TypeDescription) Elem() *TypeDescription {
	if d.elem == nil {
		return nil
	}

	return d.elem.Get()
}

// KeyDesc returns the key description of a map, or nil.
func (d *TypeDescription) KeyDesc() *TypeDescription {
	if d.keyDesc == nil {
		return nil
	}

	return d.keyDesc.Get()
}

// Resolve finds the node labelled id within a flattened graph.
func (d *TypeDescription) Resolve(id string) (*TypeDescription, bool) {
	if d.root == nil {
		return nil, false
	}

	node, ok := d.root.index[id]

	return node, ok
}

// Target resolves a reference node to the node it stands for.
func (d *TypeDescription) Target() *TypeDescription {
	if !d.IsRef() {
		return d
	}

	node, _ := d.Resolve(d.refID)

	return node
}

// IDs lists the synthetic identifiers of a flattened graph in sorted order.
func (d *TypeDescription) IDs() []string {
	if d.root == nil {
		return nil
	}

	ids := make([]string, 0, len(d.root.index))
	for id := range d.root.index {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// AddMember panics with ErrSealed or ErrDuplicateMember.
func (d *TypeDescription) AddMember(m *Member) {
	d.mustBeMutable()

	if _, ok := d.members[m.Name]; ok {
		panic(errors.Errorf("%w: %s.%s", ErrDuplicateMember, typeName(d.key.Type), m.Name))
	}

	d.members[m.Name] = m
}

// SetElem sets the element description of a list or map.
func (d *TypeDescription) SetElem(p *promise.Promise[*TypeDescription]) {
	d.mustBeMutable()

	if d.shape != ShapeList && d.shape != ShapeMap {
		panic(errors.Errorf("%w: %s", ErrNotContainer, typeName(d.key.Type)))
	}

	d.elem = p
}

// SetKey sets the key description of a map.
func (d *TypeDescription) SetKey(p *promise.Promise[*TypeDescription]) {
	d.mustBeMutable()

	if d.shape != ShapeMap {
		panic(errors.Errorf("%w: %s", ErrNotContainer, typeName(d.key.Type)))
	}

	d.keyDesc = p
}

func (d *TypeDescription) mustBeMutable() {
	if d.sealed.Load() {
		panic(errors.Errorf("%w: %s", ErrSealed, d.key))
	}
}

// neighbours lists the descriptions directly referenced by d.
func (d *TypeDescription) neighbours() []*TypeDescription {
	res := make([]*TypeDescription, 0, len(d.members)+2)
	for _, m := range d.Members() {
		res = append(res, m.Description())
	}

	if d.keyDesc != nil {
		res = append(res, d.keyDesc.Get())
	}

	if d.elem != nil {
		res = append(res, d.elem.Get())
	}

	return res
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

// getters with these names are formatting plumbing, not data
var ignoredGetters = map[string]struct{}{
	"String":   {},
	"GoString": {},
	"Error":    {},
}

// IsGetter reports whether m, taken from a method set of a concrete type,
// reads a property: no argument besides the receiver and exactly one result.
func IsGetter(m reflect.Method) bool {
	if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
		return false
	}

	_, ignored := ignoredGetters[m.Name]

	return !ignored
}
