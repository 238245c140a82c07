package description

import (
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/opencontainers/go-digest"
	"github.com/rs/xid"
)

// IDProvider labels flattened nodes that are referenced from a cycle.
// Implementations must be safe for concurrent use.
type IDProvider interface {
	Next(d *TypeDescription) string
}

// DefaultIDs is the process-wide monotonic provider used when Flatten gets nil.
var DefaultIDs IDProvider = NewSequence("t")

// Sequence issues stem1, stem2, ... in call order. It keeps only a counter.
type Sequence struct {
	stem string
	last atomic.Uint64
}

func NewSequence(stem string) *Sequence {
	return &Sequence{stem: stem}
}

func (s *Sequence) Next(*TypeDescription) string {
	return s.stem + strconv.FormatUint(s.last.Add(1), 10)
}

// Issued returns how many ids were handed out so far.
func (s *Sequence) Issued() uint64 {
	return s.last.Load()
}

type xidProvider struct{}

// XIDs returns globally unique, time-ordered ids.
func XIDs() IDProvider {
	return xidProvider{}
}

func (xidProvider) Next(*TypeDescription) string {
	return xid.New().String()
}

type contentProvider struct{}

// ContentIDs derives ids from the described type and its member layout, so
// the same graph flattens to the same ids in every process.
func ContentIDs() IDProvider {
	return contentProvider{}
}

type contentMember struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type contentNode struct {
	Type    string          `json:"type"`
	Filter  string          `json:"filter"`
	Members []contentMember `json:"members"`
}

func (contentProvider) Next(d *TypeDescription) string {
	node := contentNode{
		Type:    typeName(d.Type()),
		Filter:  d.Filter().String(),
		Members: make([]contentMember, 0, d.Len()),
	}

	for _, m := range d.Members() {
		node.Members = append(node.Members, contentMember{Name: m.Name, Type: typeName(m.Type)})
	}

	raw, err := json.Marshal(node)
	if err != nil {
		panic(err)
	}

	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		panic(err)
	}

	dgst := digest.FromBytes(canonical)

	return dgst.Algorithm().String() + "-" + dgst.Encoded()[:16]
}
