package options

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrEmptyMembers    = errors.New("member filter selects nothing")
	ErrEmptyVisibility = errors.New("visibility filter selects nothing")
	ErrUnknownMember   = errors.New("unknown member kind")
	ErrUnknownVisible  = errors.New("unknown visibility")
)

type MemberEnum int

const (
	MemberFields     MemberEnum = 1 << iota // struct fields, promoted ones included
	MemberProperties                        // getter methods: no arguments, exactly one result

	MemberAll  = (1 << iota) - 1 // all member kinds combined
	MemberNone = 0               // no member kinds selected
)

type VisibilityEnum int

const (
	VisibilityPublic    VisibilityEnum = 1 << iota // exported and declared on the type itself
	VisibilityProtected                            // inherited through an embedded type
	VisibilityPrivate                              // unexported and declared on the type itself

	VisibilityAll  = (1 << iota) - 1 // all visibilities combined
	VisibilityNone = 0               // no visibility selected
)

func (m MemberEnum) String() string {
	var parts []string
	if m&MemberFields != 0 {
		parts = append(parts, "fields")
	}

	if m&MemberProperties != 0 {
		parts = append(parts, "properties")
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, "|")
}

func (v VisibilityEnum) String() string {
	var parts []string
	if v&VisibilityPublic != 0 {
		parts = append(parts, "public")
	}

	if v&VisibilityProtected != 0 {
		parts = append(parts, "protected")
	}

	if v&VisibilityPrivate != 0 {
		parts = append(parts, "private")
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, "|")
}

// ParseMember accepts "fields" or "properties" (case-insensitive).
func ParseMember(s string) (MemberEnum, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fields", "field":
		return MemberFields, nil
	case "properties", "property":
		return MemberProperties, nil
	default:
		return MemberNone, errors.Errorf("%w: %q", ErrUnknownMember, s)
	}
}

// ParseVisibility combines every named visibility into one mask.
func ParseVisibility(names ...string) (VisibilityEnum, error) {
	var v VisibilityEnum

	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "public":
			v |= VisibilityPublic
		case "protected":
			v |= VisibilityProtected
		case "private":
			v |= VisibilityPrivate
		default:
			return VisibilityNone, errors.Errorf("%w: %q", ErrUnknownVisible, name)
		}
	}

	return v, nil
}

// Filter selects which members a description contains.
type Filter struct {
	Members    MemberEnum
	Visibility VisibilityEnum
}

func (f Filter) Validate() error {
	if f.Members&MemberAll == 0 {
		return errors.WithStack(ErrEmptyMembers)
	}

	if f.Visibility&VisibilityAll == 0 {
		return errors.WithStack(ErrEmptyVisibility)
	}

	return nil
}

// Includes reports whether a member of the given kind and visibility passes the filter.
func (f Filter) Includes(kind MemberEnum, visibility VisibilityEnum) bool {
	return f.Members&kind != 0 && f.Visibility&visibility != 0
}

func (f Filter) String() string {
	return f.Members.String() + "/" + f.Visibility.String()
}
