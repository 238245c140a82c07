package describe

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"gitlab.com/tozd/go/errors"

	"shape-caster/description"
	"shape-caster/internal/clog"
	"shape-caster/options"
)

// The four built-in variants. The canonical raw descriptions are shared with
// every other variant using the same filter; only the derived-form cache
// policy differs.
var (
	FieldsPublicProtected = mustVariant("fields-public-protected",
		options.Filter{Members: options.MemberFields, Visibility: options.VisibilityPublic | options.VisibilityProtected},
		false)
	FieldsProtectedPrivate = mustVariant("fields-protected-private",
		options.Filter{Members: options.MemberFields, Visibility: options.VisibilityProtected | options.VisibilityPrivate},
		true)
	PropertiesPublicPrivate = mustVariant("properties-public-private",
		options.Filter{Members: options.MemberProperties, Visibility: options.VisibilityPublic | options.VisibilityPrivate},
		false)
	PropertiesPublicProtected = mustVariant("properties-public-protected",
		options.Filter{Members: options.MemberProperties, Visibility: options.VisibilityPublic | options.VisibilityProtected},
		true)
)

// Variant is a describer bound to one filter. GetForUse derives sealed and
// optionally flattened copies of the canonical description; when
// cacheDerived is set, each derived form is built at most once per type.
type Variant struct {
	name         string
	filter       options.Filter
	cacheDerived bool
	ids          description.IDProvider

	derived sync.Map // reflect.Type -> *derivedForms
}

type derivedForms struct {
	mu     sync.Mutex
	sealed atomic.Pointer[description.TypeDescription]
	flat   atomic.Pointer[description.TypeDescription]
}

type VariantOption func(*Variant)

// WithIDProvider sets the provider labelling cycles of flattened forms.
func WithIDProvider(ids description.IDProvider) VariantOption {
	return func(v *Variant) {
		v.ids = ids
	}
}

func NewVariant(name string, filter options.Filter, cacheDerived bool, opts ...VariantOption) (*Variant, error) {
	if err := filter.Validate(); err != nil {
		return nil, errors.Errorf("variant %q: %w", name, err)
	}

	v := &Variant{
		name:         name,
		filter:       filter,
		cacheDerived: cacheDerived,
		ids:          description.DefaultIDs,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

func mustVariant(name string, filter options.Filter, cacheDerived bool) *Variant {
	v, err := NewVariant(name, filter, cacheDerived)
	if err != nil {
		panic(err)
	}

	return v
}

// VariantsFromConfig creates one variant per configured entry.
func VariantsFromConfig(f *options.File, opts ...VariantOption) ([]*Variant, error) {
	res := make([]*Variant, 0, len(f.Variants))

	for _, cfg := range f.Variants {
		filter, err := cfg.Filter()
		if err != nil {
			return nil, errors.Errorf("variant %q: %w", cfg.Name, err)
		}

		v, err := NewVariant(cfg.Name, filter, cfg.CachesDerivedForms(), opts...)
		if err != nil {
			return nil, err
		}

		res = append(res, v)
	}

	return res, nil
}

func (v *Variant) Name() string                { return v.name }
func (v *Variant) Filter() options.Filter      { return v.filter }
func (v *Variant) CachesDerivedForms() bool    { return v.cacheDerived }
func (v *Variant) String() string              { return v.name + "(" + v.filter.String() + ")" }
func (v *Variant) IDs() description.IDProvider { return v.ids }

// Get returns the canonical raw description of t. It is never sealed by the
// variant and must not be mutated.
func (v *Variant) Get(t reflect.Type) *description.TypeDescription {
	return Build(t, v.filter)
}

// GetForUse returns a sealed copy of the canonical description, flattened
// when flatten is set.
func (v *Variant) GetForUse(t reflect.Type, flatten bool) *description.TypeDescription {
	return v.GetForUseContext(context.Background(), t, flatten)
}

func (v *Variant) GetForUseContext(ctx context.Context, t reflect.Type, flatten bool) *description.TypeDescription {
	raw := BuildContext(ctx, t, v.filter)

	if !v.cacheDerived {
		return v.derive(ctx, raw, flatten)
	}

	entry, _ := v.derived.LoadOrStore(raw.Type(), &derivedForms{})
	forms := entry.(*derivedForms)

	if flatten {
		if flat := forms.flat.Load(); flat != nil {
			return flat
		}
	} else if sealed := forms.sealed.Load(); sealed != nil {
		return sealed
	}

	forms.mu.Lock()
	defer forms.mu.Unlock()

	sealed := forms.sealed.Load()
	if sealed == nil {
		sealed = v.derive(ctx, raw, false)
		forms.sealed.Store(sealed)
	}

	if !flatten {
		return sealed
	}

	flat := forms.flat.Load()
	if flat == nil {
		flat = description.Flatten(sealed, v.ids)
		forms.flat.Store(flat)
	}

	return flat
}

func (v *Variant) derive(ctx context.Context, raw *description.TypeDescription, flatten bool) *description.TypeDescription {
	clog.Ctx(ctx).Debug("deriving description",
		"variant", v.name, "type", raw.Type().String(), "flatten", flatten)

	sealed := description.Seal(description.Clone(raw))
	if !flatten {
		return sealed
	}

	return description.Flatten(sealed, v.ids)
}

// Describe returns the canonical raw description of T.
func Describe[T any](v *Variant) *description.TypeDescription {
	return v.Get(reflect.TypeFor[T]())
}

// DescribeForUse returns the sealed, optionally flattened description of T.
func DescribeForUse[T any](v *Variant, flatten bool) *description.TypeDescription {
	return v.GetForUse(reflect.TypeFor[T](), flatten)
}
