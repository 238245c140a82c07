// Package schema renders type descriptions as JSON Schema documents.
package schema

import (
	"reflect"
	"time"

	"github.com/invopop/jsonschema"

	"shape-caster/description"
)

const defsPrefix = "#/$defs/"

var timeType = reflect.TypeFor[time.Time]()

// FromDescription returns a draft 2020-12 schema of d. The description is
// flattened with ids first unless it already is, so shared acyclic members
// are inlined. Every node labelled by flattening is emitted once into $defs
// under its identifier and referenced with $ref, which also makes a labelled
// root a bare $ref next to the definitions.
//
// Objects are closed: members become properties, required unless optional,
// and read-only unless writable. Lists render as arrays with items. Map keys
// render as property names, so only the value description is emitted.
func FromDescription(d *description.TypeDescription, ids description.IDProvider) *jsonschema.Schema {
	flat := description.Flatten(d, ids)

	e := &emitter{defs: make(jsonschema.Definitions)}

	root := e.schema(flat)
	root.Version = jsonschema.Version

	if len(e.defs) > 0 {
		root.Definitions = e.defs
	}

	return root
}

type emitter struct {
	defs jsonschema.Definitions
}

func (e *emitter) schema(d *description.TypeDescription) *jsonschema.Schema {
	if d.IsRef() {
		return &jsonschema.Schema{Ref: defsPrefix + d.RefID()}
	}

	s := e.body(d)

	if id := d.ID(); id != "" {
		e.defs[id] = s
		return &jsonschema.Schema{Ref: defsPrefix + id}
	}

	return s
}

func (e *emitter) body(d *description.TypeDescription) *jsonschema.Schema {
	if d.Type() == timeType {
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	}

	switch d.Shape() {
	case description.ShapeObject:
		return e.object(d)

	case description.ShapeList:
		return &jsonschema.Schema{Type: "array", Items: e.schema(d.Elem())}

	case description.ShapeMap:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: e.schema(d.Elem())}
	}

	s := scalar(d.Type())
	if d.Len() > 0 {
		// a named scalar described through its properties
		s = e.object(d)
	}

	return s
}

func (e *emitter) object(d *description.TypeDescription) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:                 "object",
		Title:                d.Type().Name(),
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}

	for _, m := range d.Members() {
		ms := e.schema(m.Description())

		if !m.Writable {
			if ms.Ref != "" {
				ms = &jsonschema.Schema{AllOf: []*jsonschema.Schema{ms}}
			}

			ms.ReadOnly = true
		}

		s.Properties.Set(m.Name, ms)

		if !m.Optional {
			s.Required = append(s.Required, m.Name)
		}
	}

	return s
}

func scalar(t reflect.Type) *jsonschema.Schema {
	switch t.Kind() {
	case reflect.Bool:
		return &jsonschema.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &jsonschema.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &jsonschema.Schema{Type: "number"}
	case reflect.String:
		return &jsonschema.Schema{Type: "string"}
	default:
		// interfaces accept anything; channels and funcs have no data shape
		return &jsonschema.Schema{}
	}
}
