package mapper

import (
	"fmt"
	"reflect"
	"slices"

	"shape-caster/internal/diagnostic"
	"shape-caster/internal/match"
)

// Explain builds the routine of src to dst and reports the decisions taken:
// the dispatcher class, and for object and record destinations every matched
// member, every dropped source member and every destination member left unset.
// A dropped member whose name resembles an unset one is reported as similar.
// A build failure is reported both as an error diagnostic and as the error.
func (m *Mapper) Explain(src, dst reflect.Type) (diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	key := pair{src, dst}
	typePair := key.String()

	dispatcher := Dispatch(src, dst, m.conversions)

	_, casted := m.caster(key)
	if casted {
		diags.AddInfo(diagnostic.CodeDispatch, "caster", typePair, "")
	} else {
		diags.AddInfo(diagnostic.CodeDispatch, dispatcher.String(), typePair, "")
	}

	if _, err := m.For(src, dst); err != nil {
		diags.AddError(diagnostic.CodeBuild, err.Error(), typePair, "")
		return diags, err
	}

	targets := make(map[string]reflect.Type)

	switch {
	case casted:
		return diags, nil

	case dispatcher == DispatcherRecord:
		slots, _ := recordSlots(dst)
		for _, s := range slots {
			targets[s.getter] = s.typ
		}

	case dispatcher == DispatcherStruct && dst.Kind() == reflect.Struct:
		for name, s := range destinationMembers(dst) {
			targets[name] = s.typ
		}

	default:
		return diags, nil
	}

	var dropped []string

	for _, g := range sourceMembers(src) {
		typ, ok := targets[g.name]
		if !ok {
			dropped = append(dropped, g.name)
			diags.AddWarning(diagnostic.CodeDropped,
				"source member has no destination counterpart", typePair, g.name)

			continue
		}

		delete(targets, g.name)

		diags.AddInfo(diagnostic.CodeMatched,
			fmt.Sprintf("%s -> %s (%s)", g.typ, typ, Dispatch(g.typ, typ, m.conversions)), typePair, g.name)
	}

	unset := make([]string, 0, len(targets))
	for name := range targets {
		unset = append(unset, name)
	}

	slices.Sort(unset)

	for _, name := range unset {
		diags.AddInfo(diagnostic.CodeUnset, "destination member keeps its initial value", typePair, name)
	}

	for _, name := range dropped {
		if best, score, ok := match.Closest(name, unset, match.DefaultThreshold); ok {
			diags.AddInfo(diagnostic.CodeSimilar,
				fmt.Sprintf("resembles unset destination member %s (%.2f)", best, score), typePair, name)
		}
	}

	return diags, nil
}
