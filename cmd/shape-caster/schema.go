package main

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"shape-caster/description"
	"shape-caster/internal/clog"
	"shape-caster/schema"
)

var errUnknownVariant = errors.New("unknown variant")

func newSchemaCmd(a *app) *cobra.Command {
	var variantName, idsName string

	cmd := &cobra.Command{
		Use:               "schema TYPE",
		Short:             "Print the JSON Schema of a fixture type",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupType(args[0])
			if err != nil {
				return err
			}

			v, ok := a.variants[variantName]
			if !ok {
				return errors.Errorf("%w: %q, known: %v", errUnknownVariant, variantName, a.variantNames())
			}

			ids, err := idProvider(idsName)
			if err != nil {
				return err
			}

			ctx := clog.WithAttrs(cmd.Context(), "variant", v.Name())
			d := v.GetForUseContext(ctx, t, false)

			data, err := json.MarshalIndent(schema.FromDescription(d, ids), "", "  ")
			if err != nil {
				return errors.Errorf("failed to render schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))

			return nil
		},
	}

	cmd.Flags().StringVar(&variantName, "variant", "fields-public-protected", "describer variant")
	cmd.Flags().StringVar(&idsName, "ids", "sequence", "identifiers of cyclic definitions: sequence, xid or content")

	return cmd
}

func (a *app) variantNames() []string {
	names := make([]string, 0, len(a.variants))
	for name := range a.variants {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func idProvider(name string) (description.IDProvider, error) {
	switch name {
	case "sequence":
		return description.NewSequence("def"), nil
	case "xid":
		return description.XIDs(), nil
	case "content":
		return description.ContentIDs(), nil
	default:
		return nil, errors.Errorf("unknown id provider %q", name)
	}
}
