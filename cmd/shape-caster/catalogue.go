package main

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"shape-caster/internal/fixture/store"
	"shape-caster/internal/fixture/warehouse"
)

var errUnknownType = errors.New("unknown type")

var catalogue = map[string]reflect.Type{
	"store.Address":       reflect.TypeFor[store.Address](),
	"store.Category":      reflect.TypeFor[store.Category](),
	"store.Customer":      reflect.TypeFor[store.Customer](),
	"store.Money":         reflect.TypeFor[store.Money](),
	"store.Order":         reflect.TypeFor[store.Order](),
	"store.OrderItem":     reflect.TypeFor[store.OrderItem](),
	"store.Product":       reflect.TypeFor[store.Product](),
	"warehouse.Address":   reflect.TypeFor[warehouse.Address](),
	"warehouse.Audit":     reflect.TypeFor[warehouse.Audit](),
	"warehouse.Category":  reflect.TypeFor[warehouse.Category](),
	"warehouse.Customer":  reflect.TypeFor[warehouse.Customer](),
	"warehouse.Money":     reflect.TypeFor[warehouse.Money](),
	"warehouse.Order":     reflect.TypeFor[warehouse.Order](),
	"warehouse.OrderItem": reflect.TypeFor[warehouse.OrderItem](),
	"warehouse.Product":   reflect.TypeFor[warehouse.Product](),
}

func lookupType(name string) (reflect.Type, error) {
	t, ok := catalogue[name]
	if !ok {
		return nil, errors.Errorf("%w: %q", errUnknownType, name)
	}

	return t, nil
}

func catalogueNames() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func completeTypes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return catalogueNames(), cobra.ShellCompDirectiveNoFileComp
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the fixture types known to the other commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range catalogueNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}
}
