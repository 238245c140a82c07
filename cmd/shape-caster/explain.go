package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shape-caster/mapper"
)

func newExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "explain SOURCE DESTINATION",
		Short:             "Explain how the mapper converts one fixture type into another",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := lookupType(args[0])
			if err != nil {
				return err
			}

			dst, err := lookupType(args[1])
			if err != nil {
				return err
			}

			categories, err := a.config.Mapper.Categories()
			if err != nil {
				return err
			}

			m := mapper.New(mapper.WithConversions(categories))

			diags, err := m.Explain(src, dst)
			for _, d := range diags.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", d.Severity, d)
			}

			return err
		},
	}
}
