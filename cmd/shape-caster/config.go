package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shape-caster/options"
	"shape-caster/primitive"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init PATH",
		Short: "Write a configuration declaring the built-in variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.WriteFile(defaultConfig(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", args[0])

			return nil
		},
	})

	return cmd
}

func defaultConfig() *options.File {
	f := &options.File{
		Version: "1",
		Mapper: options.MapperConfig{
			Conversions: options.Names{primitive.CategorySafeNumber.String()},
		},
	}

	for _, v := range builtinVariants() {
		cache := v.CachesDerivedForms()

		f.Variants = append(f.Variants, options.VariantConfig{
			Name:              v.Name(),
			Members:           v.Filter().Members.String(),
			Visibility:        strings.Split(v.Filter().Visibility.String(), "|"),
			CacheDerivedForms: &cache,
		})
	}

	return f
}
