package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"shape-caster/describe"
	"shape-caster/internal/clog"
	"shape-caster/options"
)

const (
	configFlag   = "config"
	logLevelFlag = "log-level"
)

// app is the state shared by the sub-commands once the root pre-run loaded
// the configuration.
type app struct {
	config   *options.File
	variants map[string]*describe.Variant
}

func New() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "shape-caster [sub-command]",
		Short: "Describe and map the shop fixture types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().String(configFlag, "", "YAML configuration with extra variants and mapper conversions")
	cmd.PersistentFlags().String(logLevelFlag, "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(newTypesCmd())
	cmd.AddCommand(newSchemaCmd(a))
	cmd.AddCommand(newExplainCmd(a))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	levelName, err := cmd.Flags().GetString(logLevelFlag)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return errors.Errorf("invalid --%s: %w", logLevelFlag, err)
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	_, ctx := clog.NewLoggerFromHandler(cmd.Context(), handler)
	cmd.SetContext(ctx)

	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return err
	}

	if path == "" {
		a.config, err = options.Parse(nil)
	} else {
		a.config, err = options.LoadFile(path)
	}

	if err != nil {
		return err
	}

	a.variants = make(map[string]*describe.Variant)
	for _, v := range builtinVariants() {
		a.variants[v.Name()] = v
	}

	configured, err := describe.VariantsFromConfig(a.config)
	if err != nil {
		return err
	}

	// configured variants replace built-ins of the same name
	for _, v := range configured {
		a.variants[v.Name()] = v
	}

	clog.Ctx(ctx).Debug("configuration loaded", "path", path, "variants", len(a.variants))

	return nil
}

func builtinVariants() []*describe.Variant {
	return []*describe.Variant{
		describe.FieldsPublicProtected,
		describe.FieldsProtectedPrivate,
		describe.PropertiesPublicPrivate,
		describe.PropertiesPublicProtected,
	}
}
