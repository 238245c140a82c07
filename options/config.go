package options

import (
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"shape-caster/primitive"
)

// File is the root of a YAML configuration file.
//
//	version: "1"
//	variants:
//	  - name: fields-public-protected
//	    members: fields
//	    visibility: [public, protected]
//	    cache_derived_forms: false
//	mapper:
//	  conversions: [safe_number, enum_string]
type File struct {
	// Version of the configuration schema.
	Version string `yaml:"version,omitempty"`

	// Variants lists describer filter variants.
	Variants []VariantConfig `yaml:"variants,omitempty"`

	// Mapper configures the mapping engine.
	Mapper MapperConfig `yaml:"mapper,omitempty"`
}

// VariantConfig declares one describer filter variant.
type VariantConfig struct {
	Name       string `yaml:"name"`
	Members    string `yaml:"members"`
	Visibility Names  `yaml:"visibility"`

	// CacheDerivedForms keeps the sealed and flattened forms once built.
	// Defaults to true.
	CacheDerivedForms *bool `yaml:"cache_derived_forms,omitempty"`
}

// MapperConfig lists the primitive conversion categories a mapper may use
// between scalar members of different types.
type MapperConfig struct {
	Conversions Names `yaml:"conversions,omitempty"`
}

// Names accepts either a single string ("public|protected" is split on '|')
// or a sequence of strings.
type Names []string

// UnmarshalYAML implements custom YAML unmarshaling for Names.
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		*n = Names{}
		for _, part := range strings.Split(str, "|") {
			if part = strings.TrimSpace(part); part != "" {
				*n = append(*n, part)
			}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*n = arr

		return nil

	default:
		return errors.Errorf("expected string or array, got %v", node.Kind)
	}
}

// Filter converts the declared member kind and visibilities into a Filter.
func (v VariantConfig) Filter() (Filter, error) {
	members, err := ParseMember(v.Members)
	if err != nil {
		return Filter{}, err
	}

	visibility, err := ParseVisibility(v.Visibility...)
	if err != nil {
		return Filter{}, err
	}

	f := Filter{Members: members, Visibility: visibility}

	return f, f.Validate()
}

// CachesDerivedForms reports the effective caching policy.
func (v VariantConfig) CachesDerivedForms() bool {
	return v.CacheDerivedForms == nil || *v.CacheDerivedForms
}

// Categories combines the configured conversion categories.
func (m MapperConfig) Categories() (primitive.CategoryEnum, error) {
	var res primitive.CategoryEnum

	for _, name := range m.Conversions {
		category, err := primitive.ParseCategory(name)
		if err != nil {
			return primitive.CategoryNone, err
		}

		res |= category
	}

	return res, nil
}

// Validate reports every problem of the file at once.
func (f *File) Validate() error {
	var result *multierror.Error

	seen := make(map[string]struct{}, len(f.Variants))
	for i, v := range f.Variants {
		if v.Name == "" {
			result = multierror.Append(result, errors.Errorf("variant #%d: name is required", i))
		} else if _, dup := seen[v.Name]; dup {
			result = multierror.Append(result, errors.Errorf("variant %q: declared twice", v.Name))
		}

		seen[v.Name] = struct{}{}

		if _, err := v.Filter(); err != nil {
			result = multierror.Append(result, errors.Errorf("variant %q: %w", v.Name, err))
		}
	}

	if _, err := f.Mapper.Categories(); err != nil {
		result = multierror.Append(result, errors.Errorf("mapper: %w", err))
	}

	return result.ErrorOrNil()
}

// LoadFile loads, parses and validates a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("failed to read configuration file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses and validates YAML configuration data.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, errors.Errorf("failed to parse configuration YAML: %w", err)
	}

	applyDefaults(&f)

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if len(f.Mapper.Conversions) == 0 {
		f.Mapper.Conversions = Names{primitive.CategorySafeNumber.String()}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return errors.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("failed to write configuration file %s: %w", path, err)
	}

	return nil
}
