// Package config loads settings structs from environment variables through viper.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/unrolled/option"
	"github.com/spf13/viper"
)

type (
	// Options holds the loading options.
	Options struct {
		prefix string
	}

	// WithDefault is implemented by settings that fill their unset fields after loading.
	WithDefault interface {
		ApplyDefault()
	}

	// Validator is implemented by settings that check themselves once loaded and defaulted.
	Validator interface {
		Validate() error
	}
)

// WithEnvPrefix sets the prefix of every environment variable, without the trailing underscore.
func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// Load builds a T from the environment.
//
// Each exported field is bound to PREFIX_FIELD_NAME, where the field name is taken from the
// mapstructure tag when present and converted to screaming snake case. Nested structs add
// their own name to the variable. A `default` tag provides the value used when the variable is
// not set. Once unmarshalled, WithDefault and Validator hooks are called on *T.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var settings T
	typ := reflect.TypeOf(settings)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unable to load config: %v is not a struct", typ)
	}
	bindEnvs(v, options.prefix, typ)

	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if withDefault, ok := any(&settings).(WithDefault); ok {
		withDefault.ApplyDefault()
	}
	if validator, ok := any(&settings).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	return &settings, nil
}

func bindEnvs(v *viper.Viper, envPrefix string, typ reflect.Type, parts ...string) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := field.Tag.Lookup("mapstructure")
		if !ok {
			name = field.Name
		}

		if field.Type.Kind() == reflect.Struct {
			bindEnvs(v, envPrefix, field.Type, append(parts, name)...)
			continue
		}

		key := strings.Join(append(parts, name), ".")
		envParts := make([]string, 0, len(parts)+1)
		for _, part := range append(parts, name) {
			envParts = append(envParts, toScreamingSnakeCase(part))
		}
		_ = v.BindEnv(key, withEnvPrefix(envPrefix, strings.Join(envParts, "_")))

		if def, found := field.Tag.Lookup("default"); found {
			v.SetDefault(key, def)
		}
	}
}

func withEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}
	return strings.ToUpper(in)
}

// toScreamingSnakeCase converts CamelCase, kebab-case or snake_case to SCREAMING_SNAKE_CASE.
func toScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)

	sb := strings.Builder{}
	sb.Grow(len(in) + len(in)/3)

	for i, b := range []byte(in) {
		switch {
		case 'a' <= b && b <= 'z':
			sb.WriteByte(b - ('a' - 'A'))
		case 'A' <= b && b <= 'Z':
			if i > 0 && !isSeparator(in[i-1]) && !isUpper(in[i-1]) {
				sb.WriteByte('_')
			}
			sb.WriteByte(b)
		case isSeparator(b):
			if i > 0 {
				sb.WriteByte('_')
			}
		default:
			sb.WriteByte(b)
		}
	}

	return sb.String()
}

func isSeparator(b byte) bool {
	return b == '_' || b == '-'
}

func isUpper(b byte) bool {
	return 'A' <= b && b <= 'Z'
}
