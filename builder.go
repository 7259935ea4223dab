// FILE: lixenwraith/dataobject/builder.go
package dataobject

import (
	"fmt"
	"os"
	"strings"
)

// ValidatorFunc defines the signature for a function that can validate a built DataObject.
// It receives the fully layered object and should return an error if validation fails.
type ValidatorFunc func(d *DataObject) error

// EnvTransformFunc converts a path to an environment variable name
type EnvTransformFunc func(path string) string

// source is one pending layer: raw data plus the format to parse it with
type source struct {
	data   []byte
	format Format
	name   string
}

// Builder layers data into a DataObject. Layers are merged in precedence
// order, lowest first: defaults, data, sources, environment, arguments.
type Builder struct {
	defaults     any
	data         []any
	sources      []source
	envPrefix    string
	envTransform EnvTransformFunc
	useEnv       bool
	args         []string
	err          error
	validators   []ValidatorFunc
}

// NewBuilder creates a new builder
func NewBuilder() *Builder {
	return &Builder{
		validators: make([]ValidatorFunc, 0),
	}
}

// WithDefaults sets the lowest layer, typically a struct of default values
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithData adds a layer from any input Of accepts
func (b *Builder) WithData(data any) *Builder {
	b.data = append(b.data, data)
	return b
}

// WithSource adds a serialized layer. An empty format is detected from content.
func (b *Builder) WithSource(data []byte, format Format) *Builder {
	b.sources = append(b.sources, source{data: data, format: format})
	return b
}

// WithFile adds a layer read from a file. The format is detected from the
// extension, then the content.
func (b *Builder) WithFile(path string) *Builder {
	data, err := os.ReadFile(path)
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("failed to read source file '%s': %w", path, err)
		}
		return b
	}
	b.sources = append(b.sources, source{data: data, format: DetectFormat(path, data), name: path})
	return b
}

// WithEnvPrefix enables the environment layer.
// Example: "MYAPP_" maps "server.port" to "MYAPP_SERVER_PORT"
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	b.useEnv = true
	return b
}

// WithEnvTransform sets a custom environment variable transformer and enables the environment layer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.envTransform = fn
	b.useEnv = true
	return b
}

// WithArgs sets command-line overrides of the form --path=value or --path value
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the DataObject with all layers applied
func (b *Builder) Build() (*DataObject, error) {
	d, err := b.build()
	count := 0
	if d != nil {
		count = d.Count()
	}
	emitBuildComplete(count, err)
	return d, err
}

func (b *Builder) build() (*DataObject, error) {
	if b.err != nil {
		return nil, b.err
	}

	d := New()

	if b.defaults != nil {
		defaults, err := Of(b.defaults)
		if err != nil {
			return nil, fmt.Errorf("failed to apply defaults: %w", err)
		}
		d.Merge(defaults)
	}

	for _, data := range b.data {
		layer, err := Of(data)
		if err != nil {
			return nil, fmt.Errorf("failed to apply data layer: %w", err)
		}
		d.Merge(layer)
	}

	for _, src := range b.sources {
		format := src.format
		if format == "" {
			if format = DetectFormat(src.name, src.data); format == "" {
				return nil, fmt.Errorf("%w for source %q", ErrUnknownFormat, src.name)
			}
		}
		layer, err := Parse(src.data, format)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s source %q: %w", format, src.name, err)
		}
		d.Merge(layer)
	}

	if b.useEnv {
		transform := b.envTransform
		if transform == nil {
			transform = defaultEnvTransform(b.envPrefix)
		}
		applyEnv(d, transform)
	}

	if len(b.args) > 0 {
		overrides, err := parseArgs(b.args)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CLI args: %w", err)
		}
		overrides.Range(func(path string, value any) bool {
			d.Set(path, value)
			return true
		})
	}

	for _, validator := range b.validators {
		if err := validator(d); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	return d, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *DataObject {
	d, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("dataobject build failed: %v", err))
	}
	return d
}

// BuildAndScan builds and decodes the final object into the provided target pointer
func (b *Builder) BuildAndScan(target any) error {
	d, err := b.Build()
	if err != nil {
		return err
	}
	if err := d.Scan("", target); err != nil {
		return fmt.Errorf("failed to scan built object into target: %w", err)
	}
	return nil
}

// applyEnv overrides every existing leaf path whose environment variable is set.
// Only paths already present are consulted; the environment cannot add keys.
func applyEnv(d *DataObject, transform EnvTransformFunc) {
	flat := NewRecord()
	d.root().Range(func(key string, value any) bool {
		flattenInto(flat, key, value, false)
		return true
	})

	for _, path := range flat.Keys() {
		if value, ok := os.LookupEnv(transform(path)); ok {
			d.Set(path, parseValue(value))
		}
	}
}

// defaultEnvTransform uppercases the path and replaces dots and dashes with underscores
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ReplaceAll(env, "-", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// parseValue converts boolean literals and strips surrounding quotes.
// Everything else stays a string; Scan converts as needed.
func parseValue(s string) any {
	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}

// parseArgs processes command-line arguments into path overrides, in order.
func parseArgs(args []string) (*Record, error) {
	result := NewRecord()
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		// Check for "--key=value" format
		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++
		} else {
			// Handle "--key value" or "--booleanflag"
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}

		for _, segment := range strings.Split(keyPath, Delimiter) {
			if segment == "" {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}

		result.Set(keyPath, parseValue(valueStr))
	}

	return result, nil
}
