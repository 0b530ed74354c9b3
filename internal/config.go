package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/othala/internal/schema"
)

// Store modes.
const (
	StoreModeEmbedded = "embedded"
	StoreModeRemote   = "remote"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	UI        UIConfig          `yaml:"ui"`
	Resources []ResourceConfig  `yaml:"resources"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.UI.Validate(); err != nil {
		return err
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf("resources: at least one resource must be configured")
	}

	categories := make(map[string]struct{}, len(c.Resources))
	for _, r := range c.Resources {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := categories[r.Category]; dup {
			return fmt.Errorf("resources: duplicate category %q", r.Category)
		}
		categories[r.Category] = struct{}{}
	}

	// Reference attributes name their target category, so every reference
	// must point at a configured resource.
	for _, r := range c.Resources {
		for _, a := range r.Attributes {
			if a.Type != "reference" {
				continue
			}
			if _, ok := categories[a.Name]; !ok {
				return fmt.Errorf("resources: %s.%s references unconfigured category %q",
					r.Category, a.Name, a.Name)
			}
		}
	}
	return nil
}

// SchemaTable builds the immutable schema table from the configured
// resources. Called once at startup, after validation.
func (c *Config) SchemaTable() (*schema.Table, error) {
	resources := make([]schema.Resource, 0, len(c.Resources))
	for _, r := range c.Resources {
		res := schema.Resource{Category: r.Category}
		for _, a := range r.Attributes {
			kind, err := schema.ParseKind(a.Type)
			if err != nil {
				return nil, fmt.Errorf("resource %q: attribute %q: %w", r.Category, a.Name, err)
			}
			res.Attributes = append(res.Attributes, schema.Attribute{Name: a.Name, Kind: kind})
		}
		resources = append(resources, res)
	}
	return schema.NewTable(resources)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects the document store backing all resource collections.
//
// Mode controls where records live:
//   - "remote": records live in a remote collection API at Endpoint.
//   - "embedded" (default): records live in a local SQLite file, so the
//     application runs standalone in development.
type StoreConfig struct {
	Mode       string `yaml:"mode"`
	Endpoint   string `yaml:"endpoint"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = StoreModeEmbedded
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(StoreModeEmbedded, StoreModeRemote)),
	); err != nil {
		return err
	}
	if c.Mode == StoreModeRemote && c.Endpoint == "" {
		return fmt.Errorf("store: mode is %q but endpoint is empty", StoreModeRemote)
	}
	if c.Mode == StoreModeEmbedded && c.SQLitePath == "" {
		return fmt.Errorf("store: mode is %q but sqlite_path is empty", StoreModeEmbedded)
	}
	return nil
}

// UIConfig holds view-layer settings.
type UIConfig struct {
	// ListDetailLevel is how many leading attributes a list row shows.
	ListDetailLevel int `yaml:"list_detail_level"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ListDetailLevel, validation.Required, validation.Min(1)),
	)
}

// ResourceConfig declares one resource category.
type ResourceConfig struct {
	Category   string            `yaml:"category"`
	Attributes []AttributeConfig `yaml:"attributes"`
}

// Validate validates a resource declaration.
func (c *ResourceConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Category, validation.Required),
		validation.Field(&c.Attributes, validation.Required),
	); err != nil {
		return err
	}
	names := make(map[string]struct{}, len(c.Attributes))
	for _, a := range c.Attributes {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("resource %q: %w", c.Category, err)
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("resource %q: duplicate attribute %q", c.Category, a.Name)
		}
		names[a.Name] = struct{}{}
	}
	return nil
}

// AttributeConfig declares one typed attribute. Declaration order is
// significant: it is both validation order and form-field order.
type AttributeConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Validate validates an attribute declaration.
func (c *AttributeConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Type, validation.Required),
	); err != nil {
		return err
	}
	if _, err := schema.ParseKind(c.Type); err != nil {
		return fmt.Errorf("attribute %q: %w", c.Name, err)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Mode:       StoreModeEmbedded,
			SQLitePath: "./othala.db",
		},
		UI: UIConfig{
			ListDetailLevel: 2,
		},
	}
}
