package folio

import "github.com/goliatone/go-folio/internal/runtimeconfig"

var (
	ErrInvalidConfig = runtimeconfig.ErrInvalidConfig
	ErrConfigSchema  = runtimeconfig.ErrConfigSchema
)

type (
	Config           = runtimeconfig.Config
	SiteConfig       = runtimeconfig.SiteConfig
	ContentConfig    = runtimeconfig.ContentConfig
	CollectionConfig = runtimeconfig.CollectionConfig
	FeedConfig       = runtimeconfig.FeedConfig
	GeneratorConfig  = runtimeconfig.GeneratorConfig
	CommandsConfig   = runtimeconfig.CommandsConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the configuration of the parda.me site.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file and merges it over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// ParseConfig decodes a YAML document and merges it over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	return runtimeconfig.Parse(data)
}
