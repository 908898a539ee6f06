package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Design constraints
	MaxLayers  int `yaml:"max_layers" validate:"gte=1"`
	MaxNodes   int `yaml:"max_nodes" validate:"gte=0"`
	MaxLinks   int `yaml:"max_links" validate:"gte=0"`
	MaxDemands int `yaml:"max_demands" validate:"gte=0"`

	DefaultLayerName string `yaml:"default_layer_name" validate:"required"`

	// Validation settings
	AllowSelfLoops bool `yaml:"allow_self_loops"`
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxLayers:        16,
		MaxNodes:         10000,
		MaxLinks:         50000,
		MaxDemands:       100000,
		DefaultLayerName: "Layer 0",
		AllowSelfLoops:   false,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Cloning cost grows with design size, keep history snapshots bounded
	config.MaxNodes = 5000
	config.MaxLinks = 25000
	config.MaxDemands = 50000

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxLayers = 64
	config.MaxNodes = 100000
	config.MaxLinks = 500000
	config.MaxDemands = 1000000
	config.AllowSelfLoops = true

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
