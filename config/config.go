package config

// Config contains general configurations for the odata writers.
type Config struct {
	// Writer defines the payload writer configuration.
	Writer *Writer `mapstructure:"writer" validate:"required"`
	// Mapping defines the structural model mapping configuration.
	Mapping *Mapping `mapstructure:"mapping" validate:"required"`
	// LogLevel is the current logging level.
	LogLevel string `mapstructure:"log-level" validate:"isdefault|oneof=debug3 debug2 debug info warning error critical"`
}

// Writer defines the configuration of the payload writer.
type Writer struct {
	// WritingResponse selects between the response and request payload rules.
	WritingResponse bool `mapstructure:"writing-response"`
	// WritingParameter writes top level record sets as bare parameter arrays.
	WritingParameter bool `mapstructure:"writing-parameter"`
	// WritingDelta enables delta payload framing.
	WritingDelta bool `mapstructure:"writing-delta"`
	// MetadataLevel defines how much of the computed metadata is written.
	// Allowed values:
	// - none
	// - minimal
	// - full
	MetadataLevel string `mapstructure:"metadata-level" validate:"oneof=none minimal full"`
	// EnableKeyAsSegment formats the keys in the computed links as path segments.
	EnableKeyAsSegment bool `mapstructure:"enable-key-as-segment"`
	// EnableAnnotationWithoutPrefix writes the odata annotations without the 'odata.' prefix.
	EnableAnnotationWithoutPrefix bool `mapstructure:"enable-annotation-without-prefix"`
	// ServiceRoot is the root url of the service used for context urls and computed links.
	ServiceRoot string `mapstructure:"service-root" validate:"omitempty,url"`
}

// Mapping defines the configuration for the structural model.
type Mapping struct {
	// Namespace is the default namespace of the mapped types.
	Namespace string `mapstructure:"namespace" validate:"required"`
	// NamingConvention is the naming convention used while mapping the go struct fields.
	// Allowed values:
	// - camel
	// - lower_camel
	// - snake
	// - kebab
	NamingConvention string `mapstructure:"naming-convention" validate:"oneof=camel lower_camel snake kebab"`
}
