package config

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Writer:   DefaultWriter(),
		Mapping:  DefaultMapping(),
		LogLevel: "info",
	}
}

// DefaultWriter returns default writer configuration.
func DefaultWriter() *Writer {
	return &Writer{
		WritingResponse: true,
		MetadataLevel:   "minimal",
	}
}

// DefaultMapping returns default mapping configuration.
func DefaultMapping() *Mapping {
	return &Mapping{
		Namespace:        "Default",
		NamingConvention: "lower_camel",
	}
}
