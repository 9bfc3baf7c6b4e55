package config

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/go-playground/validator.v9"

	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/log"
)

var validate = validator.New()

// ViperSetDefaults sets the default values for the viper config.
func ViperSetDefaults(v *viper.Viper) {
	setDefaults(v)
}

// ReadConfig reads the config named 'odata' from the working directory or the 'configs' directory.
func ReadConfig() (*Config, error) {
	return ReadNamedConfig("odata")
}

// ReadNamedConfig reads the config with the provided name.
func ReadNamedConfig(name string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	if len(paths) == 0 {
		paths = []string{".", "configs"}
	}
	for _, path := range paths {
		v.AddConfigPath(path)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapDet(ErrRead, pkgerrors.Wrapf(err, "reading config: '%s'", name).Error())
	}
	return Unmarshal(v)
}

// ReadConfigFile reads the config from the file at given 'path'.
func ReadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapDet(ErrRead, pkgerrors.Wrapf(err, "reading config file: '%s'", path).Error())
	}
	return Unmarshal(v)
}

// Unmarshal unmarshals and validates the config stored within the viper instance.
func Unmarshal(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		log.Debugf("Unmarshaling config failed: %v", err)
		return nil, errors.WrapDet(ErrRead, pkgerrors.Wrap(err, "unmarshaling config").Error())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate validates the config values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.WrapDetf(ErrInvalidValue, "invalid config: %v", err)
	}
	multi := make(errors.MultiError, len(fieldErrors))
	for i, fe := range fieldErrors {
		multi[i] = errors.WrapDetf(ErrInvalidValue, "invalid config value: '%s'", fe.Namespace()).
			WithDetailf("value: '%v' doesn't satisfy the '%s' rule", fe.Value(), fe.Tag())
	}
	return multi
}

func setDefaults(v *viper.Viper) {
	def := Default()
	keys := map[string]interface{}{
		"log-level":                               def.LogLevel,
		"writer.writing-response":                 def.Writer.WritingResponse,
		"writer.writing-parameter":                def.Writer.WritingParameter,
		"writer.writing-delta":                    def.Writer.WritingDelta,
		"writer.metadata-level":                   def.Writer.MetadataLevel,
		"writer.enable-key-as-segment":            def.Writer.EnableKeyAsSegment,
		"writer.enable-annotation-without-prefix": def.Writer.EnableAnnotationWithoutPrefix,
		"writer.service-root":                     def.Writer.ServiceRoot,
		"mapping.namespace":                       def.Mapping.Namespace,
		"mapping.naming-convention":               def.Mapping.NamingConvention,
	}
	for k, value := range keys {
		v.SetDefault(k, value)
	}
}
