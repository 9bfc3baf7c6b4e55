package config

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/log"
)

// Flag names of the configuration values.
const (
	FlagLogLevel         = "log-level"
	FlagResponse         = "response"
	FlagParameter        = "parameter"
	FlagDelta            = "delta"
	FlagMetadataLevel    = "metadata"
	FlagKeyAsSegment     = "key-as-segment"
	FlagWithoutPrefix    = "without-prefix"
	FlagServiceRoot      = "service-root"
	FlagNamespace        = "namespace"
	FlagNamingConvention = "naming-convention"
)

// flagKeys maps the flag names to the config keys.
var flagKeys = map[string]string{
	FlagLogLevel:         "log-level",
	FlagResponse:         "writer.writing-response",
	FlagParameter:        "writer.writing-parameter",
	FlagDelta:            "writer.writing-delta",
	FlagMetadataLevel:    "writer.metadata-level",
	FlagKeyAsSegment:     "writer.enable-key-as-segment",
	FlagWithoutPrefix:    "writer.enable-annotation-without-prefix",
	FlagServiceRoot:      "writer.service-root",
	FlagNamespace:        "mapping.namespace",
	FlagNamingConvention: "mapping.naming-convention",
}

// DefineFlags defines the configuration flags within the flag set 'fs'. The flag defaults are the default config values.
func DefineFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(FlagLogLevel, def.LogLevel, "logger level: debug3, debug2, debug, info, warning, error, critical")
	fs.Bool(FlagResponse, def.Writer.WritingResponse, "write the response payload; the request payload otherwise")
	fs.Bool(FlagParameter, def.Writer.WritingParameter, "write the top level record set as a bare parameter array")
	fs.Bool(FlagDelta, def.Writer.WritingDelta, "write the delta payload")
	fs.String(FlagMetadataLevel, def.Writer.MetadataLevel, "metadata level: none, minimal, full")
	fs.Bool(FlagKeyAsSegment, def.Writer.EnableKeyAsSegment, "format the keys of computed links as path segments")
	fs.Bool(FlagWithoutPrefix, def.Writer.EnableAnnotationWithoutPrefix, "write the annotations without the 'odata.' prefix")
	fs.String(FlagServiceRoot, def.Writer.ServiceRoot, "service root url")
	fs.String(FlagNamespace, def.Mapping.Namespace, "default namespace of the types")
	fs.String(FlagNamingConvention, def.Mapping.NamingConvention, "naming convention: camel, lower_camel, snake, kebab")
}

// BindFlags binds the configuration flags of the 'fs' to the viper config keys.
// Only the flags that were explicitly set override the config file values.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.WrapDet(ErrRead, pkgerrors.Wrapf(err, "binding flag: '%s'", name).Error())
		}
		if flag.Changed && log.CurrentLevel().IsAllowed(log.LevelDebug2) {
			log.Debug2f("Config key: '%s' set by flag: '%s' to: '%s'", key, name, flag.Value.String())
		}
	}
	return nil
}

// ReadWithFlags reads the configuration from the optional file at 'path' and overrides it with the flags set in 'fs'.
func ReadWithFlags(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapDet(ErrRead, pkgerrors.Wrapf(err, "reading config file: '%s'", path).Error())
		}
	}
	if fs != nil {
		if err := BindFlags(v, fs); err != nil {
			return nil, err
		}
	}
	return Unmarshal(v)
}
