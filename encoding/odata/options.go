package odata

import (
	"strings"

	"github.com/neuronlabs/neuron-odata/config"
	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/mapping"
)

// MetadataLevel defines how much of the computed metadata is written into the payload.
type MetadataLevel int

// Metadata level enumerators.
const (
	MetadataMinimal MetadataLevel = iota
	MetadataNone
	MetadataFull
)

// String implements fmt.Stringer interface.
func (m MetadataLevel) String() string {
	switch m {
	case MetadataNone:
		return "none"
	case MetadataFull:
		return "full"
	default:
		return "minimal"
	}
}

// ParseMetadataLevel parses the metadata level by its name.
func ParseMetadataLevel(level string) (MetadataLevel, error) {
	switch strings.ToLower(level) {
	case "", "minimal":
		return MetadataMinimal, nil
	case "none":
		return MetadataNone, nil
	case "full":
		return MetadataFull, nil
	}
	return MetadataMinimal, errors.WrapDetf(errors.ErrInvalidArgument, "unknown metadata level: '%s'", level)
}

// Settings are the payload writer settings.
type Settings struct {
	// WritingResponse selects the response payload rules. Otherwise the request rules are used.
	WritingResponse bool
	// WritingParameter writes the top level record set as a bare array.
	WritingParameter bool
	// WritingDelta writes the delta payload framing.
	WritingDelta bool
	// MetadataLevel defines the amount of written metadata.
	MetadataLevel MetadataLevel
	// EnableKeyAsSegment writes the single keys of the computed links as the path segments.
	EnableKeyAsSegment bool
	// EnableAnnotationWithoutPrefix writes the odata annotations without the 'odata.' prefix.
	EnableAnnotationWithoutPrefix bool
	// ServiceRoot is the service root url used by the context urls.
	ServiceRoot string

	// Model is the optional structural model.
	Model *mapping.Model
	// NavigationSource is the navigation source of the top level item.
	NavigationSource *mapping.NavigationSource
	// ExpectedType is the expected structural type of the top level item.
	ExpectedType *mapping.StructType
	// Query is the context of the query answered by the payload.
	Query *QueryContext
}

// SettingsFromConfig creates the writer settings from the configuration.
func SettingsFromConfig(c *config.Writer) (*Settings, error) {
	level, err := ParseMetadataLevel(c.MetadataLevel)
	if err != nil {
		return nil, err
	}
	s := &Settings{
		WritingResponse:               c.WritingResponse,
		WritingParameter:              c.WritingParameter,
		WritingDelta:                  c.WritingDelta,
		MetadataLevel:                 level,
		EnableKeyAsSegment:            c.EnableKeyAsSegment,
		EnableAnnotationWithoutPrefix: c.EnableAnnotationWithoutPrefix,
		ServiceRoot:                   c.ServiceRoot,
	}
	return s, nil
}

func (s *Settings) serviceRoot() string {
	if s.ServiceRoot == "" || strings.HasSuffix(s.ServiceRoot, "/") {
		return s.ServiceRoot
	}
	return s.ServiceRoot + "/"
}

// QueryContext describes the query that the payload answers.
type QueryContext struct {
	// Path is the resource path used as the context url path, i.e. 'Customers(1)/Orders'.
	// If empty, the path is resolved from the navigation source.
	Path string
	// Select is the selected properties filter of the top level item.
	Select *SelectedProperties
}

// WriterOption is a function that changes the writer options.
type WriterOption func(w *Writer)

// WithTokenWriter sets the token writer used by the payload writer.
func WithTokenWriter(tokens TokenWriter) WriterOption {
	return func(w *Writer) {
		w.tokens = tokens
	}
}
