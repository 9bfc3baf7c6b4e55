package mapping

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/neuronlabs/neuron-odata/errors"
)

// NamingConvention is the model mapping naming convention.
type NamingConvention int

const (
	// NoNaming keeps the go names unchanged.
	NoNaming NamingConvention = iota
	// SnakeCase is the naming convention where all words are in lower case letters separated by the '_' character.
	// i.e.: naming_convention
	SnakeCase
	// CamelCase is the naming convention where words are not separated by any character or space and each word starts
	// with a capital letter.
	// i.e.: NamingConvention
	CamelCase
	// LowerCamelCase is the naming convention where words are not separated by any character or space and all but first words starts
	// with a capital letter.
	// i.e.: namingConvention
	LowerCamelCase
	// KebabCase is the naming convention where all words are in lower case letters separated by the '-' character.
	// i.e.: naming-convention
	KebabCase
)

// Parse parses the naming convention by it's 'name'.
func (n *NamingConvention) Parse(name string) error {
	switch strings.ToLower(name) {
	case "snake":
		*n = SnakeCase
	case "lower_camel":
		*n = LowerCamelCase
	case "camel":
		*n = CamelCase
	case "kebab":
		*n = KebabCase
	case "", "none":
		*n = NoNaming
	default:
		return errors.WrapDetf(ErrNamingConvention, "unknown naming convention name: %s", name)
	}
	return nil
}

// Namer converts the 'raw' name with given naming convention.
func (n NamingConvention) Namer(raw string) string {
	switch n {
	case SnakeCase:
		return strcase.ToSnake(raw)
	case CamelCase:
		return strcase.ToCamel(raw)
	case LowerCamelCase:
		return strcase.ToLowerCamel(raw)
	case KebabCase:
		return strcase.ToKebab(raw)
	default:
		return raw
	}
}

// String implements fmt.Stringer interface.
func (n NamingConvention) String() string {
	switch n {
	case SnakeCase:
		return "snake"
	case CamelCase:
		return "camel"
	case LowerCamelCase:
		return "lower_camel"
	case KebabCase:
		return "kebab"
	default:
		return "none"
	}
}
