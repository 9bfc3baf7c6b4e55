package mapping

// ModelOptions are the options for the model registry.
type ModelOptions struct {
	// NamingConvention is used for the property names of the mapped go structs.
	NamingConvention NamingConvention
	// DefaultNotNull marks all non-pointer fields of the mapped go structs as not nullable.
	DefaultNotNull bool
}

// ModelOption is a function that sets the model options.
type ModelOption func(o *ModelOptions)

// WithNamingConvention sets the 'convention' as the naming convention for the model.
func WithNamingConvention(convention NamingConvention) ModelOption {
	return func(o *ModelOptions) {
		o.NamingConvention = convention
	}
}

// WithDefaultNotNull sets the default not null option for all non-pointer fields in all mapped models.
func WithDefaultNotNull(o *ModelOptions) {
	o.DefaultNotNull = true
}
