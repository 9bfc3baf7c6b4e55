package mapping

import (
	"reflect"

	"github.com/neuronlabs/neuron-odata/errors"
)

// FieldValue is the value of the property taken from the mapped go struct.
type FieldValue struct {
	Property *Property
	Value    interface{}
}

// FieldValues gets the values of all mapped properties of the go 'model' in the declaration order.
// Nil pointer fields results in nil values. The model must be an instance of the type's go struct.
func (s *StructType) FieldValues(model interface{}) ([]FieldValue, error) {
	if s.goType == nil {
		return nil, errors.WrapDetf(ErrModel, "type: '%s' is not mapped from a go struct", s.FullName())
	}
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.WrapDetf(ErrModel, "nil model of type: '%s'", s.FullName())
		}
		v = v.Elem()
	}
	if v.Type() != s.goType {
		return nil, errors.WrapDetf(ErrModel, "model: '%s' is not an instance of type: '%s'", v.Type(), s.FullName())
	}

	values := make([]FieldValue, 0, len(s.properties))
	for _, p := range s.properties {
		if p.index == nil {
			continue
		}
		fv := v.FieldByIndex(p.index)
		var value interface{}
		if fv.Kind() != reflect.Ptr || !fv.IsNil() {
			value = fv.Interface()
		}
		values = append(values, FieldValue{Property: p, Value: value})
	}
	return values, nil
}
