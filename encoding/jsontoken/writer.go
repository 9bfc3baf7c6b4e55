package jsontoken

import (
	"encoding/json"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/mailru/easyjson/jwriter"

	"github.com/neuronlabs/neuron-odata/errors"
)

type frame struct {
	isArray bool
	count   int
	// named is set when the object member name was written and its value is expected.
	named bool
}

// Writer is the streaming JSON token writer. The first error stops the writer and is returned by
// every subsequent call.
type Writer struct {
	w      jwriter.Writer
	frames []frame
	// done is set when the top level value is completed.
	done bool
	err  error
}

// NewWriter creates new token writer. The HTML characters are not escaped.
func NewWriter() *Writer {
	w := &Writer{}
	w.w.NoEscapeHTML = true
	return w
}

// StartObject writes the object begin token.
func (w *Writer) StartObject() error {
	if err := w.beforeValue("StartObject"); err != nil {
		return err
	}
	w.w.RawByte('{')
	w.frames = append(w.frames, frame{})
	return nil
}

// EndObject writes the object end token.
func (w *Writer) EndObject() error {
	if w.err != nil {
		return w.err
	}
	if len(w.frames) == 0 || w.top().isArray || w.top().named {
		return w.fail(errors.WrapDet(ErrInvalidToken, "end object outside of an object").WithOperation("EndObject"))
	}
	w.w.RawByte('}')
	w.pop()
	return nil
}

// StartArray writes the array begin token.
func (w *Writer) StartArray() error {
	if err := w.beforeValue("StartArray"); err != nil {
		return err
	}
	w.w.RawByte('[')
	w.frames = append(w.frames, frame{isArray: true})
	return nil
}

// EndArray writes the array end token.
func (w *Writer) EndArray() error {
	if w.err != nil {
		return w.err
	}
	if len(w.frames) == 0 || !w.top().isArray {
		return w.fail(errors.WrapDet(ErrInvalidToken, "end array outside of an array").WithOperation("EndArray"))
	}
	w.w.RawByte(']')
	w.pop()
	return nil
}

// Name writes the object member name.
func (w *Writer) Name(name string) error {
	if w.err != nil {
		return w.err
	}
	if len(w.frames) == 0 || w.top().isArray || w.top().named {
		return w.fail(errors.WrapDetf(ErrInvalidToken, "name: '%s' outside of an object", name).WithOperation("Name"))
	}
	f := w.top()
	if f.count > 0 {
		w.w.RawByte(',')
	}
	f.count++
	f.named = true
	w.w.String(name)
	w.w.RawByte(':')
	return nil
}

// Value writes the scalar 'value'. Values that are not primitives are marshaled with the go-json encoder.
func (w *Writer) Value(value interface{}) error {
	if err := w.beforeValue("Value"); err != nil {
		return err
	}
	if err := w.writeValue(value); err != nil {
		return w.fail(err)
	}
	w.afterValue()
	return nil
}

// Err returns the first error that occurred while writing.
func (w *Writer) Err() error {
	return w.err
}

// Depth gets the current nesting depth.
func (w *Writer) Depth() int {
	return len(w.frames)
}

// Size gets the number of the buffered bytes.
func (w *Writer) Size() int {
	return w.w.Size()
}

// Flush writes the buffered content to the 'out' writer and resets the buffer.
func (w *Writer) Flush(out io.Writer) error {
	if w.err != nil {
		return w.err
	}
	if w.w.Error != nil {
		return w.fail(errors.WrapDet(ErrValue, w.w.Error.Error()).WithOperation("Flush"))
	}
	if _, err := w.w.DumpTo(out); err != nil {
		return w.fail(err)
	}
	return nil
}

// BuildBytes returns the buffered content and resets the buffer.
func (w *Writer) BuildBytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.w.BuildBytes()
}

func (w *Writer) top() *frame {
	return &w.frames[len(w.frames)-1]
}

func (w *Writer) pop() {
	w.frames = w.frames[:len(w.frames)-1]
	w.afterValue()
}

func (w *Writer) beforeValue(operation string) error {
	if w.err != nil {
		return w.err
	}
	if len(w.frames) == 0 {
		if w.done {
			return w.fail(errors.WrapDet(ErrInvalidToken, "top level value already written").WithOperation(operation))
		}
		return nil
	}
	f := w.top()
	if f.isArray {
		if f.count > 0 {
			w.w.RawByte(',')
		}
		f.count++
		return nil
	}
	if !f.named {
		return w.fail(errors.WrapDet(ErrInvalidToken, "object member value without a name").WithOperation(operation))
	}
	return nil
}

func (w *Writer) afterValue() {
	if len(w.frames) == 0 {
		w.done = true
		return
	}
	w.top().named = false
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) writeValue(value interface{}) error {
	switch v := value.(type) {
	case nil:
		w.w.RawString("null")
	case string:
		w.w.String(v)
	case bool:
		w.w.Bool(v)
	case int:
		w.w.Int64(int64(v))
	case int8:
		w.w.Int64(int64(v))
	case int16:
		w.w.Int64(int64(v))
	case int32:
		w.w.Int64(int64(v))
	case int64:
		w.w.Int64(v)
	case uint:
		w.w.Uint64(uint64(v))
	case uint8:
		w.w.Uint64(uint64(v))
	case uint16:
		w.w.Uint64(uint64(v))
	case uint32:
		w.w.Uint64(uint64(v))
	case uint64:
		w.w.Uint64(v)
	case float32:
		w.writeFloat(float64(v), 32)
	case float64:
		w.writeFloat(v, 64)
	case json.Number:
		if v == "" {
			w.w.RawByte('0')
		} else {
			w.w.RawString(string(v))
		}
	case json.RawMessage:
		w.w.Raw(v, nil)
	case time.Time:
		w.w.String(v.Format(time.RFC3339Nano))
	case time.Duration:
		w.w.String(durationString(v))
	case []byte:
		w.w.Base64Bytes(v)
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				w.w.RawString("null")
				return nil
			}
			return w.writeValue(rv.Elem().Interface())
		}
		data, err := gojson.Marshal(value)
		if err != nil {
			return errors.WrapDetf(ErrValue, "marshal value of type: '%T' failed: %v", value, err).WithOperation("Value")
		}
		w.w.Raw(data, nil)
	}
	return nil
}

func (w *Writer) writeFloat(f float64, bits int) {
	switch {
	case math.IsNaN(f):
		w.w.String("NaN")
	case math.IsInf(f, 1):
		w.w.String("INF")
	case math.IsInf(f, -1):
		w.w.String("-INF")
	default:
		w.w.RawString(strconv.FormatFloat(f, 'g', -1, bits))
	}
}

// durationString formats the duration as the ISO 8601 day-time duration.
func durationString(d time.Duration) string {
	var sign string
	// the magnitude is kept unsigned so that the minimal duration doesn't overflow.
	abs := uint64(d)
	if d < 0 {
		sign = "-"
		abs = -abs
	}
	const (
		second = uint64(time.Second)
		minute = uint64(time.Minute)
		hour   = uint64(time.Hour)
		day    = 24 * hour
	)
	days := abs / day
	abs -= days * day
	hours := abs / hour
	abs -= hours * hour
	minutes := abs / minute
	abs -= minutes * minute
	seconds, fraction := abs/second, abs%second

	b := []byte(sign + "P")
	if days > 0 {
		b = strconv.AppendUint(b, days, 10)
		b = append(b, 'D')
	}
	b = append(b, 'T')
	if hours > 0 {
		b = strconv.AppendUint(b, hours, 10)
		b = append(b, 'H')
	}
	if minutes > 0 {
		b = strconv.AppendUint(b, minutes, 10)
		b = append(b, 'M')
	}
	if seconds > 0 || fraction > 0 || (hours == 0 && minutes == 0) {
		b = strconv.AppendUint(b, seconds, 10)
		if fraction > 0 {
			frac := strconv.FormatUint(fraction+second, 10)[1:]
			b = append(b, '.')
			b = append(b, strings.TrimRight(frac, "0")...)
		}
		b = append(b, 'S')
	}
	return string(b)
}
