package odata

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/neuron-odata/mapping"
)

// testModel creates the testing model:
//
//	Customers (NS.Customer) - Orders -> Orders, BestFriend -> Customers, Notes (contained)
//	Orders (NS.Order)
//	Photos (NS.Photo) - media entity
//	Me (NS.Customer) - singleton
func testModel(t testing.TB) *mapping.Model {
	t.Helper()
	m := mapping.NewModel("NS")

	address := mapping.NewComplexType("NS", "Address").MustAddProperties(
		mapping.Primitive("Street", "Edm.String"),
	)
	order := mapping.NewEntityType("NS", "Order", "ID").MustAddProperties(
		mapping.Primitive("ID", "Edm.Int32"),
		mapping.Primitive("Total", "Edm.Decimal"),
	)
	note := mapping.NewEntityType("NS", "Note", "ID").MustAddProperties(
		mapping.Primitive("ID", "Edm.Int32"),
		mapping.Primitive("Text", "Edm.String"),
	)
	customer := mapping.NewEntityType("NS", "Customer", "ID")
	customer.MustAddProperties(
		mapping.Primitive("ID", "Edm.Int32"),
		mapping.Primitive("Name", "Edm.String"),
		mapping.Complex("Address", address),
		mapping.NavigationCollection("Orders", order),
		mapping.Navigation("BestFriend", customer),
		mapping.NavigationCollection("Notes", note).Contained(),
	)
	vip := mapping.NewEntityType("NS", "VipCustomer").WithBase(customer).MustAddProperties(
		mapping.Primitive("Level", "Edm.Int32"),
	)
	photo := mapping.NewEntityType("NS", "Photo", "ID").SetHasStream().MustAddProperties(
		mapping.Primitive("ID", "Edm.Int32"),
	)
	require.NoError(t, m.RegisterTypes(address, order, note, customer, vip, photo))

	customers, err := m.AddEntitySet("Customers", customer)
	require.NoError(t, err)
	orders, err := m.AddEntitySet("Orders", order)
	require.NoError(t, err)
	_, err = m.AddEntitySet("Photos", photo)
	require.NoError(t, err)
	_, err = m.AddSingleton("Me", customer)
	require.NoError(t, err)

	customers.Bind("Orders", orders)
	customers.Bind("BestFriend", customers)
	return m
}

func testSource(t testing.TB, m *mapping.Model, name string) *mapping.NavigationSource {
	t.Helper()
	source, ok := m.NavigationSource(name)
	require.True(t, ok)
	return source
}

// testWriter creates the writer that writes into the returned buffer.
func testWriter(settings *Settings) (*Writer, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWriter(buf, settings), buf
}

func record(id int, properties ...*Property) *Record {
	return &Record{Properties: append([]*Property{{Name: "ID", Value: id}}, properties...)}
}

// recorder is the token writer that records the tokens.
type recorder struct {
	tokens []string
}

var _ TokenWriter = &recorder{}

func (r *recorder) StartObject() error {
	r.tokens = append(r.tokens, "{")
	return nil
}

func (r *recorder) EndObject() error {
	r.tokens = append(r.tokens, "}")
	return nil
}

func (r *recorder) StartArray() error {
	r.tokens = append(r.tokens, "[")
	return nil
}

func (r *recorder) EndArray() error {
	r.tokens = append(r.tokens, "]")
	return nil
}

func (r *recorder) Name(name string) error {
	r.tokens = append(r.tokens, "name:"+name)
	return nil
}

func (r *recorder) Value(value interface{}) error {
	r.tokens = append(r.tokens, fmt.Sprintf("value:%v", value))
	return nil
}

func (r *recorder) Err() error {
	return nil
}

func (r *recorder) Flush(io.Writer) error {
	return nil
}
