package mapping

import (
	"time"

	"github.com/google/uuid"
)

// Product is the testing entity model.
type Product struct {
	ID         int
	Name       string
	Price      float64   `odata:"type=Edm.Decimal"`
	Created    time.Time `odata:"notnull"`
	Tags       []string
	Dimensions *Dimensions
	Category   *Category
	Parts      []*Part `odata:"contained"`
	Secret     string  `odata:"-"`
	unexported int
}

// Dimensions is the testing complex model.
type Dimensions struct {
	Width  float32
	Height float32
}

// Category is the testing entity with custom entity set name.
type Category struct {
	Code     uuid.UUID `odata:"key;name=code"`
	Products []*Product
}

// EntitySetName implements EntitySetNamer.
func (c *Category) EntitySetName() string {
	return "Categories"
}

// Part is the testing contained entity.
type Part struct {
	ID     int64
	Serial string
}

// Photo is the testing media entity.
type Photo struct {
	ID      int
	Content []byte `odata:"stream"`
}

// HasStream implements MediaEntity.
func (p *Photo) HasStream() bool {
	return true
}

// Invalid is the testing model with unsupported field type.
type Invalid struct {
	ID      int
	Channel chan int
}

func testingTypes() (*StructType, *StructType, *StructType) {
	address := NewComplexType("NS", "Address").MustAddProperties(
		Primitive("Street", "Edm.String"),
		Primitive("City", "Edm.String"),
	)
	customer := NewEntityType("NS", "Customer", "ID")
	order := NewEntityType("NS", "Order", "ID").MustAddProperties(
		Primitive("ID", "Edm.Int32").NotNull(),
		Primitive("Total", "Edm.Decimal"),
		Navigation("Customer", customer),
	)
	customer.MustAddProperties(
		Primitive("ID", "Edm.Int32").NotNull(),
		Primitive("Name", "Edm.String"),
		Complex("Address", address),
		NavigationCollection("Orders", order),
		NavigationCollection("Notes", order).Contained(),
	)
	return address, customer, order
}
