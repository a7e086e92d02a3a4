package postgres

import (
	"github.com/oklog/ulid/v2"

	"github.com/iho/bankledger/internal/usecase"
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// UTRGenerator issues unique transaction references. ulid.Make draws from
// a process-wide monotonic source, so references issued in the same
// millisecond still sort in issue order.
type UTRGenerator struct{}

// NewUTRGenerator creates a new UTRGenerator.
func NewUTRGenerator() *UTRGenerator {
	return &UTRGenerator{}
}

// NewUTR returns a reference such as UTR01J9Z3K8W6Q7R2S4T5V6X7Y8Z9.
func (g *UTRGenerator) NewUTR() string {
	return usecase.UTRPrefix + ulid.Make().String()
}
