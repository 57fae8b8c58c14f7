package core

import (
	"errors"
	"fmt"
)

// Category identifiers as stored in the ledger's parametre column.
const (
	EconomicCrisis         Category = "crise_economique"
	Terrorism              Category = "terrorisme"
	InternationalTensions  Category = "tensions_internationales"
	NuclearThreat          Category = "menace_nucleaire"
	Protests               Category = "manifestations"
	Wars                   Category = "guerres"
	EnvironmentalDisasters Category = "catastrophes_environmentales"
	PoliticalInstability   Category = "instabilite_politique"
)

// MonthsPerYear is the fixed width of every aggregation row.
const MonthsPerYear = 12

type (
	Category string

	// Cell is the aggregated result for one (category, month) pair.
	// A month without events has AverageSeverity 0 and EventCount 0;
	// only EventCount tells it apart from events whose mean is zero.
	Cell struct {
		AverageSeverity float64
		EventCount      int
	}

	// Event is one ledger row. Severity is nil when the source left it empty.
	Event struct {
		Category        Category
		Severity        *float64
		PublicationDate string
	}

	// Matrix maps each category to its 12 monthly cells, index i being month i+1.
	Matrix map[Category][]Cell
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidMonth    = errors.New("invalid month")
)

var allCategories = []Category{
	EconomicCrisis,
	Terrorism,
	InternationalTensions,
	NuclearThreat,
	Protests,
	Wars,
	EnvironmentalDisasters,
	PoliticalInstability,
}

// Categories returns the tracked categories in their stable display order.
// The returned slice is a copy.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Validate reports whether c belongs to the fixed category set.
func (c Category) Validate() error {
	for _, known := range allCategories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

func (c Category) String() string {
	return string(c)
}

// ValidateMonth checks that month is a calendar month number.
func ValidateMonth(month int) error {
	if month < 1 || month > MonthsPerYear {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	return nil
}

// NewMatrix allocates a zeroed matrix for the given categories.
func NewMatrix(categories []Category) Matrix {
	m := make(Matrix, len(categories))
	for _, c := range categories {
		m[c] = make([]Cell, MonthsPerYear)
	}
	return m
}

// Cell returns the cell for category c and calendar month (1-12).
func (m Matrix) Cell(c Category, month int) (Cell, bool) {
	row, ok := m[c]
	if !ok || month < 1 || month > len(row) {
		return Cell{}, false
	}
	return row[month-1], true
}

// TotalEvents sums the event counts of one category across all months.
func (m Matrix) TotalEvents(c Category) int {
	total := 0
	for _, cell := range m[c] {
		total += cell.EventCount
	}
	return total
}
