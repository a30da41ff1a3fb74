package models

import "time"

// Transaction is one raw sales line as read from the transaction files.
// A zero Date means the source value did not parse; the row stays in the
// base set but is skipped by date-dependent computations.
type Transaction struct {
	Date     time.Time
	SellerID string
	StoreID  string
	Quantity float64
	Price    float64
}

// Seller maps a seller id to its display name.
type Seller struct {
	ID   string
	Name string
}

// Store maps a store id to its display name.
type Store struct {
	ID   string
	Name string
}

// TargetRecord is one revenue goal line from the targets file, already
// bucketed to a month.
type TargetRecord struct {
	StoreID string
	Month   string
	Amount  float64
}

// Sale is an enriched transaction: reference names joined in (empty when
// the left join found no match) plus the derived fields.
type Sale struct {
	Transaction
	Seller  string
	Store   string
	Month   string // "2006-01", empty when Date is unset
	Revenue float64
	Target  float64
}

// Criteria is the full set of filter predicates. Zero values mean "no
// constraint"; all active predicates combine with AND.
type Criteria struct {
	Store     string
	Month     string
	Seller    string
	Search    string
	StartDate time.Time
	EndDate   time.Time
}

// IsZero reports whether no predicate is active, i.e. the identity filter.
func (c Criteria) IsZero() bool {
	return c.Store == "" && c.Month == "" && c.Seller == "" && c.Search == "" &&
		c.StartDate.IsZero() && c.EndDate.IsZero()
}
