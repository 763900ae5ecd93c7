package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Domain errors returned by the store
var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Record is a single product entry
type Record struct {
	ID    int     `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// IsEmpty reports whether the patch carries no fields
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil
}

// IDPolicy controls how unparseable ids are treated
type IDPolicy string

const (
	// IDPolicyLenient treats an unparseable id as one that matches nothing
	IDPolicyLenient IDPolicy = "lenient"
	// IDPolicyStrict rejects a non-numeric id with ErrInvalidInput
	IDPolicyStrict IDPolicy = "strict"
)

// ParseIDPolicy converts a config string to an IDPolicy
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDPolicyLenient:
		return IDPolicyLenient, nil
	case IDPolicyStrict:
		return IDPolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown id policy %q", s)
	}
}

// ID is a parsed record id. A zero ID with Valid=false matches no record.
type ID struct {
	Value int
	Valid bool
}

// ParseID parses a path segment into an ID according to policy. Any numeric
// literal is accepted, so "2", "2.0" and "2e0" are the same id; a number that
// is not a whole value matches nothing. Under the lenient policy a
// non-numeric id yields an invalid ID and no error.
func ParseID(raw string, policy IDPolicy) (ID, error) {
	s := strings.TrimSpace(raw)
	if v, err := strconv.Atoi(s); err == nil {
		return ID{Value: v, Valid: true}, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		if policy == IDPolicyStrict {
			return ID{}, fmt.Errorf("%w: id %q is not a number", ErrInvalidInput, raw)
		}
		return ID{}, nil
	}
	if f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return ID{}, nil
	}
	return ID{Value: int(f), Valid: true}, nil
}

// Matches reports whether r carries this id
func (id ID) Matches(r Record) bool {
	return id.Valid && r.ID == id.Value
}

// String renders the id for logs
func (id ID) String() string {
	if !id.Valid {
		return "invalid"
	}
	return strconv.Itoa(id.Value)
}

func cloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	copy(out, in)
	return out
}
