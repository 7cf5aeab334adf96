package models

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
)

// Price is an optional numeric price. The zero value is "absent", which is
// distinct from a present price of 0.
type Price struct {
	Amount float64
	Valid  bool
}

// SomePrice returns a present Price holding v.
func SomePrice(v float64) Price {
	return Price{Amount: v, Valid: true}
}

// NoPrice returns an absent Price.
func NoPrice() Price {
	return Price{}
}

// Less orders prices ascending with absent prices after every present one.
func (p Price) Less(o Price) bool {
	if !p.Valid {
		return false
	}
	if !o.Valid {
		return true
	}
	return p.Amount < o.Amount
}

// String formats a present price without trailing zeros and an absent one as "".
func (p Price) String() string {
	if !p.Valid {
		return ""
	}
	return strconv.FormatFloat(p.Amount, 'f', -1, 64)
}

// MarshalJSON encodes an absent price as null.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Amount)
}

// UnmarshalJSON accepts a number or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Price{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = SomePrice(v)
	return nil
}

// Value implements driver.Valuer so absent prices are stored as NULL.
func (p Price) Value() (driver.Value, error) {
	if !p.Valid {
		return nil, nil
	}
	return p.Amount, nil
}
