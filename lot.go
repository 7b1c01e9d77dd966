package lotbook

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lot is a single recorded trade for one symbol.
//
// Quantity, Price and Fee are expected to be positive (or zero for Price and
// Fee) but a Lot may hold anything: the ledger normalizes them on read.
type Lot struct {
	ID        string    // opaque and immutable, assigned at creation.
	Symbol    string    // tradable symbol, e.g. AAPL or BHP.AX.
	Portfolio string    // optional portfolio the lot belongs to.
	Side      Side      // Buy or Sell.
	Quantity  float64   // units traded.
	Price     float64   // execution price per unit.
	Fee       float64   // transaction cost.
	Time      time.Time // execution time, used for ordering and display.
	Memo      string
}

// NewLot creates a sanitized Lot with a fresh ID.
func NewLot(side Side, symbol string, quantity, price, fee float64, at time.Time) Lot {
	l := Lot{
		ID:       uuid.NewString(),
		Symbol:   strings.TrimSpace(symbol),
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
		Time:     at,
	}
	l, _ = l.Normalized()
	return l
}

// Normalized returns a copy of the lot where every non-finite or negative
// numeric field is replaced by 0. The boolean reports whether any field changed.
func (l Lot) Normalized() (Lot, bool) {
	q, p, f := sanitize(l.Quantity), sanitize(l.Price), sanitize(l.Fee)
	changed := !same(q, l.Quantity) || !same(p, l.Price) || !same(f, l.Fee)
	l.Quantity, l.Price, l.Fee = q, p, f
	return l, changed
}

// Amount returns the gross value of the lot, quantity times price, fee excluded.
func (l Lot) Amount() float64 { return l.Quantity * l.Price }

// Validate checks what the ledger tolerates but an entry form should not:
// a positive quantity, a non-negative price and fee, a symbol and a side.
func (l Lot) Validate() error {
	var errs []string
	if l.Symbol == "" {
		errs = append(errs, "missing symbol")
	}
	if l.Side != Buy && l.Side != Sell {
		errs = append(errs, fmt.Sprintf("invalid side %d", int(l.Side)))
	}
	if !(l.Quantity > 0) || math.IsInf(l.Quantity, 0) {
		errs = append(errs, fmt.Sprintf("quantity must be positive, got %v", l.Quantity))
	}
	if !(l.Price >= 0) || math.IsInf(l.Price, 0) {
		errs = append(errs, fmt.Sprintf("price must be non-negative, got %v", l.Price))
	}
	if !(l.Fee >= 0) || math.IsInf(l.Fee, 0) {
		errs = append(errs, fmt.Sprintf("fee must be non-negative, got %v", l.Fee))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid lot %q: %s", l.ID, strings.Join(errs, ", "))
	}
	return nil
}

// sanitize maps any non-finite or negative value to 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// same is == where NaN equals NaN.
func same(a, b float64) bool { return a == b || (math.IsNaN(a) && math.IsNaN(b)) }

// MarshalJSON writes the lot with a stable field order, so that a lots file
// diffs nicely.
func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", l.ID)
	w.Append("time", l.Time.Format(time.RFC3339Nano))
	w.Append("symbol", l.Symbol)
	w.Optional("portfolio", l.Portfolio)
	w.Append("side", l.Side)
	w.Append("quantity", finite(l.Quantity))
	w.Append("price", finite(l.Price))
	w.Optional("fee", finite(l.Fee))
	w.Optional("memo", l.Memo)
	return w.MarshalJSON()
}

// finite makes v encodable in JSON.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// UnmarshalJSON reads a lot permissively: numeric fields may be missing, null,
// strings or negative, they are normalized to 0 instead of failing. Only the
// side and the time must be readable.
func (l *Lot) UnmarshalJSON(b []byte) error {
	var jobj map[string]any
	if err := json.Unmarshal(b, &jobj); err != nil {
		return err
	}

	var v Lot
	v.ID, _ = jobj["id"].(string)
	v.Symbol, _ = jobj["symbol"].(string)
	v.Portfolio, _ = jobj["portfolio"].(string)
	v.Memo, _ = jobj["memo"].(string)

	side, _ := jobj["side"].(string)
	s, err := ParseSide(side)
	if err != nil {
		return fmt.Errorf("lot %q: %w", v.ID, err)
	}
	v.Side = s

	if jt, ok := jobj["time"]; ok && jt != nil {
		t, err := decodeTime(jt)
		if err != nil {
			return fmt.Errorf("lot %q: %w", v.ID, err)
		}
		v.Time = t
	}

	v.Quantity = decodeNumber(jobj["quantity"])
	v.Price = decodeNumber(jobj["price"])
	v.Fee = decodeNumber(jobj["fee"])

	*l, _ = v.Normalized()
	return nil
}

// decodeNumber converts a loosely typed json value into a number, 0 when it cannot.
func decodeNumber(jval any) float64 {
	switch v := jval.(type) {
	case float64:
		return sanitize(v)
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil {
			return 0
		}
		return sanitize(f)
	default:
		return 0
	}
}

// decodeTime accepts a time string or a number of milliseconds since epoch.
func decodeTime(jval any) (time.Time, error) {
	switch v := jval.(type) {
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case string:
		return ParseTime(v)
	default:
		return time.Time{}, fmt.Errorf("invalid time %v", jval)
	}
}

// timeLayouts are tried in order by ParseTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-1-2", // permissive, allows single-digit month/day.
}

// ParseTime parses an execution time. It accepts RFC 3339 timestamps and
// plain dates like "2025-7-1", interpreted at midnight UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q want RFC 3339 or format %q", s, "2006-1-2")
}
