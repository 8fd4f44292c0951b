// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package keel

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// DecimalPlaces is the number of fractional decimal digits of a Decimal.
const DecimalPlaces = 18

const (
	ErrDecimalOverflow   = ConstError("decimal overflow")
	ErrDivisionByZero    = ConstError("division by zero")
	ErrNegativeAmount    = ConstError("negative amount")
	ErrInvalidDecimal    = ConstError("invalid decimal")
	decimalEncodedLength = 33
)

// Decimal is a signed fixed-point number with 18 decimal places. The
// magnitude is held in 256 bits; all arithmetic is overflow checked.
type Decimal struct {
	neg bool
	abs uint256.Int
}

var decimalOne = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(DecimalPlaces))

// NewDecimal creates a decimal representing the given whole number.
func NewDecimal(v int64) Decimal {
	var res Decimal
	if v < 0 {
		res.neg = true
		res.abs.SetUint64(uint64(-v))
	} else {
		res.abs.SetUint64(uint64(v))
	}
	res.abs.Mul(&res.abs, decimalOne)
	return res
}

// DecimalFromAttos creates a non-negative decimal from its number of
// smallest units (10^-18).
func DecimalFromAttos(attos *uint256.Int) Decimal {
	var res Decimal
	res.abs.Set(attos)
	return res
}

// ParseDecimal parses the textual form produced by Decimal.String.
func ParseDecimal(s string) (Decimal, error) {
	var res Decimal
	text := s
	if strings.HasPrefix(text, "-") {
		res.neg = true
		text = text[1:]
	}
	whole, frac, hasFrac := strings.Cut(text, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if len(frac) > DecimalPlaces || (hasFrac && frac == "") {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if whole == "" {
		whole = "0"
	}
	wholeValue, err := parseDigits(whole)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if _, overflow := res.abs.MulOverflow(wholeValue, decimalOne); overflow {
		return Decimal{}, fmt.Errorf("%w: %q", ErrDecimalOverflow, s)
	}
	if frac != "" {
		fracValue, err := parseDigits(frac + strings.Repeat("0", DecimalPlaces-len(frac)))
		if err != nil {
			return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
		}
		if _, overflow := res.abs.AddOverflow(&res.abs, fracValue); overflow {
			return Decimal{}, fmt.Errorf("%w: %q", ErrDecimalOverflow, s)
		}
	}
	res.normalize()
	return res, nil
}

func parseDigits(s string) (*uint256.Int, error) {
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, ErrInvalidDecimal
		}
	}
	return uint256.FromDecimal(s)
}

// MustParseDecimal is like ParseDecimal but panics on invalid input. It is
// intended for constants.
func MustParseDecimal(s string) Decimal {
	res, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return res
}

// Attos returns the number of smallest units of a non-negative decimal.
func (d Decimal) Attos() (*uint256.Int, error) {
	if d.neg {
		return nil, fmt.Errorf("%w: %v", ErrNegativeAmount, d)
	}
	return d.abs.Clone(), nil
}

func (d Decimal) IsZero() bool {
	return d.abs.IsZero()
}

func (d Decimal) IsNegative() bool {
	return d.neg
}

func (d Decimal) IsPositive() bool {
	return !d.neg && !d.abs.IsZero()
}

func (d Decimal) Neg() Decimal {
	d.neg = !d.neg
	d.normalize()
	return d
}

func (d Decimal) Cmp(o Decimal) int {
	switch {
	case d.neg && !o.neg:
		return -1
	case !d.neg && o.neg:
		return 1
	case d.neg:
		return o.abs.Cmp(&d.abs)
	default:
		return d.abs.Cmp(&o.abs)
	}
}

func (d Decimal) Equal(o Decimal) bool {
	return d.Cmp(o) == 0
}

func (d Decimal) Add(o Decimal) (Decimal, error) {
	var res Decimal
	if d.neg == o.neg {
		if _, overflow := res.abs.AddOverflow(&d.abs, &o.abs); overflow {
			return Decimal{}, ErrDecimalOverflow
		}
		res.neg = d.neg
	} else if d.abs.Cmp(&o.abs) >= 0 {
		res.abs.Sub(&d.abs, &o.abs)
		res.neg = d.neg
	} else {
		res.abs.Sub(&o.abs, &d.abs)
		res.neg = o.neg
	}
	res.normalize()
	return res, nil
}

func (d Decimal) Sub(o Decimal) (Decimal, error) {
	return d.Add(o.Neg())
}

func (d Decimal) Mul(o Decimal) (Decimal, error) {
	var res Decimal
	if _, overflow := res.abs.MulDivOverflow(&d.abs, &o.abs, decimalOne); overflow {
		return Decimal{}, ErrDecimalOverflow
	}
	res.neg = d.neg != o.neg
	res.normalize()
	return res, nil
}

func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.abs.IsZero() {
		return Decimal{}, ErrDivisionByZero
	}
	var res Decimal
	if _, overflow := res.abs.MulDivOverflow(&d.abs, decimalOne, &o.abs); overflow {
		return Decimal{}, ErrDecimalOverflow
	}
	res.neg = d.neg != o.neg
	res.normalize()
	return res, nil
}

func (d *Decimal) normalize() {
	if d.abs.IsZero() {
		d.neg = false
	}
}

func (d Decimal) String() string {
	var whole, frac uint256.Int
	whole.Div(&d.abs, decimalOne)
	frac.Mod(&d.abs, decimalOne)
	res := whole.Dec()
	if !frac.IsZero() {
		digits := frac.Dec()
		digits = strings.Repeat("0", DecimalPlaces-len(digits)) + digits
		res += "." + strings.TrimRight(digits, "0")
	}
	if d.neg {
		return "-" + res
	}
	return res
}

func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalText(data []byte) error {
	res, err := ParseDecimal(string(data))
	if err != nil {
		return err
	}
	*d = res
	return nil
}

// EncodeRLP encodes the decimal as a fixed 33 byte string: a sign byte
// followed by the big-endian magnitude.
func (d Decimal) EncodeRLP(w io.Writer) error {
	var buf [decimalEncodedLength]byte
	if d.neg {
		buf[0] = 1
	}
	magnitude := d.abs.Bytes32()
	copy(buf[1:], magnitude[:])
	return rlp.Encode(w, buf[:])
}

func (d *Decimal) DecodeRLP(s *rlp.Stream) error {
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(data) != decimalEncodedLength || data[0] > 1 {
		return fmt.Errorf("%w: invalid encoding", ErrInvalidDecimal)
	}
	d.abs.SetBytes(data[1:])
	d.neg = data[0] == 1
	d.normalize()
	return nil
}
