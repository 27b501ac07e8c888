package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// VoucherCursor is the position of the last voucher on a page. Vouchers are
// listed by date desc, then fiscal year desc, then sequence desc, then number desc.
// The number breaks ties between series that share a sequence.
type VoucherCursor struct {
	Date       time.Time
	FiscalYear int
	Sequence   int
	Number     string
}

// Encode renders the cursor as an opaque token.
func (c VoucherCursor) Encode() string {
	return EncodeMultiFieldToken(
		c.Date.Format(dateFormat),
		strconv.Itoa(c.FiscalYear),
		strconv.Itoa(c.Sequence),
		c.Number,
	)
}

// After reports whether a voucher at (date, fiscalYear, sequence, number) sorts after
// the cursor, i.e. belongs on a later page.
func (c VoucherCursor) After(date time.Time, fiscalYear, sequence int, number string) bool {
	if !date.Equal(c.Date) {
		return date.Before(c.Date)
	}
	if fiscalYear != c.FiscalYear {
		return fiscalYear < c.FiscalYear
	}
	if sequence != c.Sequence {
		return sequence < c.Sequence
	}
	return number < c.Number
}

// DecodeVoucherCursor parses a token produced by VoucherCursor.Encode.
func DecodeVoucherCursor(token string) (VoucherCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return VoucherCursor{}, err
	}
	if len(parts) < 4 {
		return VoucherCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	date, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return VoucherCursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	fy, err := strconv.Atoi(parts[1])
	if err != nil {
		return VoucherCursor{}, fmt.Errorf("invalid pagination token format (fiscal year): %w", err)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return VoucherCursor{}, fmt.Errorf("invalid pagination token format (sequence): %w", err)
	}
	// A prefix may itself contain the separator.
	number := strings.Join(parts[3:], "|")
	return VoucherCursor{Date: date, FiscalYear: fy, Sequence: seq, Number: number}, nil
}
