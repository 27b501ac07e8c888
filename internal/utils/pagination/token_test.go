package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherCursorRoundTrip(t *testing.T) {
	c := VoucherCursor{Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), FiscalYear: 2024, Sequence: 42, Number: "V-2024-00042"}

	decoded, err := DecodeVoucherCursor(c.Encode())
	require.NoError(t, err)
	assert.Equal(t, c, decoded)

	piped := VoucherCursor{Date: c.Date, FiscalYear: 2024, Sequence: 7, Number: "PV|A-2024-00007"}
	decoded, err = DecodeVoucherCursor(piped.Encode())
	require.NoError(t, err)
	assert.Equal(t, piped, decoded)
}

func TestVoucherCursorAfter(t *testing.T) {
	c := VoucherCursor{Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), FiscalYear: 2024, Sequence: 42, Number: "V-2024-00042"}

	assert.True(t, c.After(time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), 2024, 99, "V-2024-00099"), "older date is on a later page")
	assert.False(t, c.After(time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), 2024, 1, "V-2024-00001"), "newer date was already served")
	assert.True(t, c.After(c.Date, 2024, 41, "V-2024-00041"), "lower sequence on the same day comes next")
	assert.False(t, c.After(c.Date, 2024, 42, "V-2024-00042"), "the cursor row itself is excluded")
	assert.True(t, c.After(c.Date, 2023, 100, "V-2023-00100"), "earlier fiscal year comes next")
}

func TestVoucherCursorAfterBreaksSequenceTiesByNumber(t *testing.T) {
	c := VoucherCursor{Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), FiscalYear: 2024, Sequence: 3, Number: "PV-2024-00003"}

	assert.True(t, c.After(c.Date, 2024, 3, "A-2024-00003"), "smaller number with the same sequence comes next")
	assert.False(t, c.After(c.Date, 2024, 3, "V-2024-00003"), "larger number with the same sequence was already served")
}

func TestDecodeVoucherCursorError(t *testing.T) {
	_, err := DecodeVoucherCursor("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeVoucherCursor(EncodeMultiFieldToken("2025-01-15", "2024", "1"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeVoucherCursor(EncodeMultiFieldToken("notadate", "2024", "1", "V-2024-00001"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	_, err = DecodeVoucherCursor(EncodeMultiFieldToken("2025-01-15", "x", "1", "V-2024-00001"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fiscal year")

	_, err = DecodeVoucherCursor(EncodeMultiFieldToken("2025-01-15", "2024", "x", "V-2024-00001"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sequence")
}

func TestEncodeMultiFieldToken(t *testing.T) {
	// Test with simple fields
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decodedFields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, fields, decodedFields, "Fields should match after decode")

	// When splitting an empty string with strings.Split, we get a slice with one empty string
	decodedEmpty, err := DecodeMultiFieldToken(EncodeMultiFieldToken())
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, decodedEmpty)

	// Pipes inside fields are not escaped
	decodedSpecial, err := DecodeMultiFieldToken(EncodeMultiFieldToken("field|with|pipes", "plain"))
	assert.NoError(t, err)
	assert.Len(t, decodedSpecial, 4, "Should split on all pipe characters")
}
