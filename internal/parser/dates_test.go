package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperationDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"29/04/2025", time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC)},
		{"29/04/2025 17:45:59", time.Date(2025, 4, 29, 17, 45, 59, 0, time.UTC)},
		{"2025-Apr-29 17:45:59", time.Date(2025, 4, 29, 17, 45, 59, 0, time.UTC)},
		{"2025-04-29", time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC)},
		{"29-Apr-2025", time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseOperationDate(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseOperationDateDayFirst(t *testing.T) {
	// 03/04 is the 3rd of April, never March 4th.
	got, err := parseOperationDate("03/04/2025")
	require.NoError(t, err)
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestParseExcelSerialDate(t *testing.T) {
	got, err := parseExcelSerialDate("45776")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC), got)

	// Fractional part is the time of day.
	got, err = parseExcelSerialDate("45776.5")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())

	_, err = parseExcelSerialDate("0.5")
	assert.Error(t, err)
	_, err = parseExcelSerialDate("abc")
	assert.Error(t, err)
}

func TestParseOperationDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "Total", "29/13/2025"} {
		_, err := parseOperationDate(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestLooksLikeDateExcludesBareNumbers(t *testing.T) {
	assert.True(t, looksLikeDate("29/04/2025"))
	assert.False(t, looksLikeDate("45776"))
	assert.False(t, looksLikeDate("RIA1234567890"))
	assert.False(t, looksLikeDate(""))
}
