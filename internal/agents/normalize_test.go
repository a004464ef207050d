package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"JOHN DOE", "JOHN DOE"},
		{"john doe", "JOHN DOE"},
		{"  JOHN   DOE  ", "JOHN DOE"},
		{"JOHN DOE 2", "JOHN DOE"},
		{"JOHN DOE (MORONI)", "JOHN DOE"},
		{"JOHN-DOE", "JOHNDOE"},
		{"M'MADI ALI", "MMADI ALI"},
		{"AÏCHA SAÏD", "ACHA SAD"},
		{"", ""},
		{"123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeName(tc.in))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	for _, in := range []string{"John Doe (Agence 3)", "FATIMA  ABDOU 12", "A.B. SAID"} {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), "input %q", in)
	}
}

func TestNormalizeNameUnifiesVariants(t *testing.T) {
	variants := []string{"JOHN  DOE 2", "John Doe (Moroni)", "JOHN DOE."}
	for _, v := range variants {
		assert.Equal(t, "JOHN DOE", NormalizeName(v))
	}
	// Hyphenated and run-together spellings collapse to the same key.
	assert.Equal(t, NormalizeName("JOHNDOE"), NormalizeName("JOHN-DOE"))
}
