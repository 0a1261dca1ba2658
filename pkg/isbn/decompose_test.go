package isbn

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"9780802130204", []string{"978", "0", "8021", "3020", "4"}},
		{"9780140023466", []string{"978", "0", "14", "002346", "6"}},
		{"9780395363416", []string{"978", "0", "395", "36341", "6"}},
		{"9783423214346", []string{"978", "3", "423", "21434", "6"}},
		{"9789295055124", []string{"978", "92", "95055", "12", "4"}},
		{"9789070002343", []string{"978", "90", "70002", "34", "3"}},
		{"9789521099816", []string{"978", "952", "10", "9981", "6"}},
		{"9788889637418", []string{"978", "88", "89637", "41", "8"}},
		{"9787020002207", []string{"978", "7", "02", "000220", "7"}},
		{"9791090636071", []string{"979", "10", "90636", "07", "1"}},
	}

	table := DefaultRangeTable()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := Decompose(tt.raw, table)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, id.Components()); diff != "" {
				t.Errorf("components mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.raw, id.Digits())
		})
	}
}

// Every low and high bound of every rule in the embedded table decomposes and
// reassembles to the same digits.
func TestDecomposeEveryRuleBound(t *testing.T) {
	table := DefaultRangeTable()
	checked := 0
	for _, prefix := range table.Prefixes() {
		for _, group := range table.Groups(prefix) {
			entry, _ := table.Group(prefix, group)
			for _, r := range entry.Rules {
				pubLen := 9 - len(group) - r.Length
				if pubLen < 1 {
					t.Fatalf("%s-%s rule %+v leaves no publication digit", prefix, group, r)
				}
				for _, bound := range []int{r.Low, r.High} {
					body := prefix + group + fmt.Sprintf("%0*d", r.Length, bound) + strings.Repeat("7", pubLen)
					raw := body + string(checkDigit13(body))

					id, err := Decompose(raw, table)
					if err != nil {
						t.Fatalf("%s (%s-%s rule %+v): %v", raw, prefix, group, r, err)
					}
					if id.Digits() != raw || id.Group() != group {
						t.Fatalf("%s decomposed to %v", raw, id.Components())
					}
					checked++
				}
			}
		}
	}
	assert.Greater(t, checked, 2000)
}

func TestDecomposeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
	}{
		{"unknown prefix", "9771234567898", ErrUnrecognisedPrefix},
		{"unknown group", "9799999999983", ErrUnrecognisedGroup},
		{"unallocated registrant range", "9781060000001", ErrUnrecognisedRegistrant},
		{"group without rules", "9789990200003", ErrUnrecognisedRegistrant},
		{"short", "978080213020", ErrInvalidFormat},
		{"non-digit", "978080213020X", ErrInvalidFormat},
	}

	table := DefaultRangeTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(tt.raw, table)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecomposeFirstMatchingRuleWins(t *testing.T) {
	doc := `{"978": {"0": {"agency": "x", "rules": [2, 0, 99, 3, 0, 999]}}}`
	table, err := LoadRangeTable(strings.NewReader(doc))
	require.NoError(t, err)

	id, err := Decompose("9780802130204", table)
	require.NoError(t, err)
	assert.Equal(t, "80", id.Registrant())
}

func TestDecomposeKeepsPublicationDigit(t *testing.T) {
	// Seven registrant digits after a one-digit group leave a single publication digit.
	doc := `{"978": {"0": {"agency": "x", "rules": [7, 0, 9999999]}}}`
	table, err := LoadRangeTable(strings.NewReader(doc))
	require.NoError(t, err)

	id, err := Decompose("9780802130204", table)
	require.NoError(t, err)
	assert.Equal(t, "8021302", id.Registrant())
	assert.Equal(t, "0", id.Publication())
}

func TestTo13(t *testing.T) {
	got, err := To13("0802130208")
	require.NoError(t, err)
	assert.Equal(t, "9780802130204", got)

	got, err = To13("014005510X")
	require.NoError(t, err)
	assert.Equal(t, "9780140055108", got)

	_, err = To13("080213020")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
