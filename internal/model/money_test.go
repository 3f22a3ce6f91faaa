package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	cases := map[string]Cents{
		"50":     5000,
		"50.5":   5050,
		"50.00":  5000,
		"0.99":   99,
		"-12.30": -1230,
	}
	for in, want := range cases {
		got, err := ParseCents(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseCents_Rejects(t *testing.T) {
	for _, in := range []string{"", ".5", "1.234", "abc", "1e3", "12.a"} {
		_, err := ParseCents(in)
		assert.Error(t, err, in)
	}
}

func TestParseCents_Range(t *testing.T) {
	top, err := ParseCents("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Cents(math.MaxInt64), top)

	for _, in := range []string{"184467440737095517", "92233720368547758.08", "92233720368547759", "-184467440737095517"} {
		_, err := ParseCents(in)
		assert.ErrorContains(t, err, "out of range", in)
	}

	var c Cents
	assert.Error(t, json.Unmarshal([]byte(`"184467440737095517"`), &c))
	assert.Equal(t, Cents(0), c)
}

func TestCents_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Cents `json:"total"`
	}{Total: 5000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":50.00}`, string(b))

	var req CreateServiceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","category":"c","base_price":75.5}`), &req))
	assert.Equal(t, Cents(7550), req.BasePrice)
}
