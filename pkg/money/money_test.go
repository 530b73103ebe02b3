package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	a, err := Parse("199.99")
	require.NoError(t, err)
	assert.Equal(t, FromPaise(19999), a)
	assert.Equal(t, "199.99", a.String())

	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestJSON_AcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":199.5,"b":"2000","c":null}`), &v))
	assert.Equal(t, FromPaise(19950), v.A)
	assert.Equal(t, FromRupees(2000), v.B)
	assert.Equal(t, Zero, v.C)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":199.50,"b":2000.00,"c":0.00}`, string(out))
}

func TestPercentAndScaleRoundToPaisa(t *testing.T) {
	assert.Equal(t, FromPaise(9990), FromRupees(999).Percent(decimal.NewFromInt(10)))
	assert.Equal(t, FromPaise(3), FromPaise(5).Scale(decimal.RequireFromString("0.65")))
	assert.Equal(t, FromRupees(650), FromRupees(1000).Scale(decimal.RequireFromString("0.65")))
}

func TestFloatEdgesDoNotDrift(t *testing.T) {
	var total Amount
	for i := 0; i < 10; i++ {
		total += FromFloat(0.1)
	}
	assert.Equal(t, FromRupees(1), total)
	assert.Equal(t, FromRupees(1), Sum(FromPaise(50), FromPaise(30), FromPaise(20)))
}
