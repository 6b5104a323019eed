package numeric

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_StringAndNumber(t *testing.T) {
	var got struct {
		A Value `json:"a"`
		B Value `json:"b"`
		C Value `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12.5","b":7,"c":null}`), &got))
	assert.Equal(t, Value("12.5"), got.A)
	assert.Equal(t, Value("7"), got.B)
	assert.Equal(t, Value(""), got.C)
}

func TestMarshal_AlwaysString(t *testing.T) {
	b, err := json.Marshal(Value("42"))
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(b))
}

func TestDecimal_CoercesGarbageToZero(t *testing.T) {
	assert.True(t, Value("").Decimal().IsZero())
	assert.True(t, Value("abc").Decimal().IsZero())
	assert.True(t, Value("  ").Decimal().IsZero())
	assert.Equal(t, "100.25", Value(" 100.25 ").Decimal().String())
}

func TestDenominator_NeverZero(t *testing.T) {
	one := decimal.NewFromInt(1)
	assert.True(t, Value("").Denominator().Equal(one))
	assert.True(t, Value("0").Denominator().Equal(one))
	assert.True(t, Value("x").Denominator().Equal(one))
	assert.Equal(t, "2", Value("2").Denominator().String())
}

func TestFormatArea_ThreeDecimals(t *testing.T) {
	assert.Equal(t, "50.000", FormatArea(decimal.NewFromInt(50)))
	assert.Equal(t, "15.125", FormatArea(decimal.RequireFromString("15.125")))
	assert.Equal(t, "0.334", FormatArea(decimal.RequireFromString("0.3335")))
}
