package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvaluate 测试典型问题的计算结果
func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantType string
		contains []string
		exact    string
	}{
		{
			name:     "voltage and current",
			question: "What is the power if voltage is 230V and current is 10A?",
			wantType: TypeComputeAndQuery,
			contains: []string{"2300.00 VA", "3.08 HP"},
			exact:    "Computed Power = 2300.00 VA, ≈ 3.08 HP",
		},
		{
			name:     "current without voltage",
			question: "current is 5 amps",
			wantType: TypeComputeAndQuery,
			contains: []string{"assuming 230V", "1150.00 VA"},
			exact:    "No voltage provided - assuming 230V (single-phase)\nComputed S = V x I = 1150.00 VA ≈ 1.54 HP",
		},
		{
			name:     "watts to hp",
			question: "convert 1000 watts to hp",
			wantType: TypeComputeOnly,
			exact:    "1000.00 Watts = 1.34 HP",
		},
		{
			name:     "hp to watts",
			question: "5 hp to watts",
			wantType: TypeComputeOnly,
			exact:    "5.00 HP = 3730.00 Watts",
		},
		{
			name:     "kilowatts to horsepower",
			question: "How many horsepower is 2 kW?",
			wantType: TypeComputeOnly,
			exact:    "2000.00 Watts = 2.68 HP",
		},
		{
			name:     "volts and amps",
			question: "A 120 volt circuit draws 15 amps",
			wantType: TypeComputeAndQuery,
			exact:    "Computed Power = 1800.00 VA, ≈ 2.41 HP",
		},
		{
			name:     "hp attached to number",
			question: "10hp motor in watts",
			wantType: TypeComputeOnly,
			exact:    "10.00 HP = 7460.00 Watts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.question)
			assert.Equal(t, tt.wantType, res.Type)
			require.NotNil(t, res.Result)
			for _, s := range tt.contains {
				assert.Contains(t, *res.Result, s)
			}
			if tt.exact != "" {
				assert.Equal(t, tt.exact, *res.Result)
			}
		})
	}
}

// TestEvaluateNone 测试无法计算的问题
func TestEvaluateNone(t *testing.T) {
	questions := []string{
		"hello world",
		"",
		"What size wire for 30 hp?",
		"Section 2.0 requirements",
		"What current rating is needed for a 230 volt circuit?",
		"What is the current for 2.0 section at 230 volts?",
	}

	for _, q := range questions {
		res := Evaluate(q)
		assert.Equal(t, TypeNone, res.Type, q)
		assert.Nil(t, res.Result, q)
		assert.Equal(t, "", res.Text())
	}
}

// TestEvaluateZeroValues 测试零值同样参与计算
func TestEvaluateZeroValues(t *testing.T) {
	res := Evaluate("0 volts and 10 amps")
	assert.Equal(t, TypeComputeAndQuery, res.Type)
	assert.Equal(t, "Computed Power = 0.00 VA, ≈ 0.00 HP", res.Text())

	res = Evaluate("current of 0 amps")
	assert.Equal(t, TypeComputeAndQuery, res.Type)
	assert.Contains(t, res.Text(), "0.00 VA")
}

// TestParse 测试电气量识别
func TestParse(t *testing.T) {
	t.Run("ampere unit after number", func(t *testing.T) {
		q := Parse("230 volt supply with 10A load")
		assert.True(t, q.Quantities.HasCurrent)
		assert.Equal(t, 10.0, q.Quantities.Current)

		q = Parse("12.5 a branch")
		assert.True(t, q.Quantities.HasCurrent)
		assert.Equal(t, 12.5, q.Quantities.Current)
	})

	t.Run("current word alone is not a value", func(t *testing.T) {
		q := Parse("What current rating is needed for a 230 volt circuit?")
		assert.True(t, q.Quantities.HasVoltage)
		assert.False(t, q.Quantities.HasCurrent)
	})

	t.Run("current takes last number after voltage", func(t *testing.T) {
		q := Parse("230 volts, 3 phases, 12 amps")
		assert.Equal(t, []float64{230, 3, 12}, q.Numbers)
		assert.True(t, q.Quantities.HasVoltage)
		assert.Equal(t, 230.0, q.Quantities.Voltage)
		assert.Equal(t, 12.0, q.Quantities.Current)
	})

	t.Run("current takes first number without voltage", func(t *testing.T) {
		q := Parse("12 amps for 3 motors")
		assert.False(t, q.Quantities.HasVoltage)
		assert.Equal(t, 12.0, q.Quantities.Current)
	})

	t.Run("kw scales power", func(t *testing.T) {
		q := Parse("1.5 kw load")
		assert.True(t, q.Quantities.HasPower)
		assert.Equal(t, 1500.0, q.Quantities.Power)
	})

	t.Run("horsepower tag suppresses power", func(t *testing.T) {
		q := Parse("5 horsepower in watts")
		assert.False(t, q.Quantities.HasPower)
	})

	t.Run("decimal numbers", func(t *testing.T) {
		q := Parse("2.5 and 10. and 7")
		assert.Equal(t, []float64{2.5, 10, 7}, q.Numbers)
	})

	t.Run("lower-cased", func(t *testing.T) {
		q := Parse("VOLTAGE 110")
		assert.Equal(t, "voltage 110", q.Text)
		assert.True(t, q.Quantities.HasVoltage)
	})
}

// TestRuleOrder 测试规则优先级
func TestRuleOrder(t *testing.T) {
	names := make([]string, len(Rules))
	for i, r := range Rules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"apparent-power",
		"apparent-power-default-voltage",
		"watts-to-hp",
		"hp-to-watts",
	}, names)

	// 同时满足电压电流与瓦特换算时，电压电流优先
	res := Evaluate("230 volts 10 amps convert to watts hp")
	assert.Equal(t, TypeComputeAndQuery, res.Type)
	assert.Contains(t, res.Text(), "2300.00 VA")
}

// TestRules 单独测试每条规则
func TestRules(t *testing.T) {
	t.Run("apparent-power", func(t *testing.T) {
		r, ok := RuleByName("apparent-power")
		require.True(t, ok)

		q := Question{Quantities: Quantities{Voltage: 100, Current: 2, HasVoltage: true, HasCurrent: true}}
		assert.True(t, r.Match(q))
		assert.Equal(t, "Computed Power = 200.00 VA, ≈ 0.27 HP", r.Compute(q))

		assert.False(t, r.Match(Question{Quantities: Quantities{HasCurrent: true}}))
	})

	t.Run("apparent-power-default-voltage", func(t *testing.T) {
		r, ok := RuleByName("apparent-power-default-voltage")
		require.True(t, ok)

		q := Question{Quantities: Quantities{Current: 1, HasCurrent: true}}
		assert.True(t, r.Match(q))
		assert.Contains(t, r.Compute(q), "230.00 VA")
	})

	t.Run("watts-to-hp", func(t *testing.T) {
		r, ok := RuleByName("watts-to-hp")
		require.True(t, ok)

		q := Question{Text: "746 watts in horse", Quantities: Quantities{Power: 746, HasPower: true}}
		assert.True(t, r.Match(q))
		assert.Equal(t, "746.00 Watts = 1.00 HP", r.Compute(q))

		assert.False(t, r.Match(Question{Text: "746 watts", Quantities: Quantities{Power: 746, HasPower: true}}))
	})

	t.Run("hp-to-watts", func(t *testing.T) {
		r, ok := RuleByName("hp-to-watts")
		require.True(t, ok)

		assert.True(t, r.Match(Question{Text: "2 hp", Numbers: []float64{2}}))
		assert.False(t, r.Match(Question{Text: "2 hp wire", Numbers: []float64{2}}))
		assert.Equal(t, "2.00 HP = 1492.00 Watts", r.Compute(Question{Numbers: []float64{2}}))
	})

	_, ok := RuleByName("unknown")
	assert.False(t, ok)
}
