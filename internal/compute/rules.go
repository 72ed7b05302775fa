package compute

import "fmt"

// Rule 计算规则
type Rule struct {
	Name    string                  // 规则名称
	Type    string                  // 匹配后的结果类型
	Match   func(q Question) bool   // 适用条件
	Compute func(q Question) string // 计算并生成结果文本
}

// Rules 按优先级排列的计算规则，第一个匹配的规则生效
var Rules = []Rule{
	{
		Name: "apparent-power",
		Type: TypeComputeAndQuery,
		Match: func(q Question) bool {
			return q.Quantities.HasVoltage && q.Quantities.HasCurrent
		},
		Compute: func(q Question) string {
			va := q.Quantities.Voltage * q.Quantities.Current
			return fmt.Sprintf("Computed Power = %.2f VA, ≈ %.2f HP", va, va/WattsPerHP)
		},
	},
	{
		Name: "apparent-power-default-voltage",
		Type: TypeComputeAndQuery,
		Match: func(q Question) bool {
			return q.Quantities.HasCurrent && !q.Quantities.HasVoltage
		},
		Compute: func(q Question) string {
			va := DefaultVoltage * q.Quantities.Current
			return fmt.Sprintf(
				"No voltage provided - assuming %gV (single-phase)\nComputed S = V x I = %.2f VA ≈ %.2f HP",
				DefaultVoltage, va, va/WattsPerHP)
		},
	},
	{
		Name: "watts-to-hp",
		Type: TypeComputeOnly,
		Match: func(q Question) bool {
			return q.Quantities.HasPower && q.Contains("hp", "horse", "convert")
		},
		Compute: func(q Question) string {
			w := q.Quantities.Power
			return fmt.Sprintf("%.2f Watts = %.2f HP", w, w/WattsPerHP)
		},
	},
	{
		Name: "hp-to-watts",
		Type: TypeComputeOnly,
		Match: func(q Question) bool {
			return q.Contains("hp") && !q.Contains("wire")
		},
		Compute: func(q Question) string {
			hp := q.Numbers[0]
			return fmt.Sprintf("%.2f HP = %.2f Watts", hp, hp*WattsPerHP)
		},
	},
}

// RuleByName 按名称查找规则
func RuleByName(name string) (Rule, bool) {
	for _, r := range Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}
