package models

// Condition is the normalized weather condition shown to the user.
type Condition string

const (
	ConditionSunny        Condition = "sunny"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionRainy        Condition = "rainy"
	ConditionSnowy        Condition = "snowy"
	ConditionStormy       Condition = "stormy"
)

// ConditionFromCode maps a WMO weather code to a Condition.
// Codes not covered by the table fall back to cloudy.
func ConditionFromCode(code int) Condition {
	switch code {
	case 0:
		return ConditionSunny
	case 1, 2:
		return ConditionPartlyCloudy
	case 3:
		return ConditionCloudy
	case 51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82:
		return ConditionRainy
	case 71, 73, 75, 77, 85, 86:
		return ConditionSnowy
	case 95, 96, 99:
		return ConditionStormy
	default:
		return ConditionCloudy
	}
}
