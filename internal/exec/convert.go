package exec

import "math"

func isUnit(u string, names ...string) bool {
	for _, n := range names {
		if u == n {
			return true
		}
	}
	return false
}

// Convert maps a value between the explicitly supported unit pairs:
// temperature (c/f), length (inch/cm, meter/foot), weight (kg/lb).
// The second return value is false for any other pair — unsupported, not an
// error.
func Convert(val float64, src, dst string) (float64, bool) {
	switch {
	case isUnit(src, "c", "celsius") && isUnit(dst, "f", "fahrenheit"):
		return val*9/5 + 32, true
	case isUnit(src, "f", "fahrenheit") && isUnit(dst, "c", "celsius"):
		return (val - 32) * 5 / 9, true
	case isUnit(src, "inch", "in", "inches") && isUnit(dst, "cm", "centimeter", "centimeters"):
		return val * 2.54, true
	case isUnit(src, "cm", "centimeter", "centimeters") && isUnit(dst, "inch", "in", "inches"):
		return val / 2.54, true
	case isUnit(src, "m", "meter", "meters") && isUnit(dst, "ft", "foot", "feet"):
		return val * 3.28084, true
	case isUnit(src, "ft", "foot", "feet") && isUnit(dst, "m", "meter", "meters"):
		return val / 3.28084, true
	case isUnit(src, "kg", "kilogram", "kilograms") && isUnit(dst, "lb", "lbs", "pound", "pounds"):
		return val * 2.20462, true
	case isUnit(src, "lb", "lbs", "pound", "pounds") && isUnit(dst, "kg", "kilogram", "kilograms"):
		return val / 2.20462, true
	}
	return 0, false
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
