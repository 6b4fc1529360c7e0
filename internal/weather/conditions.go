// In file: internal/weather/conditions.go
package weather

// UnknownCondition is the label for any weather code missing from the table.
const UnknownCondition = "Unknown"

// conditionTexts maps WMO weather interpretation codes, as reported by
// Open-Meteo, to human-readable descriptions.
var conditionTexts = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Thunderstorm with heavy hail",
}

// ConditionText returns the canonical description of a weather code.
func ConditionText(code int) string {
	if text, ok := conditionTexts[code]; ok {
		return text
	}
	return UnknownCondition
}
