package assist

import "strings"

const (
	LOW_RISK    = "low"
	MEDIUM_RISK = "medium"
	HIGH_RISK   = "high"
)

// CrisisPrediction is a canned shortage outlook per resource type for a city
type CrisisPrediction struct {
	City       string            `json:"city"`
	Risk       map[string]string `json:"risk"`
	Advisory   string            `json:"advisory"`
	Confidence float64           `json:"confidence"`
}

// Static outlooks, there is no model behind these
var predictions = map[string]CrisisPrediction{
	"delhi": {
		Risk:       map[string]string{"blood_bank": MEDIUM_RISK, "ambulance": HIGH_RISK, "hospital": HIGH_RISK, "oxygen": HIGH_RISK},
		Advisory:   "High demand for oxygen & ICU beds expected over the next 7 days.",
		Confidence: 0.72,
	},
	"mumbai": {
		Risk:       map[string]string{"blood_bank": LOW_RISK, "ambulance": MEDIUM_RISK, "hospital": MEDIUM_RISK, "oxygen": MEDIUM_RISK},
		Advisory:   "Monsoon related delays may slow ambulance response times.",
		Confidence: 0.64,
	},
	"bangalore": {
		Risk:       map[string]string{"blood_bank": MEDIUM_RISK, "ambulance": LOW_RISK, "hospital": MEDIUM_RISK, "oxygen": LOW_RISK},
		Advisory:   "Blood stocks for rare groups are running low.",
		Confidence: 0.58,
	},
}

var defaultPrediction = CrisisPrediction{
	Risk:       map[string]string{"blood_bank": LOW_RISK, "ambulance": LOW_RISK, "hospital": LOW_RISK, "oxygen": LOW_RISK},
	Advisory:   "No shortages expected. Keep your emergency contacts up to date.",
	Confidence: 0.4,
}

func PredictCrisis(city string) CrisisPrediction {
	key := strings.ToLower(strings.TrimSpace(city))

	prediction, ok := predictions[key]
	if !ok {
		prediction = defaultPrediction
	}

	prediction.City = strings.TrimSpace(city)
	return prediction
}
