package assist

import (
	"sort"
	"strings"
)

const (
	SEVERITY_NONE     = "none"
	SEVERITY_MILD     = "mild"
	SEVERITY_MODERATE = "moderate"
	SEVERITY_CRITICAL = "critical"
)

var severityRank = map[string]int{
	SEVERITY_NONE:     0,
	SEVERITY_MILD:     1,
	SEVERITY_MODERATE: 2,
	SEVERITY_CRITICAL: 3,
}

var adviceBySeverity = map[string]string{
	SEVERITY_NONE:     "No known symptoms matched. Describe your symptoms or consult a doctor.",
	SEVERITY_MILD:     "Rest, stay hydrated and monitor your symptoms.",
	SEVERITY_MODERATE: "Consult a doctor within 24 hours.",
	SEVERITY_CRITICAL: "Seek emergency care now. Call an ambulance or trigger an SOS.",
}

var symptomSeverity = map[string]string{
	"chest pain":           SEVERITY_CRITICAL,
	"difficulty breathing": SEVERITY_CRITICAL,
	"shortness of breath":  SEVERITY_CRITICAL,
	"unconscious":          SEVERITY_CRITICAL,
	"severe bleeding":      SEVERITY_CRITICAL,
	"low oxygen":           SEVERITY_CRITICAL,
	"high fever":           SEVERITY_MODERATE,
	"persistent vomiting":  SEVERITY_MODERATE,
	"dehydration":          SEVERITY_MODERATE,
	"fracture":             SEVERITY_MODERATE,
	"fever":                SEVERITY_MILD,
	"cough":                SEVERITY_MILD,
	"headache":             SEVERITY_MILD,
	"sore throat":          SEVERITY_MILD,
	"fatigue":              SEVERITY_MILD,
}

type TriageResult struct {
	Severity string   `json:"severity"`
	Advice   string   `json:"advice"`
	Matched  []string `json:"matched"`
}

// Triage maps reported symptoms to the most severe matching level
func Triage(symptoms []string) TriageResult {
	result := TriageResult{Severity: SEVERITY_NONE, Matched: []string{}}

	for _, symptom := range symptoms {
		symptom = strings.ToLower(strings.TrimSpace(symptom))

		severity, ok := symptomSeverity[symptom]
		if !ok {
			continue
		}

		result.Matched = append(result.Matched, symptom)
		if severityRank[severity] > severityRank[result.Severity] {
			result.Severity = severity
		}
	}

	sort.Strings(result.Matched)
	result.Advice = adviceBySeverity[result.Severity]
	return result
}
