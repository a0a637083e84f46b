package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriage(t *testing.T) {
	cases := []struct {
		description string
		symptoms    []string
		severity    string
		matched     []string
	}{
		{"no symptoms", nil, SEVERITY_NONE, []string{}},
		{"unknown symptom", []string{"itchy elbow"}, SEVERITY_NONE, []string{}},
		{"mild only", []string{"Cough", " headache "}, SEVERITY_MILD, []string{"cough", "headache"}},
		{"most severe wins", []string{"fever", "chest pain", "high fever"}, SEVERITY_CRITICAL, []string{"chest pain", "fever", "high fever"}},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			result := Triage(c.symptoms)
			assert.Equal(t, c.severity, result.Severity)
			assert.Equal(t, c.matched, result.Matched)
			assert.Equal(t, adviceBySeverity[c.severity], result.Advice)
		})
	}
}
