package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictCrisis(t *testing.T) {
	prediction := PredictCrisis(" Delhi ")
	assert.Equal(t, "Delhi", prediction.City)
	assert.Equal(t, HIGH_RISK, prediction.Risk["oxygen"])

	prediction = PredictCrisis("Atlantis")
	assert.Equal(t, "Atlantis", prediction.City)
	assert.Equal(t, defaultPrediction.Advisory, prediction.Advisory)
	assert.Equal(t, "", defaultPrediction.City, "default prediction should not be mutated")
}
