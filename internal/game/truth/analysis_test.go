package truth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeSamples(n int, blink, eye, tremor, nostril, stress float64, micro string) []FaceTrackingSample {
	samples := make([]FaceTrackingSample, n)
	for i := range samples {
		samples[i] = FaceTrackingSample{
			EyeBlinkRate:    blink,
			EyeMovement:     eye,
			FacialTremor:    tremor,
			NostrilMovement: nostril,
			StressLevel:     stress,
			MicroExpression: micro,
			Timestamp:       int64(i),
		}
	}
	return samples
}

func TestAnalyze_EmptySampleSetNeverReportsLie(t *testing.T) {
	result := Analyze(nil)
	assert.False(t, result.IsLie)
	assert.Equal(t, 0, result.Confidence)
}

func TestAnalyze_BelowMinSamplesNeverReportsLie(t *testing.T) {
	result := Analyze(makeSamples(minSamples-1, 5, 5, 5, 5, 5, "calm"))
	assert.False(t, result.IsLie)
}

func TestAnalyze_AllZeroSamplesNeverReportLie(t *testing.T) {
	result := Analyze(makeSamples(10, 0, 0, 0, 0, 0, "calm"))
	assert.False(t, result.IsLie)
	assert.Equal(t, 0, result.Confidence)
}

func TestAnalyze_IsDeterministicForEqualInputs(t *testing.T) {
	samples := makeSamples(8, 1.2, 0.1, 0.05, 0.08, 30, "nervous")
	first := Analyze(samples)
	second := Analyze(samples)
	assert.Equal(t, first, second, "equal inputs must produce bitwise-equal results")
}

func TestAnalyze_HighSignalAcrossChannelsReportsLie(t *testing.T) {
	samples := make([]FaceTrackingSample, 10)
	for i := range samples {
		samples[i] = FaceTrackingSample{
			EyeBlinkRate:    3,
			EyeMovement:     1,
			FacialTremor:    1,
			NostrilMovement: 1,
			StressLevel:     float64(i),
			MicroExpression: "nervous",
			Timestamp:       int64(i),
		}
	}
	result := Analyze(samples)
	assert.True(t, result.IsLie)
	assert.GreaterOrEqual(t, result.Confidence, lieThreshold)
}

func TestAnalyze_ConfidenceIsAlwaysClampedToPercentRange(t *testing.T) {
	samples := makeSamples(20, 100, 100, 100, 100, 100, "nervous")
	result := Analyze(samples)
	assert.GreaterOrEqual(t, result.Confidence, 0)
	assert.LessOrEqual(t, result.Confidence, 100)
}

func TestTrendScore_NeverNegative(t *testing.T) {
	descending := []float64{10, 8, 6, 4, 2}
	assert.Equal(t, 0.0, trendScore(descending))
}

func TestTrendScore_FewerThanTwoValuesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, trendScore([]float64{5}))
	assert.Equal(t, 0.0, trendScore(nil))
}

func TestMedian_EvenAndOddCounts(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
}

func TestStddev_ZeroForConstantValues(t *testing.T) {
	assert.Equal(t, 0.0, stddev([]float64{4, 4, 4, 4}))
}
