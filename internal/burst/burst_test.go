package burst

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZScore_DetectsSpike(t *testing.T) {
	series := []float64{5, 6, 4, 7, 5, 6, 5, 4, 6, 5, 5, 7, 6, 25}
	z, isBurst := ZScore(series)
	assert.Greater(t, z, 2.5)
	assert.True(t, isBurst)
}

func TestZScore_NoSpikeWithoutOutlier(t *testing.T) {
	series := []float64{5, 6, 4, 7, 5, 6, 5, 4, 6, 5, 5, 7, 6}
	_, isBurst := ZScore(series)
	assert.False(t, isBurst)
}

func TestZScore_ShortSeriesNeverBursts(t *testing.T) {
	z, isBurst := ZScore([]float64{1, 2})
	assert.Equal(t, 0.0, z)
	assert.False(t, isBurst)
}

func TestMACD_NeutralOnShortSeries(t *testing.T) {
	series := make([]float64, 20)
	for i := range series {
		series[i] = float64(i % 5)
	}
	_, signal := MACD(series)
	assert.Equal(t, Neutral, signal)
}

func TestMACD_BullishOnSustainedUptrend(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		if i < 20 {
			series[i] = 5
		} else {
			series[i] = 5 + float64(i-19)
		}
	}
	_, signal := MACD(series)
	assert.Equal(t, Bullish, signal)
}

func TestCooling_HalfLifeAfterOneHalfLife(t *testing.T) {
	factor := Cooling(80, 4, 4) / 80
	assert.InDelta(t, 0.5, factor, 1e-9)
}

func TestCooling_NoElapsedTimeReturnsPeak(t *testing.T) {
	assert.Equal(t, 80.0, Cooling(80, 0, 4))
}

func TestCooling_NegativeElapsedClampsToZero(t *testing.T) {
	assert.Equal(t, Cooling(80, 0, 4), Cooling(80, -5, 4))
}

func TestAcceleration_ThreeOrMoreSamples(t *testing.T) {
	a := Acceleration([]float64{10, 12, 16})
	// v = 16-12=4, a_prev = 12-10=2, accel = 0.6*4+0.4*(4-2)=2.4+0.8=3.2
	assert.InDelta(t, 3.2, a, 1e-9)
}

func TestAcceleration_TwoSamples(t *testing.T) {
	assert.Equal(t, 5.0, Acceleration([]float64{10, 15}))
}

func TestAcceleration_SingleSample(t *testing.T) {
	assert.Equal(t, 0.0, Acceleration([]float64{10}))
}

func TestEMA_FirstValueSeedsSeries(t *testing.T) {
	e := EMA([]float64{10, 20, 30}, 2)
	assert.Equal(t, 10.0, e[0])
	assert.False(t, math.IsNaN(e[2]))
}
