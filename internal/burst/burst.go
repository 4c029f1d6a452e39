// Package burst implements the pure statistical and technical-indicator
// functions used to detect trend momentum over a per-keyword count
// series: z-score anomaly detection, EMA/MACD cross detection, Newton
// cooling decay, and discrete acceleration.
package burst

import "math"

// ZScore reports the z-score of the final sample of x against the mean
// and population standard deviation of the preceding samples, and
// whether it exceeds the burst threshold (2.5).
func ZScore(x []float64) (float64, bool) {
	n := len(x)
	if n < 3 {
		return 0, false
	}

	prior := x[:n-1]
	mean := meanOf(prior)
	sigma := stddevOf(prior, mean)
	if sigma < 1 {
		sigma = 1
	}

	z := (x[n-1] - mean) / sigma
	return z, z > 2.5
}

func meanOf(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func stddevOf(x []float64, mean float64) float64 {
	var sumSq float64
	for _, v := range x {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(x)))
}

// EMA computes the exponential moving average of x with period p.
func EMA(x []float64, p int) []float64 {
	if len(x) == 0 {
		return nil
	}
	e := make([]float64, len(x))
	e[0] = x[0]
	k := 2.0 / (float64(p) + 1.0)
	for i := 1; i < len(x); i++ {
		e[i] = (x[i]-e[i-1])*k + e[i-1]
	}
	return e
}

// MACDSignal is the momentum classification MACD produces.
type MACDSignal string

const (
	Bullish MACDSignal = "bullish"
	Bearish MACDSignal = "bearish"
	Neutral MACDSignal = "neutral"
)

// MACD computes the MACD value and golden/death-cross signal for the
// final sample of x, using the standard 12/26/9-period configuration.
func MACD(x []float64) (float64, MACDSignal) {
	return MACDWithPeriods(x, 12, 26, 9)
}

// MACDWithPeriods is MACD with configurable EMA periods.
func MACDWithPeriods(x []float64, short, long, signalPeriod int) (float64, MACDSignal) {
	n := len(x)
	if n < long {
		return 0, Neutral
	}

	shortEMA := EMA(x, short)
	longEMA := EMA(x, long)

	macdLine := make([]float64, n)
	for i := range x {
		macdLine[i] = shortEMA[i] - longEMA[i]
	}
	signal := EMA(macdLine, signalPeriod)

	dPrev := macdLine[n-2] - signal[n-2]
	dCurr := macdLine[n-1] - signal[n-1]

	var sig MACDSignal
	switch {
	case dPrev <= 0 && dCurr > 0:
		sig = Bullish
	case dPrev >= 0 && dCurr < 0:
		sig = Bearish
	case macdLine[n-1] > signal[n-1]:
		sig = Bullish
	case macdLine[n-1] < signal[n-1]:
		sig = Bearish
	default:
		sig = Neutral
	}

	return macdLine[n-1], sig
}

// Cooling implements Newton cooling decay: T(h) = peak * exp(-λh),
// λ = ln(2)/halfLifeHours, clamping negative elapsed hours to zero.
func Cooling(peak float64, hoursSincePeak float64, halfLifeHours float64) float64 {
	if hoursSincePeak < 0 {
		hoursSincePeak = 0
	}
	lambda := math.Ln2 / halfLifeHours
	return peak * math.Exp(-lambda*hoursSincePeak)
}

// Acceleration returns the discrete second-difference-weighted
// acceleration of the tail of x: 0.6*velocity + 0.4*Δvelocity.
func Acceleration(x []float64) float64 {
	n := len(x)
	switch {
	case n >= 3:
		v := x[n-1] - x[n-2]
		a := v - (x[n-2] - x[n-3])
		return 0.6*v + 0.4*a
	case n == 2:
		return x[n-1] - x[n-2]
	default:
		return 0
	}
}
