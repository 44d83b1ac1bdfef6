package testutil

import (
	"math"
	"math/rand"
)

// Sine generates amplitude*sin(2π f t) sampled every dt seconds.
func Sine(freqHz, dt, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz * dt
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Gaussian generates zero-mean normal noise with a fixed seed.
func Gaussian(seed int64, sigma float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Burst returns low-level noise with a strong-motion window [from, to).
func Burst(seed int64, length, from, to int, strong, weak float64) []float64 {
	out := Gaussian(seed, weak, length)
	rng := rand.New(rand.NewSource(seed + 1))
	for i := from; i < to && i < length; i++ {
		out[i] = rng.NormFloat64() * strong
	}
	return out
}
