// Package response computes the dynamic response of linear single-degree-
// of-freedom oscillators to ground acceleration and aggregates the peaks
// into response spectra.
//
// Two integration methods are available:
//
//   - [Newmark]: average-acceleration Newmark-β (γ=0.5, β=0.25),
//     unconditionally stable, preferred for long periods
//   - [FrequencyDomain]: closed-form transfer functions applied to the
//     zero-padded FFT of the record, cheap for short periods
//
// [Mixed] uses the frequency domain below [MixedSwitchPeriod] and Newmark
// above it.
//
// # Usage
//
//	periods, _ := response.DefaultPeriods(0.04, 10, 200, response.MixedSpacing)
//	sp, err := response.Compute(acc, dt, periods, 0.05, response.Newmark)
//	// sp.Sa[i] is the peak absolute acceleration at periods[i]
//
// Scratch arrays come from a [Workspace]. Callers looping over many records
// can hold one Workspace and pass it to [ComputeWith]; the package-level
// helpers borrow one from an internal pool.
package response
