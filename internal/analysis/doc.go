// Package analysis provides post-run characterisation of a trajectory.
//
// The package includes tools for inspecting gyration:
//
//   - [GyroFrequency]: dominant angular frequency of a velocity component
//   - [PowerSpectrum]: mean-removed magnitude spectrum
//   - [Crossings]: interpolated times a component crosses a level
//   - [Project]: orbit projected onto a display plane
//   - [PortraitASCII]: terminal rendering of a projected orbit
//
// # Gyro-frequency
//
// For a uniform field the measured frequency approaches |q|B/m:
//
//	omega, err := analysis.GyroFrequency(tr, analysis.VelocityX)
package analysis
