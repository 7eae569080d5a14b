// Package field provides the electromagnetic field profiles a test particle
// moves through.
//
// A profile is a pure function of position returning the instantaneous
// magnetic and electric vectors:
//
//   - [SimpleGyration]: uniform B along z, no E
//   - [ExBDrift]: uniform crossed B and E
//   - [GradientDrift]: B along z stepping from b1 to b2 across x=0
//   - [Custom]: caller-supplied [Func]
//
// # Example
//
//	fn, err := field.Resolve(field.ExBDrift, nil)
//	if err != nil {
//	    return err
//	}
//	s := fn(r3.Vec{X: 1})
package field
