// Package clock abstracts the wall clock so expiry logic can run against a
// controllable time source in tests.
package clock
