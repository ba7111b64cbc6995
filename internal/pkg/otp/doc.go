// Package otp generates and compares short numeric one-time codes.
//
// Codes are drawn with crypto/rand and compared in constant time. Storage,
// expiry and attempt limits are the caller's concern.
package otp
