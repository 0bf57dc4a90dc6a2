// Package otp provides validation of time-based one-time passwords (TOTP)
// per RFC 6238.
//
// Enrollment (secret generation and provisioning URIs) happens outside this
// service; this package only answers whether a submitted code matches the
// enrolled secret for a point in time.
package otp
