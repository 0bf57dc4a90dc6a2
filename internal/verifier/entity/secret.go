package entity

// EnrolledSecret is a user's shared TOTP secret as stored at enrollment time.
// The secret is a base32 seed and must never appear in logs or responses.
type EnrolledSecret struct {
	UserID string
	Secret string
}
