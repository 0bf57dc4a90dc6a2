package entity

// Credential is a stored email/password pair. The password only ever lives in
// the OS secure store and in transient memory while serving a request.
type Credential struct {
	Email    string
	Password string
}
