package inbound

// Operation names accepted by the invoke endpoint.
const (
	OpIsAvailable = "isAvailable"
	OpStore       = "store"
	OpGet         = "get"
	OpGetEmails   = "getEmails"
	OpHas         = "has"
	OpDelete      = "delete"
	OpPromptHello = "promptHello"
)

// Wire error codes. This set is closed; callers switch on it.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeNotFound         = "not_found"
	CodeVaultUnavailable = "vault_unavailable"
	CodeWriteError       = "write_error"
	CodeReadError        = "read_error"
	CodeAuthDenied       = "auth_denied"
)

type InvokeRequest struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

// InvokeResponse is the success shape. Result is always present so boolean
// false answers survive encoding.
type InvokeResponse struct {
	Result any `json:"result"`
}

type InvokeErrorResponse struct {
	Error InvokeError `json:"error"`
}

type InvokeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
