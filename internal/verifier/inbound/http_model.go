package inbound

type VerifyRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

type VerifyResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
