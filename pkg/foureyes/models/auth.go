package models

// LoginRequest is the payload for session login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login; the session id is also
// set as a cookie for browser flows.
type LoginResponse struct {
	Username  string `json:"username"`
	SessionID string `json:"sessionId"`
}
