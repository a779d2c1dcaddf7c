package models

// Session struct for storing session data.
// UserID is empty while the visitor is anonymous.
type Session struct {
	SessionToken string `json:"session_token"`
	UserID       string `json:"user_id"`
	CreatedAt    string `json:"created_at"`
	ExpiresAt    string `json:"expires_at"`
	LastActivity string `json:"last_activity"`
	UserAgent    string `json:"user_agent"`
	IPAddress    string `json:"ip_address"`
}

// Authenticated reports whether a user is logged in on this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
