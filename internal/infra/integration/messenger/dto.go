package messenger

type SendRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type SendResponse struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}
