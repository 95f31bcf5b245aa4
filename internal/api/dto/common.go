package dto

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type APIInfoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}
