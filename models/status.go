package models

// StatusItem is one line of the "currently working on" panel.
type StatusItem struct {
	Text string `json:"text"`
}

// SaveStatusRequest replaces the whole status list.
type SaveStatusRequest struct {
	Items []StatusItem `json:"items" binding:"required"`
}

// StatusResponse wraps the rendered status list.
type StatusResponse struct {
	Items []StatusItem `json:"items"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}
