package api

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ConnectResponse acknowledges a session connect request.
type ConnectResponse struct {
	Status      string    `json:"status"`
	ConnectedAt time.Time `json:"connected_at"`
}

// TranscriptResponse wraps the committed conversation for polling clients.
type TranscriptResponse struct {
	Messages []TranscriptMessage `json:"messages"`
}

// TranscriptMessage is one committed conversation message.
type TranscriptMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordsResponse wraps the captured inquiry records.
type RecordsResponse struct {
	Records []RecordItem `json:"records"`
}

// RecordItem is one captured inquiry.
type RecordItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	ServiceType string    `json:"service_type"`
	Budget      string    `json:"budget"`
	Notes       string    `json:"notes"`
	CapturedAt  time.Time `json:"captured_at"`
}
