package entity

import "time"

const (
	AnalyticsSourceAI       = "ai"
	AnalyticsSourceFallback = "fallback"
)

type AnalyticsReport struct {
	Module      string                 `json:"module"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Source      string                 `json:"source"`
	Data        map[string]interface{} `json:"data"`
}

type UploadTicket struct {
	UploadURL  string    `json:"uploadUrl"`
	PublicURL  string    `json:"publicUrl"`
	ObjectName string    `json:"objectName"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Method     string    `json:"method"`
}
