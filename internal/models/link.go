package models

import "time"

// Link is the persisted association between a short code and its target.
// Links are never modified after they are stored.
type Link struct {
	Code      string    `json:"code" db:"code" gorm:"primaryKey;size:16"`
	TargetURL string    `json:"target_url" db:"target_url" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null"`
}

type ShortenRequest struct {
	URL        string `json:"url"`
	CustomCode string `json:"custom_code,omitempty"`
}

type ShortenResponse struct {
	ShortCode string `json:"short_code"`
	ShortURL  string `json:"short_url"`
	LongURL   string `json:"long_url"`
}

type ResolveResponse struct {
	ShortCode string `json:"short_code"`
	LongURL   string `json:"long_url"`
}
