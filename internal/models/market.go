package models

import "time"

// EODBar represents a single end-of-day price bar.
type EODBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Filing is one SEC filing entry for a company, newest first.
type Filing struct {
	FormType   string    `json:"form_type"`
	FiledDate  time.Time `json:"filed_date"`
	ReportDate time.Time `json:"report_date,omitempty"`
	URL        string    `json:"url"`
}
