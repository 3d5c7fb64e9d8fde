package entity

// Overview is the dashboard headline: total rows, verified rows and rows
// created today in the service's configured time zone.
type Overview struct {
	TotalLeads    int `json:"total_leads"`
	VerifiedLeads int `json:"verified_leads"`
	TodayLeads    int `json:"today_leads"`
}

// TrendPoint is one calendar date that had at least one lead created.
// Dates with zero leads are omitted, the series is sparse.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
