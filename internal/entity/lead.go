package entity

import (
	"net/mail"
	"strings"
	"time"
)

// Lead statuses. Nothing else is ever persisted in the status column.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

// Statuses lists every valid lead status in display order.
var Statuses = []string{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost}

func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Lead struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Company    string `json:"company,omitempty"`
	Website    string `json:"website,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`

	SourceID   *int64            `json:"source_id,omitempty"`
	Source     string            `json:"source"`
	Status     string            `json:"status"`
	Score      int               `json:"score"`
	IsVerified bool              `json:"is_verified"`
	Tags       []string          `json:"tags,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Custom     map[string]string `json:"custom_fields,omitempty"`

	AssignedTo *int64 `json:"assigned_to,omitempty"`
	CreatedBy  *int64 `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// First-transition timestamps: set when the lead first reaches the
	// status, never cleared when it moves away again.
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	ConvertedAt     *time.Time `json:"converted_at,omitempty"`

	// Joined from lead_sources when SourceID is set.
	SourceName  string `json:"source_name,omitempty"`
	SourceIcon  string `json:"source_icon,omitempty"`
	SourceColor string `json:"source_color,omitempty"`
}

// Validate checks the creation preconditions: name and email are required,
// email must be syntactically valid and status, if set, must be known.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ValidationError{"name", "is required"}
	}
	if strings.TrimSpace(l.Email) == "" {
		return ValidationError{"email", "is required"}
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return ValidationError{"email", "is invalid"}
	}
	if l.Status != "" && !IsValidStatus(l.Status) {
		return ValidationError{"status", "must be one of: " + strings.Join(Statuses, ", ")}
	}
	return nil
}

// LeadFilters are the optional list predicates. Zero values impose no
// constraint; predicates are combined with AND.
type LeadFilters struct {
	Status     string
	Source     string
	Search     string // case-insensitive substring over name, email, company
	DateFrom   string // inclusive lower bound on creation date, YYYY-MM-DD
	DateTo     string // inclusive upper bound on creation date, YYYY-MM-DD
	IsVerified *bool
}

const DefaultPerPage = 20

// LeadPage is one page of a filtered listing. Total counts every matching
// row before pagination.
type LeadPage struct {
	Data       []*Lead `json:"data"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
}
