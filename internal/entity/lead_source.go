package entity

import (
	"strings"
	"time"
)

// Source channel types.
const (
	SourceTypeInbound  = "inbound"
	SourceTypeOutbound = "outbound"
)

// Defaults applied when a source is created without presentation metadata.
const (
	DefaultSourceIcon  = "fas fa-plug"
	DefaultSourceColor = "#6366f1"
)

// LeadSource is the descriptive origin channel a lead may reference.
// Deleting a source that still has leads deactivates it instead of removing
// the row, so historical leads keep a valid reference.
type LeadSource struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *LeadSource) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ValidationError{"name", "is required"}
	}
	if s.Type != SourceTypeInbound && s.Type != SourceTypeOutbound {
		return ValidationError{"type", "must be inbound or outbound"}
	}
	return nil
}

// ApplyDefaults fills the optional presentation fields the way the
// dashboard expects them.
func (s *LeadSource) ApplyDefaults() {
	if s.Type == "" {
		s.Type = SourceTypeInbound
	}
	if s.Icon == "" {
		s.Icon = DefaultSourceIcon
	}
	if s.Color == "" {
		s.Color = DefaultSourceColor
	}
}

// LeadSourceUpdate carries a partial source edit: nil fields are untouched.
type LeadSourceUpdate struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// SourcePerformance is one row of the per-source statistics: how many leads
// the source produced and how many of those are currently converted.
type SourcePerformance struct {
	SourceID       int64  `json:"source_id"`
	SourceName     string `json:"source_name"`
	LeadCount      int    `json:"lead_count"`
	ConvertedCount int    `json:"converted_count"`
}
