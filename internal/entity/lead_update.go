package entity

// LeadUpdate carries a partial edit: nil fields are left untouched. The
// field set mirrors the update whitelist, anything else a caller sends is
// dropped before it gets here.
type LeadUpdate struct {
	Name       *string            `json:"name,omitempty"`
	Email      *string            `json:"email,omitempty"`
	Phone      *string            `json:"phone,omitempty"`
	Company    *string            `json:"company,omitempty"`
	Website    *string            `json:"website,omitempty"`
	Address    *string            `json:"address,omitempty"`
	City       *string            `json:"city,omitempty"`
	State      *string            `json:"state,omitempty"`
	Country    *string            `json:"country,omitempty"`
	PostalCode *string            `json:"postal_code,omitempty"`
	SourceID   *int64             `json:"source_id,omitempty"`
	Source     *string            `json:"source,omitempty"`
	Status     *string            `json:"status,omitempty"`
	Score      *int               `json:"score,omitempty"`
	IsVerified *bool              `json:"is_verified,omitempty"`
	Tags       *[]string          `json:"tags,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	Custom     *map[string]string `json:"custom_fields,omitempty"`
	AssignedTo *int64             `json:"assigned_to,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u *LeadUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Company == nil &&
		u.Website == nil && u.Address == nil && u.City == nil && u.State == nil &&
		u.Country == nil && u.PostalCode == nil && u.SourceID == nil && u.Source == nil &&
		u.Status == nil && u.Score == nil && u.IsVerified == nil && u.Tags == nil &&
		u.Notes == nil && u.Custom == nil && u.AssignedTo == nil
}
