package database

import (
	"database/sql"
	"encoding/json"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// jsonValue marshals tags/custom-field values for a jsonb column, NULL when
// there is nothing to store.
func jsonValue(v any) any {
	switch t := v.(type) {
	case []string:
		if len(t) == 0 {
			return nil
		}
	case map[string]string:
		if len(t) == 0 {
			return nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead entity.Lead

		phone, company, website, address  sql.NullString
		city, state, country, postalCode  sql.NullString
		notes                             sql.NullString
		sourceName, sourceIcon, sourceCol sql.NullString
		sourceID, assignedTo, createdBy   sql.NullInt64
		lastContactedAt, convertedAt      sql.NullTime
		tags, custom                      []byte
	)

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &phone, &company, &website, &address,
		&city, &state, &country, &postalCode, &sourceID, &lead.Source,
		&lead.Status, &lead.Score, &lead.IsVerified, &tags, &notes, &custom,
		&assignedTo, &createdBy, &lead.CreatedAt, &lead.UpdatedAt,
		&lastContactedAt, &convertedAt,
		&sourceName, &sourceIcon, &sourceCol,
	)
	if err != nil {
		return nil, err
	}

	lead.Phone = phone.String
	lead.Company = company.String
	lead.Website = website.String
	lead.Address = address.String
	lead.City = city.String
	lead.State = state.String
	lead.Country = country.String
	lead.PostalCode = postalCode.String
	lead.Notes = notes.String
	lead.SourceName = sourceName.String
	lead.SourceIcon = sourceIcon.String
	lead.SourceColor = sourceCol.String

	if sourceID.Valid {
		lead.SourceID = &sourceID.Int64
	}
	if assignedTo.Valid {
		lead.AssignedTo = &assignedTo.Int64
	}
	if createdBy.Valid {
		lead.CreatedBy = &createdBy.Int64
	}
	if lastContactedAt.Valid {
		lead.LastContactedAt = &lastContactedAt.Time
	}
	if convertedAt.Valid {
		lead.ConvertedAt = &convertedAt.Time
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &lead.Tags); err != nil {
			return nil, err
		}
	}
	if len(custom) > 0 {
		if err := json.Unmarshal(custom, &lead.Custom); err != nil {
			return nil, err
		}
	}

	return &lead, nil
}
