package handlers

import (
	"encoding/csv"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leadgen-io/leadgen-api/internal/entity"
	"github.com/leadgen-io/leadgen-api/internal/usecase"
)

const maxImportUpload = 10 << 20 // 10MB

// parseImportUpload reads the "file" part of a multipart upload and turns
// it into candidate leads. The first row must be a header; columns are
// matched by name, unknown columns are ignored.
func parseImportUpload(r *http.Request) ([]usecase.CreateLeadInput, error) {
	if err := r.ParseMultipartForm(maxImportUpload); err != nil {
		return nil, entity.ValidationError{Field: "file", Message: "invalid multipart upload"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, entity.ValidationError{Field: "file", Message: "no file provided"}
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		return parseCSVLeads(file)
	case ".xlsx":
		return parseXLSXLeads(file)
	default:
		return nil, entity.ValidationError{Field: "file", Message: "unsupported file type, use .csv or .xlsx"}
	}
}

func parseCSVLeads(r io.Reader) ([]usecase.CreateLeadInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, entity.ValidationError{Field: "file", Message: "malformed CSV: " + err.Error()}
	}
	return rowsToCandidates(records)
}

func parseXLSXLeads(r io.Reader) ([]usecase.CreateLeadInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, entity.ValidationError{Field: "file", Message: "malformed XLSX: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, entity.ValidationError{Field: "file", Message: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, entity.ValidationError{Field: "file", Message: "malformed XLSX: " + err.Error()}
	}
	return rowsToCandidates(rows)
}

func rowsToCandidates(rows [][]string) ([]usecase.CreateLeadInput, error) {
	if len(rows) < 2 {
		return nil, entity.ValidationError{Field: "file", Message: "file has no data rows"}
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["email"]; !ok {
		return nil, entity.ValidationError{Field: "file", Message: "header must contain an email column"}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	candidates := make([]usecase.CreateLeadInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		c := usecase.CreateLeadInput{
			Name:       cell(row, "name"),
			Email:      cell(row, "email"),
			Phone:      cell(row, "phone"),
			Company:    cell(row, "company"),
			Website:    cell(row, "website"),
			Address:    cell(row, "address"),
			City:       cell(row, "city"),
			State:      cell(row, "state"),
			Country:    cell(row, "country"),
			PostalCode: cell(row, "postal_code"),
			Notes:      cell(row, "notes"),
		}
		if raw := cell(row, "score"); raw != "" {
			if score, err := strconv.Atoi(raw); err == nil {
				c.Score = score
			}
		}

		// Fully blank lines at the end of a sheet are noise, not data.
		if c.Name == "" && c.Email == "" {
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
