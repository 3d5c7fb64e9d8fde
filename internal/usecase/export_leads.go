package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// ExportRowCap bounds the memory an export can take. The dashboard's
// filtered views stay far below it.
const ExportRowCap = 10000

// ExportLeadsUseCase renders the current filtered view as a CSV document.
// The format is fixed: free-text fields (name, company, notes) are quoted
// with internal quotes doubled, everything else is emitted raw.
type ExportLeadsUseCase struct {
	Repo LeadRepositoryInterface
}

func NewExportLeadsUseCase(repo LeadRepositoryInterface) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Repo: repo}
}

var exportHeader = []string{
	"ID", "Name", "Email", "Phone", "Company", "Website", "Source",
	"Status", "Score", "Verified", "Notes", "Created At",
}

func (uc *ExportLeadsUseCase) Execute(ctx context.Context, f entity.LeadFilters) (string, error) {
	page, err := uc.Repo.List(ctx, f, 1, ExportRowCap)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	b.WriteByte('\n')

	for _, lead := range page.Data {
		verified := "No"
		if lead.IsVerified {
			verified = "Yes"
		}
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%s,%s,%s,%d,%s,%s,%s\n",
			lead.ID,
			csvQuote(lead.Name),
			lead.Email,
			lead.Phone,
			csvQuote(lead.Company),
			lead.Website,
			lead.Source,
			lead.Status,
			lead.Score,
			verified,
			csvQuote(lead.Notes),
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return b.String(), nil
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
