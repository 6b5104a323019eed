package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatebook-backend/internal/application/aggregation"
	"estatebook-backend/internal/application/projects"
	"estatebook-backend/internal/domain"
	"estatebook-backend/internal/pkg/numeric"
)

// Service builds exports and cross-project summaries on top of the
// aggregation engine.
type Service struct {
	DB *gorm.DB
}

// Summary loads the project collection and rolls up the selected ids.
func (s *Service) Summary(ctx context.Context, selectedIDs []string) (*aggregation.Summary, error) {
	var all []domain.Project
	if err := s.DB.WithContext(ctx).Order("name asc").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch projects: %v", err)
	}
	summary := aggregation.Summarize(all, selectedIDs)
	return &summary, nil
}

// ExportProjectCSV renders the master report for one project: UTF-8 with a
// BOM prefix so spreadsheet tools detect the encoding, titled sections, and
// quote-escaped comma-separated fields.
func (s *Service) ExportProjectCSV(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	var project domain.Project
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", projects.ErrProjectNotFound
		}
		return nil, "", err
	}

	var b strings.Builder
	b.WriteString("\uFEFF")
	writeRow(&b, "=== Project report: "+project.Name+" ===")
	writeRow(&b, "Exported", time.Now().Format("2006-01-02 15:04:05"))
	writeRow(&b, "Site", project.Site)
	writeRow(&b, "Zone", project.Zone)
	b.WriteString("\n")

	writeRow(&b, "=== Buyers ===")
	writeRow(&b, "Name", "Phone", "Address")
	for _, buyer := range project.Buyers {
		writeRow(&b, buyer.Name, buyer.Phone, buyer.Address)
	}
	b.WriteString("\n")

	writeRow(&b, "=== Land lots ===")
	writeRow(&b, "Sellers", "Section", "Lot number", "Held area (m2)", "Held area (ping)", "Price per ping", "Subtotal")
	for _, land := range project.Lands {
		sellers := joinSellers(land.Sellers, ";")
		for _, item := range land.Items {
			held := aggregation.EffectiveAreaM2(item)
			writeRow(&b,
				sellers,
				land.Section,
				item.LotNumber,
				numeric.FormatArea(held),
				numeric.FormatArea(aggregation.ToPing(held)),
				item.PricePerPing.String(),
				item.Subtotal.String(),
			)
		}
	}
	b.WriteString("\n")

	writeRow(&b, "=== Buildings ===")
	writeRow(&b, "Sellers", "Permit number", "Address", "License", "Build number", "Area (m2)", "Price per unit", "Total price")
	for _, building := range project.Buildings {
		writeRow(&b,
			joinSellers(building.Sellers, ";"),
			building.PermitNumber,
			building.Address,
			building.License,
			building.BuildNumber,
			building.AreaM2.String(),
			building.PricePerUnit.String(),
			building.TotalPrice.String(),
		)
	}
	b.WriteString("\n")

	writeRow(&b, "=== Transactions ===")
	writeRow(&b, "Date", "Type", "Category", "Linkage", "Linked to", "Amount", "Note")
	for _, t := range project.Transactions {
		label := aggregation.LinkedLabel(t, project.Lands, project.Buildings)
		writeRow(&b, t.Date, t.Type, t.Category, t.LinkedType, label, t.Amount.String(), t.Note)
	}

	filename := fmt.Sprintf("project-report_%s.csv", project.Name)
	return []byte(b.String()), filename, nil
}

// writeRow emits one comma-separated line, quoting any field that contains the
// separator, a quote, or a newline (embedded quotes doubled).
func writeRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quoteField(f))
	}
	b.WriteByte('\n')
}

func quoteField(f string) string {
	if !strings.ContainsAny(f, ",\"\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

func joinSellers(sellers []domain.Seller, sep string) string {
	names := make([]string, 0, len(sellers))
	for _, s := range sellers {
		names = append(names, s.Name)
	}
	return strings.Join(names, sep)
}
