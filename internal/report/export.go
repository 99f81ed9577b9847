package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"residentportal/internal/profile/age"
	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
)

const (
	residentsSheet = "Residents"
	summarySheet   = "Summary"
)

// PopulationHeader is the column order of the Residents sheet.
var PopulationHeader = []string{
	"Resident ID",
	"Household Head",
	"Role",
	"Relation",
	"Last Name",
	"First Name",
	"Middle Name",
	"Gender",
	"Birth Date",
	"Age",
	"Age Group",
	"Civil Status",
	"Barangay",
	"Registered Voter",
}

var populationColumnWidths = []float64{38, 28, 10, 12, 18, 18, 18, 10, 12, 18, 10, 14, 28, 16}

// ExportPopulation renders every member of approved households as an XLSX
// workbook with a Residents sheet and a Summary sheet.
func (s *Service) ExportPopulation(ctx context.Context) ([]byte, error) {
	records, err := s.approved(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.Population(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", residentsSheet); err != nil {
		return nil, exportErr("rename sheet", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, exportErr("create header style", err)
	}

	if err := writeRow(f, residentsSheet, 1, toAny(PopulationHeader)); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(PopulationHeader), 1)
	if err := f.SetCellStyle(residentsSheet, "A1", last, headerStyle); err != nil {
		return nil, exportErr("style header", err)
	}
	for i, width := range populationColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(residentsSheet, col, col, width); err != nil {
			return nil, exportErr("set column width", err)
		}
	}

	row := 2
	for _, rec := range records {
		head := rec.Profile.Head
		barangay := s.barangayName(ctx, rec)
		voter := string(rec.Profile.Census.IsRegisteredVoter)
		headName := head.LastName + ", " + head.FirstName
		for _, m := range membersOf(rec) {
			birth := ""
			if m.identity.BirthDate != nil {
				birth = m.identity.BirthDate.Format("2006-01-02")
			}
			values := []any{
				rec.ResidentID.String(),
				headName,
				m.role,
				m.relation,
				m.identity.LastName,
				m.identity.FirstName,
				m.identity.MiddleName,
				genderLabel(m.identity),
				birth,
				age.ComputeLabel(m.identity.BirthDate, now),
				string(age.Classify(m.identity.BirthDate, now)),
				string(m.identity.CivilStatus),
				barangay,
				voter,
			}
			if err := writeRow(f, residentsSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}
	if err := f.SetPanes(residentsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, exportErr("freeze header", err)
	}

	if err := s.writeSummary(f, summary, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, exportErr("write workbook", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, sum *PopulationSummary, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return exportErr("create summary sheet", err)
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Generated At", sum.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Households", sum.Households},
		{"Members", sum.Members},
		{"Registered Voter Households", sum.RegisteredVoters},
	}
	for _, b := range []age.Bucket{age.BucketChild, age.BucketAdult, age.BucketSenior, age.BucketUnknown} {
		rows = append(rows, []any{"Age Group: " + string(b), sum.ByAgeBucket[b]})
	}
	genders := make([]string, 0, len(sum.ByGender))
	for g := range sum.ByGender {
		genders = append(genders, g)
	}
	sort.Strings(genders)
	for _, g := range genders {
		rows = append(rows, []any{"Gender: " + g, sum.ByGender[g]})
	}
	for i, values := range rows {
		if err := writeRow(f, summarySheet, i+1, values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return exportErr("style summary header", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 30)
}

func (s *Service) barangayName(ctx context.Context, rec models.ResidentRecord) string {
	addr := rec.Profile.Head.Address
	if s.resolver == nil {
		return addr.Barangay
	}
	resolved, err := s.resolver.ResolveNames(ctx, addr)
	if err != nil {
		s.logger.WarnContext(ctx, "barangay name unavailable for export",
			"resident_id", rec.ResidentID.String(),
			"error", err,
		)
		return addr.Barangay
	}
	return resolved.Barangay.Name
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return exportErr("convert coordinates", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return exportErr(fmt.Sprintf("write row %d", row), err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func exportErr(step string, err error) error {
	return dErrors.Wrap(err, dErrors.CodeInternal, "population export failed: "+step)
}
