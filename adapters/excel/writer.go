// Package excel renders ranked reliability snapshots as a spreadsheet, the
// hand-off format MSL field teams ask for.
package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"relimeter/internal/errors"
	"relimeter/models"
)

const sheetName = "Top Journals"

var headers = []string{
	"Rank", "Journal", "Therapeutic Area", "Use Case",
	"Score", "Band", "Uncertainty", "Snapshot Date", "Reasons",
}

// TopJournalsWorkbook builds an .xlsx workbook from ranked snapshot rows.
// Rows are written in the order given; the caller owns the ranking.
func TopJournalsWorkbook(rows []models.ReliabilitySnapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, errors.Wrap(err, "creating sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.Wrap(err, "removing default sheet")
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "computing header cell")
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, errors.Wrap(err, "writing header")
		}
	}

	for i, row := range rows {
		values := []interface{}{
			i + 1,
			row.JournalName,
			row.TherapeuticArea,
			row.UseCase,
			row.Score,
			row.Band,
			row.Uncertainty,
			row.SnapshotDate.Format("2006-01-02"),
			strings.Join(row.Reasons, "; "),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, errors.Wrap(err, "computing data cell")
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, errors.Wrapf(err, "writing row %d", i+1)
			}
		}
	}

	return f, nil
}

// ExportFilename derives a download name from the query context.
func ExportFilename(therapeuticArea, useCase string) string {
	area := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(therapeuticArea)), " ", "_")
	return fmt.Sprintf("top_journals_%s_%s.xlsx", area, strings.ToLower(useCase))
}
