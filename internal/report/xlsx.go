package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetFindings = "Findings"
	SheetSummary  = "Summary"
)

var findingHeaders = []string{
	"No.",
	"カテゴリ",
	"項目",
	"判定",
	"重要度",
	"指摘内容",
	"修正提案",
}

// WriteXLSX writes r as a workbook: every finding on one sheet, the run
// summary on another. Satisfied rules appear only when explicitly reported.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetFindings); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(SheetFindings); err == nil {
		f.SetActiveSheet(index)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	for i, h := range findingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetFindings, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(findingHeaders), 1)
	_ = f.SetCellStyle(SheetFindings, "A1", lastHeader, bold)

	for i, finding := range r.Findings {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetFindings, cell, v)
		}
		write(1, i+1)
		write(2, finding.Category)
		write(3, finding.Item)
		write(4, finding.Status.Label())
		write(5, finding.Importance.Label())
		write(6, finding.Message)
		write(7, finding.Suggestion)
	}

	_ = f.SetColWidth(SheetFindings, "A", "A", 6)
	_ = f.SetColWidth(SheetFindings, "B", "C", 20)
	_ = f.SetColWidth(SheetFindings, "D", "E", 10)
	_ = f.SetColWidth(SheetFindings, "F", "G", 60)

	summaryRows := [][2]any{
		{"ファイル", r.FileName},
		{"実行ID", r.RunID},
		{"チェック日時", r.CheckedAt.Format("2006-01-02 15:04:05")},
		{"ページ数", r.Pages},
		{"総チェック数", r.Summary.Total},
		{"OK", r.Summary.Pass},
		{"NG", r.Summary.Fail},
		{"警告", r.Summary.Warn},
		{"必須項目NG", r.Summary.RequiredFail},
		{"全体ステータス", r.Summary.Overall.Label()},
	}
	for i, kv := range summaryRows {
		row := i + 1
		_ = f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), kv[0])
		_ = f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), kv[1])
	}
	_ = f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summaryRows)), bold)
	_ = f.SetColWidth(SheetSummary, "A", "A", 18)
	_ = f.SetColWidth(SheetSummary, "B", "B", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
