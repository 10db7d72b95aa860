package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/a3tai/drawing-checker/internal/checker"
)

// NoIssuesMessage is printed when every rule is satisfied
const NoIssuesMessage = "指摘事項はありませんでした。"

// TruncatedNotice warns that findings may be missing text from later pages
const TruncatedNotice = "注意: テキスト量が上限を超えたため、後半ページの内容は確認されていません。"

var (
	ruleLine  = strings.Repeat("=", 80)
	thinLine  = strings.Repeat("-", 80)
	headColor = color.New(color.FgCyan, color.Bold)
)

// WriteText prints the human-readable summary followed by the findings that
// need attention, grouped by category in the order the categories first appear.
func WriteText(w io.Writer, r *Report) error {
	var buf bytes.Buffer

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(&buf, ruleLine)
	headColor.Fprintln(&buf, "チェック結果サマリー")
	fmt.Fprintln(&buf, ruleLine)
	if r.FileName != "" {
		fmt.Fprintf(&buf, "ファイル: %s (%dページ)\n", r.FileName, r.Pages)
	}
	if r.TextTruncated() {
		yellow.Fprintln(&buf, TruncatedNotice)
	}
	fmt.Fprintf(&buf, "総チェック数: %d\n", r.Summary.Total)
	fmt.Fprintf(&buf, "  OK: %d\n", r.Summary.Pass)
	fmt.Fprintf(&buf, "  NG: %d\n", r.Summary.Fail)
	fmt.Fprintf(&buf, "  警告: %d\n", r.Summary.Warn)
	fmt.Fprintf(&buf, "  必須項目NG: %d\n", r.Summary.RequiredFail)
	fmt.Fprintf(&buf, "  全体ステータス: ")
	if r.Summary.Passed() {
		green.Fprintln(&buf, r.Summary.Overall.Label())
	} else {
		red.Fprintln(&buf, r.Summary.Overall.Label())
	}
	fmt.Fprintln(&buf, ruleLine)

	issues := r.Issues()
	if len(issues) == 0 {
		fmt.Fprintf(&buf, "\n%s\n", NoIssuesMessage)
		_, err := w.Write(buf.Bytes())
		return err
	}

	fmt.Fprintln(&buf, "\n指摘事項:")
	fmt.Fprintln(&buf, thinLine)

	for _, group := range groupByCategory(issues) {
		headColor.Fprintf(&buf, "\n【%s】\n", group.category)
		for i, f := range group.findings {
			symbol, c := "!", yellow
			if f.Status == checker.StatusFail {
				symbol, c = "✗", red
			}
			c.Fprintf(&buf, "  %d. %s 【%s】 %s\n", i+1, symbol, f.Importance.Label(), f.Item)
			fmt.Fprintf(&buf, "     %s\n", f.Message)
			if f.Suggestion != "" {
				fmt.Fprintf(&buf, "     → %s\n", f.Suggestion)
			}
			fmt.Fprintln(&buf)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

type categoryGroup struct {
	category string
	findings []checker.Finding
}

func groupByCategory(findings []checker.Finding) []categoryGroup {
	var groups []categoryGroup
	index := make(map[string]int)
	for _, f := range findings {
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, categoryGroup{category: f.Category})
		}
		groups[i].findings = append(groups[i].findings, f)
	}
	return groups
}
