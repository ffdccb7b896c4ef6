package pdf

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"workhub/internal/models"
	"workhub/internal/planner"
)

// Generator: интерфейс, удобно мокать в тестах
type Generator interface {
	WorkspaceReport(w io.Writer, data ReportData) error
}

type ReportData struct {
	Workspace   models.WorkspaceStat
	Counts      map[planner.Bucket]int
	Timeline    []planner.TimelineGroup
	GeneratedAt time.Time
}

// ReportGenerator renders workspace reports. Without a readable TTF font it
// falls back to the Helvetica core font.
type ReportGenerator struct {
	FontPath string
	fontName string
	utf8     bool
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	g := &ReportGenerator{FontPath: fontPath, fontName: "Helvetica"}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err == nil {
			g.fontName = "DejaVu"
			g.utf8 = true
		}
	}
	return g
}

func (g *ReportGenerator) WorkspaceReport(w io.Writer, data ReportData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Workspace report: %s", data.Workspace.Name), g.utf8)
	pdf.SetAuthor("workhub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	if g.utf8 {
		pdf.AddUTF8Font(g.fontName, "", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	}
	tr := g.translator(pdf)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ===== Header
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, tr(data.Workspace.Name), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, "Generated "+data.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	// ===== Stats
	g.sectionTitle(pdf, "Summary")
	ws := data.Workspace
	g.kvLine(pdf, "Projects", fmt.Sprintf("%d", ws.ProjectsCount))
	g.kvLine(pdf, "Tasks", fmt.Sprintf("%d", ws.AssignedTasksCount))
	g.kvLine(pdf, "In progress", fmt.Sprintf("%d", ws.InProgressCount))
	g.kvLine(pdf, "Completed", fmt.Sprintf("%d", ws.CompletedTasksCount))
	rate := "n/a"
	if ws.CompletionRate != nil {
		rate = fmt.Sprintf("%d%%", *ws.CompletionRate)
	}
	g.kvLine(pdf, "Completion", rate)
	g.hr(pdf)

	// ===== Board
	g.sectionTitle(pdf, "Board")
	for _, b := range []planner.Bucket{
		planner.BucketOverdue, planner.BucketToday, planner.BucketThisWeek, planner.BucketLater, planner.BucketDone,
	} {
		g.kvLine(pdf, string(b), fmt.Sprintf("%d", data.Counts[b]))
	}
	g.hr(pdf)

	// ===== Activity
	g.sectionTitle(pdf, "Activity")
	if len(data.Timeline) == 0 {
		pdf.CellFormat(0, 6, "No activity in this period.", "", 1, "L", false, 0, "")
	}
	for _, group := range data.Timeline {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("%s  (%s tracked)", group.Label, FormatSeconds(group.TrackedSeconds)), "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		for _, it := range group.Items {
			line := fmt.Sprintf("%s  %s", it.Timestamp.Format("Jan 2 15:04"), tr(it.Title()))
			if it.Kind == planner.KindTimeEntry {
				line += "  [" + FormatSeconds(it.TimeEntry.Duration) + "]"
			} else {
				line += "  [done]"
			}
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
		pdf.Ln(2)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// FormatSeconds renders a duration as H:MM.
func FormatSeconds(sec int64) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/3600, (sec%3600)/60)
}

func (g *ReportGenerator) translator(pdf *gofpdf.Fpdf) func(string) string {
	if g.utf8 {
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
