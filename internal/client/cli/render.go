package cli

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/netx"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(16)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// termNotifier prints flow outcomes as one styled line.
type termNotifier struct {
	w io.Writer
}

func newTermNotifier(w io.Writer) *termNotifier {
	return &termNotifier{w: w}
}

func (n *termNotifier) Success(msg string) {
	fmt.Fprintln(n.w, successStyle.Render("✔ "+msg))
}

func (n *termNotifier) Error(msg string) {
	fmt.Fprintln(n.w, errorStyle.Render("✘ "+msg))
}

// renderFieldErrors lists validation messages next to their field, in field
// order.
func renderFieldErrors(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(hintStyle.Render("  • " + fields[name]))
		b.WriteString("\n")
	}
	return b.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderHistory shows one row per entry with the server fields as received.
func renderHistory(entries []models.HistoryEntry) string {
	t := newTable("Time", "Disease", "Reason", "Recommendation", "Image")
	for _, e := range entries {
		t.Row(e.Time, e.DiseaseName, e.Reason, e.Recommendation, e.ImageURL)
	}
	return t.String()
}

func renderDiseases(list []models.Disease) string {
	t := newTable("ID", "Name", "Description")
	for _, d := range list {
		t.Row(strconv.FormatInt(d.ID, 10), d.Name, d.Description)
	}
	return t.String()
}

// renderResult shows an analysis with a readable disease name and, when the
// server sent one, the absolute URL of the stored image.
func renderResult(r *models.AnalysisResult, base *url.URL) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Diagnosis"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Disease") + r.DisplayName() + "\n")
	b.WriteString(labelStyle.Render("Reason") + r.Reason + "\n")
	b.WriteString(labelStyle.Render("Recommendation") + r.Recommendation + "\n")
	if r.ImageURL != "" {
		b.WriteString(labelStyle.Render("Image") + netx.ResolveImageURL(base, r.ImageURL) + "\n")
	}
	return b.String()
}

var homeSteps = []struct{ title, text string }{
	{"Create an Account", "Sign up to access the plant disease detection tool (signup)."},
	{"Upload a Photo", "Take a clear picture of the affected leaf (detect <path>)."},
	{"Get Diagnosis", "The model analyzes the plant and detects possible diseases."},
	{"Treat Your Plant", "Follow the recommendations to help your plant recover."},
}

func renderHome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Plant Disease Detector: follow 4 easy steps"))
	b.WriteString("\n")
	for i, s := range homeSteps {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, lipgloss.NewStyle().Bold(true).Render(s.title), mutedStyle.Render(s.text))
	}
	return b.String()
}

func renderAbout() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("About"))
	b.WriteString("\n")
	b.WriteString("Plant Disease Detector helps keep plants healthy. Upload a photo of a\n")
	b.WriteString("leaf and the service identifies possible diseases and recommends a\n")
	b.WriteString("treatment. Past analyses stay available in your history.\n")
	return b.String()
}
