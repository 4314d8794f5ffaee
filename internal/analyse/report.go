// BYZRA ⸻ internal/analyse/report.go
// format analysis reports

package analyse

import (
	"fmt"
	"strings"

	"framemark/internal/util"
)

// result of file metadata analysis
type AnalysisReport struct {
	Path        string
	FileType    FileType
	Source      string
	Capture     *Capture
	Display     Display
	MissingTags []Tag
	ExtractErr  error
}

// display rows in the order the watermark uses them
func (r *AnalysisReport) fields() [][2]string {
	d := r.Display
	return [][2]string{
		{"camera", d.Camera},
		{"camera_maker", d.Maker},
		{"lens", d.Lens},
		{"focal_length", d.FocalLength},
		{"aperture", d.Aperture},
		{"shutter_speed", d.ShutterSpeed},
		{"iso", d.ISO},
		{"date", d.Date},
		{"time", d.Time},
		{"gps", d.GPS},
	}
}

func GenerateReport(report *AnalysisReport) string {
	var sb strings.Builder

	// info header
	sb.WriteString(util.NSH.Render(fmt.Sprintf("File: %s", report.Path)))
	sb.WriteString("\n")
	sb.WriteString(util.NSH.Render(fmt.Sprintf("Type: %s (%s), tags via %s",
		report.FileType.Format, report.FileType.MimeType, report.Source)))
	sb.WriteString("\n\n")

	if report.Capture == nil {
		sb.WriteString(util.BRH.Render("[X] No capture metadata available"))
		sb.WriteString("\n")
		if report.ExtractErr != nil {
			sb.WriteString(util.SUB.Render("    " + report.ExtractErr.Error()))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	sb.WriteString(util.LBL.Render("Capture Metadata:"))
	sb.WriteString("\n")

	for _, f := range report.fields() {
		if f[1] == "" {
			sb.WriteString(fmt.Sprintf(" %s %s: %s\n",
				util.ORN.Render("!"),
				util.NSH.Render(f[0]),
				util.NLL.Render("(missing)")))
			continue
		}
		sb.WriteString(fmt.Sprintf(" %s %s: %s\n",
			util.ORN.Render("•"),
			util.NSH.Render(f[0]),
			f[1]))
	}

	// summary
	sb.WriteString("\n")
	if len(report.MissingTags) > 0 {
		names := make([]string, len(report.MissingTags))
		for i, t := range report.MissingTags {
			names[i] = string(t)
		}
		sb.WriteString(util.SEC.Render(fmt.Sprintf(
			"[!] %d tag(s) unavailable: %s", len(names), strings.Join(names, ", "))))
		sb.WriteString("\n")
		sb.WriteString(util.SUB.Render("[i] Missing fields render blank unless --strict is set"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(util.LBL.Render("✓ All capture fields present"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// creates a machine-readable report
func GenerateSimplifiedReport(report *AnalysisReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("file: %s\n", report.Path))
	sb.WriteString(fmt.Sprintf("format: %s\n", report.FileType.Format))
	sb.WriteString(fmt.Sprintf("mimetype: %s\n", report.FileType.MimeType))
	sb.WriteString(fmt.Sprintf("source: %s\n", report.Source))

	for _, f := range report.fields() {
		sb.WriteString(fmt.Sprintf("%s: %s\n", f[0], f[1]))
	}

	sb.WriteString(fmt.Sprintf("missing_count: %d\n", len(report.MissingTags)))

	return sb.String()
}
