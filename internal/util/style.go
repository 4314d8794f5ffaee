// BYZRA ⸻ internal/util/style.go
// defines CLI visual style, color roles, ornaments, and motion

package util

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

type ColorConfig struct {
	Colors struct {
		CHRM string
		HEAT string
		HOTP string
		GUNM string
		VBLK string
		CSTL string
	}
}

// ╭─ COLOR ROLES ───────────────────────────────╮
var (
	CHRM lipgloss.Color
	HEAT lipgloss.Color
	HOTP lipgloss.Color
	GUNM lipgloss.Color
	VBLK lipgloss.Color
	CSTL lipgloss.Color
)

// ╭─ STYLE DEFINITIONS ─────────────────────────╮
var (
	BRH lipgloss.Style
	BRU lipgloss.Style
	LBL lipgloss.Style
	SUB lipgloss.Style
	NSH lipgloss.Style
	SHE lipgloss.Style
	SEC lipgloss.Style
	NLL lipgloss.Style
	ORN lipgloss.Style
)

func init() {
	// load from TOML
	config := loadColorConfig()

	CHRM = lipgloss.Color(config.Colors.CHRM)
	HEAT = lipgloss.Color(config.Colors.HEAT)
	HOTP = lipgloss.Color(config.Colors.HOTP)
	GUNM = lipgloss.Color(config.Colors.GUNM)
	VBLK = lipgloss.Color(config.Colors.VBLK)
	CSTL = lipgloss.Color(config.Colors.CSTL)

	BRH = lipgloss.NewStyle().Foreground(HOTP).Bold(true)
	BRU = lipgloss.NewStyle().Foreground(HOTP).Bold(true).Underline(true)
	LBL = lipgloss.NewStyle().Foreground(HEAT).Bold(true)
	SUB = lipgloss.NewStyle().Foreground(GUNM)
	NSH = lipgloss.NewStyle().Foreground(CHRM).Bold(true)
	SHE = lipgloss.NewStyle().Foreground(CHRM).Bold(true).Underline(true)
	SEC = lipgloss.NewStyle().Foreground(CSTL).Bold(true)
	NLL = lipgloss.NewStyle().Foreground(VBLK).Faint(true)
	ORN = lipgloss.NewStyle().Foreground(GUNM).Bold(true)
}

func loadColorConfig() ColorConfig {
	var config ColorConfig

	paths := []string{
		"palette.toml",
		"config/palette.toml",
		filepath.Join(os.Getenv("HOME"), ".framemark/config/palette.toml"),
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, &config); err == nil {
			return config
		}
	}

	// default values
	config.Colors.CHRM = "#C0C0C0"
	config.Colors.HEAT = "#D4A017"
	config.Colors.HOTP = "#E2231A"
	config.Colors.GUNM = "#4A4A4A"
	config.Colors.VBLK = "#121212"
	config.Colors.CSTL = "#9C9C9C"

	return config
}

// ╭─ ORNAMENT ──────────────────────────────────╮
var (
	Ornament = ORN.Render("›") // prefix UX lines
	Divider  = SUB.Render(strings.Repeat("─", 48))
)

// ╭─ SPINNER ───────────────────────────────────╮
func SpinWhile(label string, fn func() (string, error)) (string, error) {
	s := spinner.New(spinner.WithSpinner(spinner.Meter))
	ticker := time.NewTicker(s.Spinner.FPS)
	defer ticker.Stop()

	done := make(chan struct{})
	stopped := make(chan struct{})
	result := make(chan struct {
		out string
		err error
	})

	go func() {
		defer close(stopped)
		frame := 0
		frames := s.Spinner.Frames
		for {
			select {
			case <-ticker.C:
				fmt.Printf("\r%s %s", ORN.Render(frames[frame]), LBL.Render(label))
				frame = (frame + 1) % len(frames)
			case <-done:
				return
			}
		}
	}()

	go func() {
		out, err := fn()
		result <- struct {
			out string
			err error
		}{out, err}
	}()

	res := <-result
	close(done)
	<-stopped
	ClearLine()
	return res.out, res.err
}

// ╭─ PROGRESS ──────────────────────────────────╮
// single-line batch progress, redrawn in place
type ProgressLine struct {
	mu    sync.Mutex
	bar   progress.Model
	total int
	done  int
}

func NewProgressLine(total int) *ProgressLine {
	bar := progress.New(
		progress.WithGradient(string(HEAT), string(HOTP)),
		progress.WithWidth(40),
	)
	return &ProgressLine{bar: bar, total: total}
}

// advances by one & redraws with the last processed name
func (p *ProgressLine) Step(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	pct := 1.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total)
	}

	ClearLine()
	fmt.Printf("%s %s %s",
		p.bar.ViewAs(pct),
		NSH.Render(fmt.Sprintf("%d/%d", p.done, p.total)),
		SUB.Render(name))
}

func (p *ProgressLine) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Println()
}

func SuccessSymbol() string {
	return LBL.Render("[✓]")
}

func WarningSymbol() string {
	return SEC.Render("[!]")
}

func InfoSymbol() string {
	return NSH.Render("[i]")
}

func ErrorSymbol() string {
	return BRH.Render("[X]")
}

// ╭─ CLEAR ─────────────────────────────────────╮
func Wiper() {
	if !isTerminal() {
		return
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	cmd.Run()
}

// erases the current terminal line
func ClearLine() {
	fmt.Print("\r\033[K")
}

func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
