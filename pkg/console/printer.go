// Package console prints pomo's human-readable progress stream.
//
// Every line except banners and plain detail lines carries an [HH:MM:SS]
// prefix. Colours come from a lipgloss renderer bound to the output writer,
// so redirected output and test buffers stay free of escape codes.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// TimestampFormat is the layout of the line prefix.
const TimestampFormat = "15:04:05"

const ruleWidth = 60

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	amber      = lipgloss.Color("#F5C26B")
	errorRed   = lipgloss.Color("#FF6B6B")
	mutedGray  = lipgloss.Color("#6B7280")
)

// Printer writes timestamped progress lines.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time

	plain   lipgloss.Style
	header  lipgloss.Style
	section lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style

	inProgress bool
}

// New creates a printer writing to w. A nil now uses time.Now.
func New(w io.Writer, now func() time.Time) *Printer {
	if now == nil {
		now = time.Now
	}
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		now:     now,
		plain:   r.NewStyle(),
		header:  r.NewStyle().Bold(true),
		section: r.NewStyle().Foreground(salmonPink).Bold(true),
		success: r.NewStyle().Foreground(mintGreen).Bold(true),
		warning: r.NewStyle().Foreground(amber),
		failure: r.NewStyle().Foreground(errorRed).Bold(true),
		muted:   r.NewStyle().Foreground(mutedGray),
	}
}

// Timestamp returns the current time in line-prefix format.
func (p *Printer) Timestamp() string {
	return p.now().Format(TimestampFormat)
}

// line writes one prefixed line. Callers hold p.mu.
func (p *Printer) line(style lipgloss.Style, msg string) {
	p.breakProgress()
	fmt.Fprintf(p.w, "[%s] %s\n", p.Timestamp(), style.Render(msg))
}

// breakProgress terminates an unfinished progress line so the next entry
// starts on its own line.
func (p *Printer) breakProgress() {
	if p.inProgress {
		fmt.Fprintln(p.w)
		p.inProgress = false
	}
}

// Banner prints an untimestamped title framed by rules.
func (p *Printer) Banner(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.breakProgress()
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(p.w, p.header.Render(rule))
	fmt.Fprintln(p.w, p.header.Render(" "+title))
	fmt.Fprintln(p.w, p.header.Render(rule))
}

// Rule prints a timestamped title between two rules, preceded by a blank line.
func (p *Printer) Rule(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.breakProgress()
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(p.w, "\n%s\n", p.header.Render(rule))
	fmt.Fprintf(p.w, "[%s] %s\n", p.Timestamp(), p.header.Render(title))
	fmt.Fprintln(p.w, p.header.Render(rule))
}

// Section prints "====== TITLE ======" after a blank line.
func (p *Printer) Section(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.breakProgress()
	fmt.Fprintln(p.w)
	p.line(p.section, fmt.Sprintf("====== %s ======", strings.ToUpper(title)))
}

// Infof prints an informational line.
func (p *Printer) Infof(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(p.plain, fmt.Sprintf(format, args...))
}

// Successf prints a line with a check mark.
func (p *Printer) Successf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(p.success, "✓ "+fmt.Sprintf(format, args...))
}

// Warnf prints a "Warning:" line.
func (p *Printer) Warnf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(p.warning, "Warning: "+fmt.Sprintf(format, args...))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(p.failure, fmt.Sprintf(format, args...))
}

// Plainf prints an untimestamped detail line, used for lists and tips.
func (p *Printer) Plainf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.breakProgress()
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf(format, args...)))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.breakProgress()
	fmt.Fprintln(p.w)
}

// BeginProgress starts a "Progress: " line that Tick appends to.
func (p *Printer) BeginProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.breakProgress()
	fmt.Fprintf(p.w, "[%s] Progress: ", p.Timestamp())
	p.inProgress = true
}

// Tick appends one progress marker.
func (p *Printer) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, ".")
}

// EndProgress closes the progress line with suffix.
func (p *Printer) EndProgress(suffix string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w, suffix)
	p.inProgress = false
}
