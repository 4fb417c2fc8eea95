package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fwowebserver/internal/models"
)

// Font selects a typeface for a text operation. Style is "" or "B".
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Measurer reports the rendered width of text in page units
type Measurer interface {
	TextWidth(font Font, text string) float64
}

// OpKind distinguishes drawing operations
type OpKind int

const (
	OpText OpKind = iota
	OpImage
)

// Op is a single positioned drawing operation
type Op struct {
	Kind OpKind
	X, Y float64

	Text string
	Font Font

	Image         string
	Width, Height float64
}

// Page is an ordered list of drawing operations
type Page struct {
	Ops []Op
}

// Texts returns the text of every text operation on the page
func (p Page) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Chart image names on the final page
const (
	ImagePieces = "pieces"
	ImageWaste  = "waste"
	ImageCO2    = "co2"
)

// Options control the document geometry, in millimetres and points
type Options struct {
	Margin     float64 `yaml:"margin"`
	TitleY     float64 `yaml:"title_y"`
	StartY     float64 `yaml:"start_y"`
	LineStep   float64 `yaml:"line_step"`
	WrapWidth  float64 `yaml:"wrap_width"`
	PageHeight float64 `yaml:"page_height"`
	TitleSize  float64 `yaml:"title_size"`
	WeekSize   float64 `yaml:"week_size"`
	BodySize   float64 `yaml:"body_size"`
	FontFamily string  `yaml:"font_family"`
}

// DefaultOptions lay a plan out on A4 portrait. Text stops at 280 mm so
// the last line stays on a 297 mm page.
func DefaultOptions() Options {
	return Options{
		Margin:     20,
		TitleY:     20,
		StartY:     40,
		LineStep:   10,
		WrapWidth:  180,
		PageHeight: 280,
		TitleSize:  18,
		WeekSize:   14,
		BodySize:   12,
		FontFamily: "Helvetica",
	}
}

// chartSlot places one chart image on the final page
type chartSlot struct {
	name    string
	caption string
	y       float64
}

var chartSlots = []chartSlot{
	{ImagePieces, "Predicted sold pieces per day", 30},
	{ImageWaste, "Predicted waste per day (kg)", 115},
	{ImageCO2, "Predicted CO2 per day (kg CO2e)", 200},
}

const (
	chartWidth  = 170
	chartHeight = 75
)

// MenuLine renders a day's dishes as "dish (category)" joined by commas
func MenuLine(day models.PlanDay) string {
	parts := make([]string, 0, len(day.Menu))
	for _, d := range day.Menu {
		parts = append(parts, fmt.Sprintf("%s (%s)", d.Name, d.Category))
	}
	return strings.Join(parts, ", ")
}

// Layout paginates a weekly plan. images lists which chart images are
// available; the final chart page is added only when at least one is.
func Layout(plan *models.WeeklyPlan, m Measurer, opts Options, images map[string]bool) []Page {
	title := Font{Family: opts.FontFamily, Size: opts.TitleSize}
	week := Font{Family: opts.FontFamily, Size: opts.WeekSize}
	dayHeader := Font{Family: opts.FontFamily, Style: "B", Size: opts.BodySize}
	body := Font{Family: opts.FontFamily, Size: opts.BodySize}

	l := &layouter{opts: opts}
	l.newPage()
	l.text(opts.Margin, opts.TitleY, title,
		fmt.Sprintf("Weekly Menu Plan for %s starting %s", plan.Location, models.FormatDate(plan.StartDate)))

	l.y = opts.StartY
	for _, w := range plan.Weeks {
		l.ensure(opts.LineStep)
		l.text(opts.Margin, l.y, week, "Week starting "+models.FormatDate(w.StartDate))
		l.y += opts.LineStep

		for _, d := range w.Days {
			l.ensure(2 * opts.LineStep)
			l.text(opts.Margin, l.y, dayHeader, d.Date.Weekday().String()+":")
			l.y += opts.LineStep

			for _, line := range Wrap(MenuLine(d), opts.WrapWidth, func(s string) float64 {
				return m.TextWidth(body, s)
			}) {
				l.ensure(opts.LineStep)
				l.text(opts.Margin, l.y, body, line)
				l.y += opts.LineStep
			}
		}
		l.y += opts.LineStep
	}

	if len(images) > 0 {
		caption := Font{Family: opts.FontFamily, Style: "B", Size: opts.BodySize}
		l.newPage()
		for _, slot := range chartSlots {
			if !images[slot.name] {
				continue
			}
			l.text(opts.Margin, slot.y-3, caption, slot.caption)
			l.page().Ops = append(l.page().Ops, Op{
				Kind:   OpImage,
				X:      opts.Margin,
				Y:      slot.y,
				Image:  slot.name,
				Width:  chartWidth,
				Height: chartHeight,
			})
		}
	}
	return l.pages
}

type layouter struct {
	opts  Options
	pages []Page
	y     float64
}

func (l *layouter) newPage() {
	l.pages = append(l.pages, Page{})
	l.y = l.opts.TitleY
}

func (l *layouter) page() *Page {
	return &l.pages[len(l.pages)-1]
}

// ensure starts a new page when need more units do not fit below y
func (l *layouter) ensure(need float64) {
	if l.y+need > l.opts.PageHeight {
		l.newPage()
	}
}

func (l *layouter) text(x, y float64, f Font, s string) {
	l.page().Ops = append(l.page().Ops, Op{Kind: OpText, X: x, Y: y, Font: f, Text: s})
}

// Wrap splits text greedily into lines no wider than width. Words wider
// than a whole line are broken between characters.
func Wrap(text string, width float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur string
	for _, word := range words {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if measure(candidate) <= width {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		for measure(word) > width && utf8.RuneCountInString(word) > 1 {
			head, tail := splitToWidth(word, width, measure)
			lines = append(lines, head)
			word = tail
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// splitToWidth cuts the longest prefix of word that fits, at least one rune
func splitToWidth(word string, width float64, measure func(string) float64) (string, string) {
	cut := 0
	for i := range word {
		if i > 0 && measure(word[:i]) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(word)
		cut = size
	}
	return word[:cut], word[cut:]
}
