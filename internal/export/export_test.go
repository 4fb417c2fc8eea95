package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"fwowebserver/internal/charts"
	"fwowebserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedMeasurer gives every rune the same width
type fixedMeasurer float64

func (m fixedMeasurer) TextWidth(_ Font, text string) float64 {
	return float64(m) * float64(utf8.RuneCountInString(text))
}

func samplePlan(weeks, daysPerWeek int) *models.WeeklyPlan {
	start := time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC)
	plan := &models.WeeklyPlan{Location: models.LocationChemicum, StartDate: start}
	for w := 0; w < weeks; w++ {
		ws := start.AddDate(0, 0, 7*w)
		week := models.PlanWeek{StartDate: ws}
		for d := 0; d < daysPerWeek; d++ {
			day := models.PlanDay{Date: ws.AddDate(0, 0, d)}
			for s := range day.Menu {
				day.Menu[s] = models.PlannedDish{Name: fmt.Sprintf("Dish %d-%d-%d", w, d, s), Category: models.CategoryVegan}
			}
			week.Days = append(week.Days, day)
		}
		plan.Weeks = append(plan.Weeks, week)
	}
	return plan
}

func allTexts(pages []Page) []string {
	var out []string
	for _, p := range pages {
		out = append(out, p.Texts()...)
	}
	return out
}

func TestLayout_HeadersAndListings(t *testing.T) {
	plan := samplePlan(5, 5)
	pages := Layout(plan, fixedMeasurer(2.5), DefaultOptions(), nil)

	texts := allTexts(pages)
	assert.Equal(t, "Weekly Menu Plan for Chemicum starting 2024-11-11", texts[0])

	var weeks, days int
	for _, s := range texts {
		if strings.HasPrefix(s, "Week starting ") {
			weeks++
		}
		if strings.HasSuffix(s, "day:") {
			days++
		}
	}
	assert.Equal(t, 5, weeks)
	assert.Equal(t, 25, days)
	assert.Greater(t, len(pages), 1)

	title := pages[0].Ops[0]
	assert.Equal(t, 20.0, title.X)
	assert.Equal(t, 20.0, title.Y)
	assert.Equal(t, 18.0, title.Font.Size)
	assert.Equal(t, 40.0, pages[0].Ops[1].Y)
}

func TestLayout_StaysInsidePage(t *testing.T) {
	opts := DefaultOptions()
	pages := Layout(samplePlan(5, 5), fixedMeasurer(2.5), opts, nil)

	for i, p := range pages {
		for _, op := range p.Ops {
			assert.LessOrEqual(t, op.Y, opts.PageHeight, "page %d: %q", i, op.Text)
		}
		if i > 0 {
			assert.Equal(t, opts.TitleY, p.Ops[0].Y, "continuation pages restart at the top")
		}
	}
}

func TestLayout_WrapsToColumnWidth(t *testing.T) {
	opts := DefaultOptions()
	m := fixedMeasurer(2.5)
	pages := Layout(samplePlan(1, 1), m, opts, nil)

	var bodyLines []Op
	for _, op := range pages[0].Ops {
		if op.Kind == OpText && op.Font.Style == "" && op.Font.Size == opts.BodySize {
			bodyLines = append(bodyLines, op)
		}
	}
	require.Greater(t, len(bodyLines), 1, "a 4-dish listing must wrap at 180 units")
	for _, op := range bodyLines {
		assert.LessOrEqual(t, m.TextWidth(op.Font, op.Text), opts.WrapWidth)
	}
	joined := make([]string, 0, len(bodyLines))
	for _, op := range bodyLines {
		joined = append(joined, op.Text)
	}
	assert.Equal(t, MenuLine(samplePlan(1, 1).Weeks[0].Days[0]), strings.Join(joined, " "))
	for i := 1; i < len(bodyLines); i++ {
		assert.Equal(t, opts.LineStep, bodyLines[i].Y-bodyLines[i-1].Y)
	}
}

func TestLayout_PageBreakBeforeDayHeader(t *testing.T) {
	opts := DefaultOptions()
	opts.PageHeight = 75
	// title, then week header at 40, day at 50, one line at 60, day header
	// would need 70+20 > 75 so it moves to the next page
	pages := Layout(samplePlan(1, 2), fixedMeasurer(0.1), opts, nil)

	require.Len(t, pages, 2)
	first := pages[1].Ops[0]
	assert.Equal(t, "Tuesday:", first.Text)
	assert.Equal(t, 20.0, first.Y)
}

func TestLayout_ChartPage(t *testing.T) {
	pages := Layout(samplePlan(1, 1), fixedMeasurer(2), DefaultOptions(), map[string]bool{ImagePieces: true, ImageCO2: true})
	last := pages[len(pages)-1]

	var images []string
	for _, op := range last.Ops {
		if op.Kind == OpImage {
			images = append(images, op.Image)
		}
	}
	assert.Equal(t, []string{ImagePieces, ImageCO2}, images)
	assert.Contains(t, last.Texts(), "Predicted sold pieces per day")
	assert.NotContains(t, last.Texts(), "Predicted waste per day (kg)")
}

func TestWrap(t *testing.T) {
	measure := func(s string) float64 { return float64(utf8.RuneCountInString(s)) }

	assert.Equal(t, []string{"aaa bbb", "ccc"}, Wrap("aaa bbb ccc", 7, measure))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, Wrap("abcdefghijk", 5, measure))
	assert.Equal(t, []string{"ab", "äöüxy", "z"}, Wrap("ab äöüxyz", 5, measure))
	assert.Nil(t, Wrap("   ", 5, measure))
}

func TestMenuLine(t *testing.T) {
	day := models.PlanDay{Menu: [models.MenuSlots]models.PlannedDish{
		{Name: "Tofu", Category: models.CategoryVegan},
		{Name: models.UnknownDishName},
		{Name: "Salmon", Category: models.CategoryFish},
		{Name: "Stew", Category: models.CategoryMeat},
	}}
	assert.Equal(t, "Tofu (vegan), Unknown Dish (), Salmon (fish), Stew (meat)", MenuLine(day))
}

func TestExportWeeklyPlanDocument(t *testing.T) {
	r := charts.NewRenderer(400, 200)
	b := charts.NewBuilder(charts.DefaultStyle(), charts.DefaultLimits())
	plan := samplePlan(2, 5)
	plan.Weeks[0].Days[0].Menu[0].Name = "Kasvispyörykät"

	p, w, c := b.WeeklyCharts(models.PlanSeries(plan))
	var images ChartImages
	var err error
	images.Pieces, err = r.Render(p)
	require.NoError(t, err)
	images.Waste, err = r.Render(w)
	require.NoError(t, err)
	images.CO2, err = r.Render(c)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, NewExporter(DefaultOptions()).ExportWeeklyPlanDocument(&out, plan, images))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
}

func TestExportWeeklyPlanDocument_NoPartialOutput(t *testing.T) {
	var out bytes.Buffer
	err := NewExporter(DefaultOptions()).ExportWeeklyPlanDocument(&out, samplePlan(1, 1), ChartImages{Pieces: []byte("not a png")})
	assert.Error(t, err)
	assert.Zero(t, out.Len())

	err = NewExporter(DefaultOptions()).ExportWeeklyPlanDocument(&out, &models.WeeklyPlan{}, ChartImages{})
	assert.Error(t, err)
	assert.Zero(t, out.Len())
}

func TestExportWeeklyPlanDocument_SingleDayKeepsChartPage(t *testing.T) {
	r := charts.NewRenderer(400, 200)
	b := charts.NewBuilder(charts.DefaultStyle(), charts.DefaultLimits())
	plan := samplePlan(1, 1)

	p, w, c := b.WeeklyCharts(models.PlanSeries(plan))
	var images ChartImages
	var err error
	images.Pieces, err = r.Render(p)
	require.NoError(t, err)
	images.Waste, err = r.Render(w)
	require.NoError(t, err)
	images.CO2, err = r.Render(c)
	require.NoError(t, err)

	available := make(map[string]bool)
	for name := range images.byName() {
		available[name] = true
	}
	require.Len(t, available, 3)

	pages := Layout(plan, fixedMeasurer(2.5), DefaultOptions(), available)
	require.Len(t, pages, 2)
	var embedded []string
	for _, op := range pages[len(pages)-1].Ops {
		if op.Kind == OpImage {
			embedded = append(embedded, op.Image)
		}
	}
	assert.Equal(t, []string{ImagePieces, ImageWaste, ImageCO2}, embedded)

	var out bytes.Buffer
	require.NoError(t, NewExporter(DefaultOptions()).ExportWeeklyPlanDocument(&out, plan, images))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
}
