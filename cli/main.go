package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#155C2C")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#485460")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	labelStyle        = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("241"))
	focusedLabelStyle = labelStyle.Copy().Foreground(lipgloss.Color("#eec591")).Bold(true)
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const (
	viewMain           = "main"
	viewPrediction     = "prediction"
	viewRecommendation = "recommendation"
	viewWeekly         = "weekly"
	viewOccupancy      = "occupancy"
)

// Model defines the application state
type Model struct {
	mainMenu    list.Model
	menuTable   table.Model
	menuCount   int
	form        form
	spinner     spinner.Model
	client      *ApiClient
	loading     bool
	currentView string
	result      string
	message     string
	error       string
}

// item represents a list item
type item struct {
	title, desc, view string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Daily Prediction", desc: "Predict biowaste and emissions for planned meals", view: viewPrediction},
		item{title: "Daily Menus", desc: "Show the recommended menus of a service day", view: viewRecommendation},
		item{title: "Weekly Plan", desc: "Download a weekly menu plan document", view: viewWeekly},
		item{title: "Occupancy", desc: "Show hourly occupancy of a restaurant", view: viewOccupancy},
		item{title: "Exit", desc: "Exit the application"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "Food Waste Forecasts"

	menuTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Dishes", Width: 60},
			{Title: "Pieces", Width: 8},
			{Title: "CO2/cust", Width: 9},
			{Title: "Waste/cust", Width: 10},
		}),
		table.WithHeight(7),
	)

	return Model{
		mainMenu:    mainMenu,
		menuTable:   menuTable,
		spinner:     s,
		client:      NewApiClient(),
		currentView: viewMain,
	}
}

// nextWeekday returns the first weekday after today
func nextWeekday(now time.Time) time.Time {
	d := now.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// nextMonday returns the first Monday strictly after today
func nextMonday(now time.Time) time.Time {
	d := now.AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func formFor(view string) form {
	now := time.Now()
	switch view {
	case viewPrediction:
		return newForm(
			field{label: "Restaurant", placeholder: "Chemicum", value: "Chemicum"},
			field{label: "Chicken", placeholder: "0-300", value: "0"},
			field{label: "Fish", placeholder: "0-300", value: "0"},
			field{label: "Meat", placeholder: "0-300", value: "0"},
			field{label: "Vegan", placeholder: "0-300", value: "0"},
			field{label: "Vegetarian", placeholder: "0-300", value: "0"},
		)
	case viewRecommendation:
		return newForm(
			field{label: "Restaurant", placeholder: "Chemicum", value: "Chemicum"},
			field{label: "Date", placeholder: "YYYY-MM-DD", value: nextWeekday(now).Format("2006-01-02")},
		)
	case viewWeekly:
		return newForm(
			field{label: "Restaurant", placeholder: "Chemicum", value: "Chemicum"},
			field{label: "Start Monday", placeholder: "YYYY-MM-DD", value: nextMonday(now).Format("2006-01-02")},
			field{label: "Weeks", placeholder: "1-5", value: "1"},
			field{label: "Save as", placeholder: "weekly_menu_plan.pdf", value: "weekly_menu_plan.pdf"},
		)
	case viewOccupancy:
		return newForm(
			field{label: "Restaurant", placeholder: "Chemicum", value: "Chemicum"},
			field{label: "Day", placeholder: "Monday", value: "Monday"},
		)
	}
	return form{}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.currentView == viewMain {
				return m, tea.Quit
			}
		case "esc":
			m.currentView = viewMain
			m.result, m.message, m.error = "", "", ""
			m.loading = false
			return m, nil
		case "enter":
			if m.currentView == viewMain {
				selected, ok := m.mainMenu.SelectedItem().(item)
				if !ok {
					return m, nil
				}
				if selected.view == "" {
					return m, tea.Quit
				}
				m.currentView = selected.view
				m.form = formFor(selected.view)
				m.result, m.message, m.error = "", "", ""
				m.menuCount = 0
				return m, nil
			}
			if m.loading {
				return m, nil
			}
			cmd, err := m.submit()
			if err != nil {
				m.error = err.Error()
				return m, nil
			}
			m.loading = true
			m.error, m.message = "", ""
			return m, cmd
		}
	case predictionMsg:
		m.loading = false
		m.result = predictionView(msg.prediction)
		return m, nil
	case recommendationMsg:
		m.loading = false
		m.menuTable.SetRows(menuRows(msg.recommendation))
		m.menuCount = len(msg.recommendation.Menus)
		m.result = ""
		if len(msg.recommendation.Menus) == 0 {
			m.message = "No menus recommended for this day"
		}
		return m, nil
	case occupancyMsg:
		m.loading = false
		m.result = renderBars(msg.occupancy.Chart)
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.loading = false
		m.message = msg.message
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case viewMain:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	default:
		m.form, cmd = m.form.Update(msg)
	}
	return m, cmd
}

// submit validates the current form and returns the request command
func (m Model) submit() (tea.Cmd, error) {
	f := m.form
	switch m.currentView {
	case viewPrediction:
		var counts [5]int
		for i := range counts {
			n, err := strconv.Atoi(f.value(i + 1))
			if err != nil {
				return nil, fmt.Errorf("%s must be a whole number", f.labels[i+1])
			}
			counts[i] = n
		}
		return fetchPrediction(m.client, f.value(0), MealCounts{
			Chicken:    counts[0],
			Fish:       counts[1],
			Meat:       counts[2],
			Vegan:      counts[3],
			Vegetarian: counts[4],
		}), nil
	case viewRecommendation:
		return fetchRecommendation(m.client, f.value(0), f.value(1)), nil
	case viewWeekly:
		weeks, err := strconv.Atoi(f.value(2))
		if err != nil {
			return nil, fmt.Errorf("weeks must be a whole number")
		}
		path := f.value(3)
		if path == "" {
			path = "weekly_menu_plan.pdf"
		}
		return downloadWeeklyPlan(m.client, WeeklyPlanRequest{
			Location:  f.value(0),
			StartDate: f.value(1),
			Weeks:     weeks,
		}, path), nil
	case viewOccupancy:
		return fetchOccupancy(m.client, f.value(0), f.value(1)), nil
	}
	return nil, fmt.Errorf("nothing to submit")
}

// View renders the UI
func (m Model) View() string {
	if m.currentView == viewMain {
		return docStyle.Render(m.mainMenu.View())
	}

	titles := map[string]string{
		viewPrediction:     "Daily Prediction",
		viewRecommendation: "Daily Menus",
		viewWeekly:         "Weekly Plan",
		viewOccupancy:      "Occupancy",
	}

	view := titleStyle.Render(titles[m.currentView]) + "\n\n" + m.form.View() + "\n"
	if m.loading {
		view += m.spinner.View() + " Waiting for forecasts...\n"
	}
	if m.error != "" {
		view += errorStyle.Render(m.error) + "\n"
	}
	if m.message != "" {
		view += successStyle.Render(m.message) + "\n"
	}
	if m.currentView == viewRecommendation && m.menuCount > 0 {
		view += "\n" + m.menuTable.View() + "\n"
	}
	if m.result != "" {
		view += "\n" + m.result
	}
	view += helpStyle.Render("\ntab: next field • enter: submit • esc: back")
	return docStyle.Render(view)
}

// Custom message types for the tea.Model
type predictionMsg struct {
	prediction *DailyPrediction
}

type recommendationMsg struct {
	recommendation *DailyRecommendation
}

type occupancyMsg struct {
	occupancy *Occupancy
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

func fetchPrediction(client *ApiClient, location string, counts MealCounts) tea.Cmd {
	return func() tea.Msg {
		p, err := client.GetDailyPrediction(location, counts)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching prediction: %v", err)}
		}
		return predictionMsg{prediction: p}
	}
}

func fetchRecommendation(client *ApiClient, location, date string) tea.Cmd {
	return func() tea.Msg {
		r, err := client.GetDailyRecommendation(location, date)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching menus: %v", err)}
		}
		return recommendationMsg{recommendation: r}
	}
}

func fetchOccupancy(client *ApiClient, location, day string) tea.Cmd {
	return func() tea.Msg {
		o, err := client.GetOccupancy(location, day)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching occupancy: %v", err)}
		}
		return occupancyMsg{occupancy: o}
	}
}

func downloadWeeklyPlan(client *ApiClient, req WeeklyPlanRequest, path string) tea.Cmd {
	return func() tea.Msg {
		n, err := client.DownloadWeeklyPlan(req, path)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error creating weekly plan: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("Saved %s (%d KB)", path, (n+1023)/1024)}
	}
}

func predictionView(p *DailyPrediction) string {
	var parts []string
	if len(p.Charts.Input.Labels) > 0 {
		parts = append(parts, renderBars(p.Charts.Input))
	}
	for _, spec := range p.Charts.Prediction {
		parts = append(parts, renderBars(spec))
	}
	return strings.Join(parts, "\n")
}

func menuRows(r *DailyRecommendation) []table.Row {
	rows := make([]table.Row, 0, len(r.Menus))
	for _, menu := range r.Menus {
		var names []string
		for _, d := range menu.Slots {
			if d != nil {
				names = append(names, d.Name)
			}
		}
		rows = append(rows, table.Row{
			strconv.Itoa(menu.Rank),
			strings.Join(names, ", "),
			formatValue(menu.Metrics.TotalPieces),
			fmt.Sprintf("%.2f", menu.Metrics.CO2PerCustomer),
			fmt.Sprintf("%.0f g", menu.Metrics.WastePerCustomer*1000),
		})
	}
	return rows
}

func main() {
	client := NewApiClient()
	if ok, err := client.CheckHealth(); !ok {
		fmt.Printf("Warning: API server at %s is not available: %v\n", client.BaseURL, err)
	}

	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
