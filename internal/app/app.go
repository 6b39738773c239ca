package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/siftlab/sift/internal/config"
	"github.com/siftlab/sift/internal/dataset"
	"github.com/siftlab/sift/internal/export"
	"github.com/siftlab/sift/internal/filter"
	"github.com/siftlab/sift/internal/history"
	"github.com/siftlab/sift/internal/record"
	"github.com/siftlab/sift/internal/schema"
	"github.com/siftlab/sift/internal/ui/components"
	"github.com/siftlab/sift/internal/ui/theme"
	"github.com/siftlab/sift/internal/views"
)

// App is the root bubbletea model. It owns the dataset, the active
// condition set and the derived filtered view, and routes input between
// the table and the filter builder overlay.
type App struct {
	cfg   *config.Config
	theme theme.Theme
	log   *logrus.Logger

	schema  *schema.Schema
	dataset *dataset.Dataset

	engine     *filter.Engine
	conditions []filter.Condition
	filtered   []record.Record

	table       *components.TableView
	builder     *components.FilterBuilder
	showBuilder bool

	viewsMgr *views.Manager
	store    *history.Store

	sortField int // index into schema.Fields, -1 for dataset order
	sortDesc  bool

	status string
	width  int
	height int
}

// New creates the application model. viewsMgr and store may be nil, which
// disables saved views and history respectively.
func New(cfg *config.Config, log *logrus.Logger, s *schema.Schema, ds *dataset.Dataset, viewsMgr *views.Manager, store *history.Store) *App {
	th := theme.GetTheme(cfg.UI.Theme)

	a := &App{
		cfg:       cfg,
		theme:     th,
		log:       log,
		schema:    s,
		dataset:   ds,
		engine:    filter.NewEngine(log),
		filtered:  ds.Records,
		table:     components.NewTableView(th, s.Fields, cfg.Data.MaxCellDisplayLength),
		builder:   components.NewFilterBuilder(th, s),
		viewsMgr:  viewsMgr,
		store:     store,
		sortField: -1,
	}
	// Until the first window size arrives, show one page of rows.
	a.table.Height = cfg.UI.PageSize + 3
	a.table.SetRecords(a.filtered, len(ds.Records))
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.Width = msg.Width
		a.table.Height = msg.Height - 2
		a.builder.Width = msg.Width - 4
		a.builder.Height = msg.Height - 4
		return a, nil

	case components.ApplyFilterMsg:
		a.showBuilder = false
		a.applyConditions(msg.Conditions)
		return a, nil

	case components.CloseFilterBuilderMsg:
		a.showBuilder = false
		return a, nil

	case components.SaveViewMsg:
		a.saveView(msg.Name, msg.Conditions)
		return a, nil

	case tea.KeyMsg:
		if a.showBuilder {
			var cmd tea.Cmd
			a.builder, cmd = a.builder.Update(msg)
			return a, cmd
		}
		return a.handleTableKeys(msg)
	}

	return a, nil
}

func (a *App) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		a.table.MoveUp()
	case "down", "j":
		a.table.MoveDown()
	case "f":
		a.builder.SetConditions(a.conditions)
		a.showBuilder = true
	case "r":
		a.applyConditions(nil)
		a.status = "Filters cleared"
	case "s":
		a.cycleSortField()
	case "S":
		if a.sortField >= 0 {
			a.sortDesc = !a.sortDesc
			a.refreshView()
		}
	case "e":
		a.exportCSV()
	case "E":
		a.exportJSON()
	case "y":
		if err := a.table.YankSelected(); err != nil {
			a.status = fmt.Sprintf("Yank failed: %v", err)
		} else {
			a.status = "Row copied to clipboard"
		}
	}
	return a, nil
}

// applyConditions replaces the active condition set, recomputes the
// filtered view and records the run in history.
func (a *App) applyConditions(conds []filter.Condition) {
	a.conditions = conds

	start := time.Now()
	a.filtered = a.engine.Apply(a.dataset.Records, conds)
	elapsed := time.Since(start)

	a.refreshView()
	a.status = fmt.Sprintf("%d of %d rows match (%s)",
		len(a.filtered), len(a.dataset.Records), elapsed.Round(time.Microsecond))

	a.log.WithFields(logrus.Fields{
		"dataset":    a.dataset.Name,
		"conditions": len(conds),
		"matched":    len(a.filtered),
		"total":      len(a.dataset.Records),
		"duration":   elapsed,
	}).Info("filter applied")

	if a.store != nil && a.cfg.History.Enabled && len(conds) > 0 {
		err := a.store.Add(history.Entry{
			Dataset:    a.dataset.Name,
			Conditions: conds,
			Matched:    len(a.filtered),
			Total:      len(a.dataset.Records),
			Duration:   elapsed,
		})
		if err != nil {
			a.log.WithError(err).Warn("failed to record filter run")
		}
	}
}

// refreshView re-sorts the filtered set for display. Sorting never touches
// the filtered slice itself.
func (a *App) refreshView() {
	display := a.filtered
	if a.sortField >= 0 && a.sortField < len(a.schema.Fields) {
		display = dataset.Sort(display, a.schema.Fields[a.sortField].Key, a.sortDesc)
	}
	a.table.SetRecords(display, len(a.dataset.Records))
}

func (a *App) cycleSortField() {
	a.sortField++
	if a.sortField >= len(a.schema.Fields) {
		a.sortField = -1
		a.sortDesc = false
		a.status = "Sort: dataset order"
	} else {
		a.status = fmt.Sprintf("Sort: %s", a.schema.Fields[a.sortField].Label)
	}
	a.refreshView()
}

func (a *App) saveView(name string, conds []filter.Condition) {
	if a.viewsMgr == nil {
		a.status = "Saved views are disabled"
		return
	}
	if _, err := a.viewsMgr.Add(name, a.dataset.Name, conds); err != nil {
		a.status = fmt.Sprintf("Save failed: %v", err)
		return
	}
	a.status = fmt.Sprintf("View %q saved", name)
}

func (a *App) exportCSV() {
	path := a.exportPath("csv")
	if err := export.ExportCSV(a.table.Records(), a.schema.Fields, path); err != nil {
		a.status = fmt.Sprintf("Export failed: %v", err)
		a.log.WithError(err).Error("CSV export failed")
		return
	}
	a.status = fmt.Sprintf("Exported to %s", path)
}

func (a *App) exportJSON() {
	path := a.exportPath("json")
	if err := export.ExportJSON(a.table.Records(), path); err != nil {
		a.status = fmt.Sprintf("Export failed: %v", err)
		a.log.WithError(err).Error("JSON export failed")
		return
	}
	a.status = fmt.Sprintf("Exported to %s", path)
}

func (a *App) exportPath(ext string) string {
	base := strings.TrimSuffix(a.dataset.Name, filepath.Ext(a.dataset.Name))
	return fmt.Sprintf("%s_filtered_%s.%s", base, time.Now().Format("20060102_150405"), ext)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.showBuilder {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.builder.View())
	}

	help := "↑↓ move  f filter  s/S sort  e/E export  y yank  r reset  q quit"
	statusStyle := lipgloss.NewStyle().Foreground(a.theme.Muted)
	helpStyle := lipgloss.NewStyle().Foreground(a.theme.Muted)

	lines := []string{a.table.View()}
	if a.status != "" {
		lines = append(lines, statusStyle.Render(" "+a.status))
	}
	lines = append(lines, helpStyle.Render(" "+help))
	return strings.Join(lines, "\n")
}
