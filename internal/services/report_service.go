package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

const (
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	tasksSheet = "Tasks Report"
	usersSheet = "User Task Report"
	unassigned = "Unassigned"
)

type reportColumn struct {
	header string
	width  float64
}

var taskReportColumns = []reportColumn{
	{"Task ID", 38},
	{"Title", 30},
	{"Description", 50},
	{"Priority", 20},
	{"Due Date", 20},
	{"Status", 20},
	{"Assigned To", 30},
}

var userReportColumns = []reportColumn{
	{"User Name", 30},
	{"Email", 30},
	{"Total Tasks", 20},
	{"Pending Tasks", 20},
	{"In Progress Tasks", 20},
	{"Completed Tasks", 20},
}

// Report is a fully rendered spreadsheet ready to be sent.
type Report struct {
	Filename string
	Content  *bytes.Buffer
}

type ReportService struct {
	tasks  *repository.TaskRepository
	users  *repository.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewReportService(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ReportService) ExportTasks(ctx context.Context) (*Report, error) {
	tasks, err := s.tasks.List(ctx, repository.Visibility{All: true}, nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var userIDs []string
	for _, t := range tasks {
		userIDs = append(userIDs, t.AssignedTo...)
	}
	users, err := s.users.FindByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, fmt.Errorf("load assignees: %w", err)
	}

	rows := make([][]interface{}, 0, len(tasks))
	for _, t := range tasks {
		dueDate := ""
		if t.DueDate != nil {
			dueDate = t.DueDate.UTC().Format(time.DateOnly)
		}
		rows = append(rows, []interface{}{
			t.ID,
			t.Title,
			t.Description,
			string(t.Priority),
			dueDate,
			string(t.Status),
			assigneeNames(t.AssignedTo, users),
		})
	}

	return s.render("tasks_report", tasksSheet, taskReportColumns, rows)
}

func (s *ReportService) ExportUsers(ctx context.Context) (*Report, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	counts, err := s.tasks.CountAssignedByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count assigned tasks: %w", err)
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		c := counts[u.ID]
		pending := c[constants.StatusPending]
		inProgress := c[constants.StatusInProgress]
		completed := c[constants.StatusCompleted]
		rows = append(rows, []interface{}{
			u.Name,
			u.Email,
			pending + inProgress + completed,
			pending,
			inProgress,
			completed,
		})
	}

	return s.render("users_report", usersSheet, userReportColumns, rows)
}

// render builds the whole workbook in memory so a failure never leaves a
// half-written response.
func (s *ReportService) render(prefix, sheet string, columns []reportColumn, rows [][]interface{}) (*Report, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &Report{
		Filename: ReportFilename(prefix, s.now()),
		Content:  buf,
	}, nil
}

func ReportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.UTC().Format("20060102T150405Z"))
}

func assigneeNames(ids []string, users map[string]model.User) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			names = append(names, u.Name)
		}
	}
	if len(names) == 0 {
		return unassigned
	}
	return strings.Join(names, ", ")
}
