package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/testutil"
)

func readSheet(t *testing.T, report *Report, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(report.Content)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("failed to read sheet %q: %v", sheet, err)
	}
	return rows
}

func TestReportFilename(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	got := ReportFilename("tasks_report", now)
	if got != "tasks_report_20250102T020405Z.xlsx" {
		t.Errorf("unexpected filename %s", got)
	}
}

func TestReportService_Exports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	tasks := repository.NewTaskRepository(db)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, users, "admin", constants.RoleAdmin)
	alice := testutil.CreateUser(t, users, "alice", constants.RoleMember)
	bob := testutil.CreateUser(t, users, "bob", constants.RoleMember)

	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	shared := &model.Task{
		Title:      "shared",
		Priority:   constants.PriorityHigh,
		Status:     constants.StatusInProgress,
		DueDate:    &due,
		CreatedBy:  admin.ID,
		AssignedTo: []string{alice.ID, bob.ID},
	}
	orphan := &model.Task{
		Title:      "orphan",
		Priority:   constants.PriorityLow,
		Status:     constants.StatusPending,
		CreatedBy:  admin.ID,
		AssignedTo: []string{"deleted-user"},
	}
	for _, task := range []*model.Task{shared, orphan} {
		if err := tasks.CreateTask(ctx, task); err != nil {
			t.Fatalf("failed to insert task: %v", err)
		}
	}

	service := NewReportService(tasks, users, zerolog.Nop())
	service.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	t.Run("tasks", func(t *testing.T) {
		report, err := service.ExportTasks(ctx)
		if err != nil {
			t.Fatalf("failed to export tasks: %v", err)
		}
		if report.Filename != "tasks_report_20250101T000000Z.xlsx" {
			t.Errorf("unexpected filename %s", report.Filename)
		}

		rows := readSheet(t, report, tasksSheet)
		if len(rows) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(rows))
		}
		if strings.Join(rows[0], "|") != "Task ID|Title|Description|Priority|Due Date|Status|Assigned To" {
			t.Errorf("unexpected header %v", rows[0])
		}

		byTitle := map[string][]string{}
		for _, row := range rows[1:] {
			byTitle[row[1]] = row
		}
		if got := byTitle["shared"][6]; got != "alice, bob" {
			t.Errorf("expected assignee names, got %q", got)
		}
		if got := byTitle["shared"][4]; got != "2025-06-01" {
			t.Errorf("unexpected due date %q", got)
		}
		if got := byTitle["orphan"][6]; got != "Unassigned" {
			t.Errorf("expected Unassigned, got %q", got)
		}
	})

	t.Run("users", func(t *testing.T) {
		report, err := service.ExportUsers(ctx)
		if err != nil {
			t.Fatalf("failed to export users: %v", err)
		}
		if !strings.HasPrefix(report.Filename, "users_report_") {
			t.Errorf("unexpected filename %s", report.Filename)
		}

		rows := readSheet(t, report, usersSheet)
		if len(rows) != 4 {
			t.Fatalf("expected header plus 3 users, got %d", len(rows))
		}

		byName := map[string][]string{}
		for _, row := range rows[1:] {
			byName[row[0]] = row
		}
		alice := byName["alice"]
		if alice[2] != "1" || alice[4] != "1" || alice[3] != "0" {
			t.Errorf("unexpected counts for alice %v", alice)
		}
		if byName["admin"][2] != "0" {
			t.Errorf("admin has no assigned tasks, got %v", byName["admin"])
		}
	})
}
