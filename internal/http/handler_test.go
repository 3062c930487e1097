package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
	"task-manager.com/task-manager/internal/testutil"
)

const (
	testInviteToken    = "invite"
	testUploadMaxBytes = 1024
)

type testServer struct {
	e         *echo.Echo
	tasks     *repository.TaskRepository
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	hasher := services.NewArgon2Hasher(testutil.FastHashParams)
	logger := zerolog.Nop()
	uploadDir := t.TempDir()

	handler := NewHandler(Services{
		Tasks:     services.NewTaskService(taskRepo, userRepo, logger),
		Dashboard: services.NewDashboardService(taskRepo, logger),
		Reports:   services.NewReportService(taskRepo, userRepo, logger),
		Users:     services.NewUserService(userRepo, taskRepo, hasher, logger),
		Auth: services.NewAuthService(userRepo, hasher, services.AuthConfig{
			SigningKey:       []byte("handler-test-secret"),
			Issuer:           "task-manager-test",
			TTL:              time.Hour,
			AdminInviteToken: testInviteToken,
		}, logger),
	}, UploadConfig{Dir: uploadDir, MaxBytes: testUploadMaxBytes}, logger)

	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(logger)
	Register(e, handler, nil)

	return &testServer{e: e, tasks: taskRepo, uploadDir: uploadDir}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, name, invite string) dto.AuthResponse {
	t.Helper()

	body := `{"name":"` + name + `","email":"` + name + `@example.com","password":"password123","adminInviteToken":"` + invite + `"}`
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to register %s: %d %s", name, rec.Code, rec.Body.String())
	}

	var resp dto.AuthResponse
	decode(t, rec, &resp)
	return resp
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	expectStatus(t, s.do(t, http.MethodGet, "/healthz", "", ""), http.StatusOK)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/tasks", "", "")
	expectStatus(t, rec, http.StatusUnauthorized)

	var msg dto.MessageResponse
	decode(t, rec, &msg)
	if msg.Message == "" {
		t.Error("expected an error message")
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/tasks", "garbage", ""), http.StatusUnauthorized)
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin", testInviteToken)
	alice := s.register(t, "alice", "")
	bob := s.register(t, "bob", "")

	if admin.Role != constants.RoleAdmin || alice.Role != constants.RoleMember {
		t.Fatalf("unexpected roles %s / %s", admin.Role, alice.Role)
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/tasks", alice.Token, `{"title":"nope"}`), http.StatusForbidden)

	body := `{"title":"Ship it","priority":"High","dueDate":"2030-01-01","assignedTo":["` + alice.ID + `"],"todoChecklist":[{"text":"a","completed":false},{"text":"b","completed":false}]}`
	rec := s.do(t, http.MethodPost, "/api/tasks", admin.Token, body)
	expectStatus(t, rec, http.StatusCreated)

	var created model.Task
	decode(t, rec, &created)
	if created.Status != constants.StatusPending || created.Progress != 0 {
		t.Errorf("unexpected initial state %s %d", created.Status, created.Progress)
	}

	taskPath := "/api/tasks/" + created.ID

	expectStatus(t, s.do(t, http.MethodGet, taskPath, bob.Token, ""), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodGet, "/api/tasks/missing", admin.Token, ""), http.StatusNotFound)

	rec = s.do(t, http.MethodGet, taskPath, alice.Token, "")
	expectStatus(t, rec, http.StatusOK)
	var details model.TaskDetails
	decode(t, rec, &details)
	if details.Creator == nil || details.Creator.Name != "admin" {
		t.Errorf("expected expanded creator, got %+v", details.Creator)
	}

	expectStatus(t, s.do(t, http.MethodPut, taskPath+"/status", bob.Token, `{"status":"Completed"}`), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodPut, taskPath+"/status", alice.Token, `{"status":"Done"}`), http.StatusBadRequest)

	rec = s.do(t, http.MethodPut, taskPath+"/todo", alice.Token, `{"todoChecklist":[{"text":"a","completed":true},{"text":"b","completed":false}]}`)
	expectStatus(t, rec, http.StatusOK)
	var halfway model.Task
	decode(t, rec, &halfway)
	if halfway.Progress != 50 || halfway.Status != constants.StatusInProgress {
		t.Errorf("expected 50%% In Progress, got %d%% %s", halfway.Progress, halfway.Status)
	}

	rec = s.do(t, http.MethodGet, "/api/tasks?status=In%20Progress", alice.Token, "")
	expectStatus(t, rec, http.StatusOK)
	var list dto.TaskListResponse
	decode(t, rec, &list)
	if len(list.Tasks) != 1 || list.Tasks[0].CompletedTodoCount != 1 {
		t.Errorf("unexpected list %+v", list.Tasks)
	}
	if list.StatusSummary.All != 1 || list.StatusSummary.InProgressTasks != 1 {
		t.Errorf("unexpected summary %+v", list.StatusSummary)
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/tasks?status=Bogus", alice.Token, ""), http.StatusBadRequest)

	expectStatus(t, s.do(t, http.MethodDelete, taskPath, alice.Token, ""), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodDelete, taskPath, admin.Token, ""), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodDelete, taskPath, admin.Token, ""), http.StatusNotFound)
}

func TestCreateTask_AssignedToMustBeArray(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin", testInviteToken)

	rec := s.do(t, http.MethodPost, "/api/tasks", admin.Token, `{"title":"bad","assignedTo":"abc"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	var msg dto.MessageResponse
	decode(t, rec, &msg)
	if !strings.Contains(msg.Message, "array") {
		t.Errorf("unexpected message %q", msg.Message)
	}

	tasks, err := s.tasks.List(t.Context(), repository.Visibility{All: true}, nil)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no task to be created, got %d", len(tasks))
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/tasks", admin.Token, `{"title":`), http.StatusBadRequest)
}

func TestDashboards(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin", testInviteToken)
	alice := s.register(t, "alice", "")

	expectStatus(t, s.do(t, http.MethodPost, "/api/tasks", admin.Token, `{"title":"one","assignedTo":["`+alice.ID+`"]}`), http.StatusCreated)

	rec := s.do(t, http.MethodGet, "/api/tasks/dashboard-data", admin.Token, "")
	expectStatus(t, rec, http.StatusOK)
	var adminDash dto.DashboardResponse
	decode(t, rec, &adminDash)
	if adminDash.Statistics == nil || adminDash.Statistics.TotalTasks != 1 {
		t.Errorf("expected admin statistics, got %+v", adminDash.Statistics)
	}

	rec = s.do(t, http.MethodGet, "/api/tasks/user-dashboard-data", alice.Token, "")
	expectStatus(t, rec, http.StatusOK)
	var userDash dto.DashboardResponse
	decode(t, rec, &userDash)
	if userDash.Statistics != nil {
		t.Error("member dashboard must not carry statistics")
	}
	if userDash.Charts.TaskDistribution.Pending != 1 || len(userDash.RecentTasks) != 1 {
		t.Errorf("unexpected member dashboard %+v", userDash)
	}
}

func TestReports(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin", testInviteToken)
	alice := s.register(t, "alice", "")

	expectStatus(t, s.do(t, http.MethodGet, "/api/reports/export/tasks", alice.Token, ""), http.StatusForbidden)

	for _, path := range []string{"/api/reports/export/tasks", "/api/reports/export/users"} {
		rec := s.do(t, http.MethodGet, path, admin.Token, "")
		expectStatus(t, rec, http.StatusOK)

		if got := rec.Header().Get(echo.HeaderContentType); got != services.SpreadsheetContentType {
			t.Errorf("%s: unexpected content type %q", path, got)
		}
		disposition := rec.Header().Get(echo.HeaderContentDisposition)
		if !strings.HasPrefix(disposition, "attachment; filename=") || !strings.HasSuffix(disposition, ".xlsx") {
			t.Errorf("%s: unexpected disposition %q", path, disposition)
		}
		if rec.Body.Len() == 0 {
			t.Errorf("%s: empty workbook", path)
		}
	}
}

func TestUsersEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin", testInviteToken)
	alice := s.register(t, "alice", "")

	expectStatus(t, s.do(t, http.MethodGet, "/api/users", alice.Token, ""), http.StatusForbidden)

	rec := s.do(t, http.MethodGet, "/api/users", admin.Token, "")
	expectStatus(t, rec, http.StatusOK)
	var users []model.UserWithTaskCounts
	decode(t, rec, &users)
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("password hash leaked in response")
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/users/"+admin.ID, alice.Token, ""), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodDelete, "/api/users/"+alice.ID, admin.Token, ""), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/users/"+alice.ID, admin.Token, ""), http.StatusNotFound)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "")

	rec := s.do(t, http.MethodGet, "/api/auth/profile", alice.Token, "")
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodPut, "/api/auth/profile", alice.Token, `{"name":"Alice L"}`)
	expectStatus(t, rec, http.StatusOK)
	var updated model.User
	decode(t, rec, &updated)
	if updated.Name != "Alice L" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}

	expectStatus(t, s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"wrong-password"}`), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"password123"}`), http.StatusOK)
}

func TestUpdateTask_AssignedToMustBeArray(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin", testInviteToken)
	alice := s.register(t, "alice", "")

	rec := s.do(t, http.MethodPost, "/api/tasks", admin.Token, `{"title":"stable","assignedTo":["`+alice.ID+`"]}`)
	expectStatus(t, rec, http.StatusCreated)
	var created model.Task
	decode(t, rec, &created)

	rec = s.do(t, http.MethodPut, "/api/tasks/"+created.ID, admin.Token, `{"title":"changed","assignedTo":"abc"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	stored, err := s.tasks.FindByID(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if stored.Title != "stable" {
		t.Errorf("title changed to %q", stored.Title)
	}
	if len(stored.AssignedTo) != 1 || stored.AssignedTo[0] != alice.ID {
		t.Errorf("assignees changed to %v", stored.AssignedTo)
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func (s *testServer) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/upload-image", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) storedUploads(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		t.Fatalf("failed to read upload dir: %v", err)
	}
	return len(entries)
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "avatar.png", pngHeader)
	expectStatus(t, rec, http.StatusOK)

	var resp dto.ImageUploadResponse
	decode(t, rec, &resp)
	name := path.Base(resp.ImageURL)
	stored, err := os.ReadFile(filepath.Join(s.uploadDir, name))
	if err != nil {
		t.Fatalf("uploaded file not stored: %v", err)
	}
	if !bytes.Equal(stored, pngHeader) {
		t.Errorf("stored content differs from upload")
	}
}

func TestUploadImage_Rejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		filename string
		content  []byte
		want     int
	}{
		{"text disguised as png", "x.png", bytes.Repeat([]byte("A"), 600), http.StatusBadRequest},
		{"empty file", "x.png", nil, http.StatusBadRequest},
		{"wrong extension", "x.gif", pngHeader, http.StatusBadRequest},
		{"over the cap", "x.png", append(append([]byte{}, pngHeader...), make([]byte, testUploadMaxBytes)...), http.StatusRequestEntityTooLarge},
		{"over the body limit", "x.png", append(append([]byte{}, pngHeader...), make([]byte, multipartOverhead+2*testUploadMaxBytes)...), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, s.upload(t, tt.filename, tt.content), tt.want)
		})
	}

	if n := s.storedUploads(t); n != 0 {
		t.Errorf("expected nothing stored, found %d files", n)
	}
}
