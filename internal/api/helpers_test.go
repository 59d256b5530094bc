package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyhub/classroom-app/internal/api"
	"studyhub/classroom-app/internal/repository/memory"
	"studyhub/classroom-app/internal/service"
	"studyhub/classroom-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// testServer hosts the full route tree over in-memory repositories.
type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.NewUserRepository()
	classrooms := memory.NewClassroomRepository()
	assignments := memory.NewAssignmentRepository()
	submissions := memory.NewSubmissionRepository()
	blobs := storage.NewMemoryBlobStore()

	authz := service.NewAuthorizer(classrooms)
	authService := service.NewAuthService(users, testJWTSecret, time.Hour)
	classroomService := service.NewClassroomService(classrooms, users, authz)
	assignmentService := service.NewAssignmentService(assignments, submissions, blobs, authz)
	submissionService := service.NewSubmissionService(assignments, submissions, users, blobs, authz)

	router := gin.New()
	api.SetupRoutes(router, testJWTSecret, time.Hour, authService, classroomService, assignmentService, submissionService)

	return &testServer{router: router}
}

// do performs one request; a non-empty token is sent as a bearer credential.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors the response shape with data left as raw JSON so each test
// can decode it into its own DTO.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, "expected success envelope, got error %q", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// registerAndLogin creates an account over the API and returns its token and id.
func (s *testServer) registerAndLogin(t *testing.T, name, email, role string) (token, userID string) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register: %s", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, "login: %s", rec.Body.String())

	var login api.LoginResponse
	decodeData(t, rec, &login)
	require.NotEmpty(t, login.Token)
	return login.Token, login.User.ID
}

// classroomFixture registers a teacher and a student, creates a classroom and
// enrolls the student.
type classroomFixture struct {
	server *testServer

	teacherToken string
	studentToken string
	studentID    string

	classroomID string
}

func newClassroomFixture(t *testing.T) *classroomFixture {
	t.Helper()
	server := newTestServer(t)

	f := &classroomFixture{server: server}
	f.teacherToken, _ = server.registerAndLogin(t, "Greta Jansone", "greta@example.com", "teacher")
	f.studentToken, f.studentID = server.registerAndLogin(t, "Arturs Ozols", "arturs@example.com", "student")

	rec := server.do(t, http.MethodPost, "/api/v1/classrooms", f.teacherToken, gin.H{"name": "Algorithms 101"})
	require.Equal(t, http.StatusCreated, rec.Code, "create classroom: %s", rec.Body.String())
	var classroom api.ClassroomResponse
	decodeData(t, rec, &classroom)
	f.classroomID = classroom.ID

	rec = server.do(t, http.MethodPost, "/api/v1/classrooms/"+f.classroomID+"/students", f.teacherToken, gin.H{
		"studentEmail": "arturs@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, "enroll student: %s", rec.Body.String())

	return f
}

// createAssignment creates an assignment in the fixture classroom.
func (f *classroomFixture) createAssignment(t *testing.T, title string) api.AssignmentResponse {
	t.Helper()
	rec := f.server.do(t, http.MethodPost, "/api/v1/assignments", f.teacherToken, gin.H{
		"title":       title,
		"classroomId": f.classroomID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "create assignment: %s", rec.Body.String())
	var assignment api.AssignmentResponse
	decodeData(t, rec, &assignment)
	return assignment
}

// submit posts a submission as the fixture student.
func (f *classroomFixture) submit(t *testing.T, assignmentID string, body gin.H) api.SubmissionResponse {
	t.Helper()
	rec := f.server.do(t, http.MethodPost, "/api/v1/assignments/"+assignmentID+"/submissions", f.studentToken, body)
	require.Equal(t, http.StatusOK, rec.Code, "submit: %s", rec.Body.String())
	var submission api.SubmissionResponse
	decodeData(t, rec, &submission)
	return submission
}
