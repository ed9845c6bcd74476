package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"unibot/internal/config"
	"unibot/internal/domain"
	"unibot/internal/report"
	"unibot/internal/service"
)

type memChatRepo struct {
	queries   []domain.ChatQuery
	responses map[string]domain.ChatResponse
}

func (m *memChatRepo) CreateQuery(_ context.Context, query domain.ChatQuery) error {
	m.queries = append(m.queries, query)
	return nil
}

func (m *memChatRepo) CreateResponse(_ context.Context, response domain.ChatResponse) error {
	if m.responses == nil {
		m.responses = make(map[string]domain.ChatResponse)
	}
	m.responses[response.QueryID] = response
	return nil
}

func (m *memChatRepo) ListHistoryByUser(_ context.Context, userID string) ([]domain.ChatTurn, error) {
	turns := []domain.ChatTurn{}
	for _, q := range m.queries {
		if q.UserID != userID {
			continue
		}
		turn := domain.ChatTurn{Query: q}
		if r, ok := m.responses[q.ID]; ok {
			turn.Response = &r
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (m *memChatRepo) ListRecent(_ context.Context, limit int) ([]domain.ChatTurn, error) {
	turns := []domain.ChatTurn{}
	for i := len(m.queries) - 1; i >= 0 && len(turns) < limit; i-- {
		turns = append(turns, domain.ChatTurn{Query: m.queries[i]})
	}
	return turns, nil
}

type staticEnrollmentRepo struct {
	byUser map[string][]domain.EnrollmentDetail
}

func (s *staticEnrollmentRepo) Create(context.Context, domain.Enrollment) error { return nil }

func (s *staticEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]domain.EnrollmentDetail, error) {
	return s.byUser[userID], nil
}

type staticAssignmentRepo struct{}

func (staticAssignmentRepo) Create(context.Context, domain.Assignment) error { return nil }

func (staticAssignmentRepo) ListByCourse(context.Context, string, int) ([]domain.Assignment, error) {
	return nil, nil
}

func (staticAssignmentRepo) ListByUser(context.Context, string, int) ([]domain.Assignment, error) {
	return nil, nil
}

func (staticAssignmentRepo) ListByFaculty(context.Context, string) ([]domain.Assignment, error) {
	return nil, nil
}

func setupAPI(t *testing.T) (http.Handler, *memChatRepo, string, string) {
	t.Helper()
	jwtSvc := newTestJWT()
	users := newMockUserRepo()
	users.usersByID["s1"] = domain.User{ID: "s1", Username: "student1", FirstName: "Ansh", Role: domain.RoleStudent}
	enrollments := &staticEnrollmentRepo{byUser: map[string][]domain.EnrollmentDetail{
		"s1": {{Course: domain.Course{ID: "c1", Code: "CS101", Name: "Introduction to Computer Science"}}},
	}}
	assignments := staticAssignmentRepo{}

	fallback := service.NewFallbackResponder(users, enrollments, assignments, zap.NewNop())
	builder := service.NewEnrollmentContextBuilder(enrollments, assignments)
	router := service.NewResponseRouter(config.LLMSettings{}, nil, builder, fallback, zap.NewNop())
	chats := &memChatRepo{}

	r := NewRouter(
		zap.NewNop(),
		jwtSvc,
		NewUserHandler(zap.NewNop(), service.NewUserService(zap.NewNop(), users, nil), jwtSvc),
		NewChatHandler(zap.NewNop(), service.NewChatService(chats, router)),
		NewCourseHandler(zap.NewNop(), service.NewCourseService(nil, enrollments, assignments, nil)),
	)
	student := bearerFor(t, jwtSvc, domain.User{ID: "s1", Username: "student1", Role: domain.RoleStudent})
	admin := bearerFor(t, jwtSvc, domain.User{ID: "a1", Username: "admin", Role: domain.RoleAdmin})
	return r, chats, student, admin
}

func TestChatHandlerPostMessage(t *testing.T) {
	r, chats, student, _ := setupAPI(t)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"message": "What courses am I enrolled in?"}, "Authorization", student)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var reply service.ChatReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if !strings.Contains(reply.Response, "📚 **CS101** — Introduction to Computer Science") {
		t.Fatalf("expected course listing, got %q", reply.Response)
	}
	if reply.QueryID == "" || len(chats.queries) != 1 || chats.responses[reply.QueryID].Text != reply.Response {
		t.Fatalf("expected query and linked response persisted")
	}
}

func TestChatHandlerPostMessage_Validation(t *testing.T) {
	r, chats, student, _ := setupAPI(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"vacio", map[string]string{"message": ""}},
		{"solo espacios", map[string]string{"message": "   "}},
		{"muy largo", map[string]string{"message": strings.Repeat("a", service.MaxMessageLength+1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := performRequest(r, http.MethodPost, "/api/chat", tc.body, "Authorization", student)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
	if len(chats.queries) != 0 {
		t.Fatalf("expected nothing persisted, got %d queries", len(chats.queries))
	}

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestChatHandlerHistoryAndRecent(t *testing.T) {
	r, _, student, admin := setupAPI(t)

	for _, msg := range []string{"hello", "help"} {
		if rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"message": msg}, "Authorization", student); rec.Code != http.StatusOK {
			t.Fatalf("post %q: %d", msg, rec.Code)
		}
	}

	rec := performRequest(r, http.MethodGet, "/api/chat/history", nil, "Authorization", student)
	var history struct {
		History []domain.ChatTurn `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.History) != 2 || history.History[0].Query.Content != "hello" {
		t.Fatalf("unexpected history: %+v", history.History)
	}
	if history.History[0].Response == nil || !strings.HasPrefix(history.History[0].Response.Text, "Hey Ansh!") {
		t.Fatalf("expected greeting response, got %+v", history.History[0].Response)
	}

	rec = performRequest(r, http.MethodGet, "/api/chat/recent?limit=1", nil, "Authorization", student)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/api/chat/recent?limit=1", nil, "Authorization", admin)
	var recent struct {
		Conversations []domain.ChatTurn `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &recent); err != nil {
		t.Fatalf("decode recent: %v", err)
	}
	if len(recent.Conversations) != 1 || recent.Conversations[0].Query.Content != "help" {
		t.Fatalf("unexpected recent listing: %+v", recent.Conversations)
	}

	rec = performRequest(r, http.MethodGet, "/api/chat/recent?limit=abc", nil, "Authorization", admin)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestChatHandlerExportRecent(t *testing.T) {
	r, _, student, admin := setupAPI(t)

	if rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"message": "hello"}, "Authorization", student); rec.Code != http.StatusOK {
		t.Fatalf("post: %d", rec.Code)
	}

	rec := performRequest(r, http.MethodGet, "/api/chat/recent/export", nil, "Authorization", student)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/api/chat/recent/export", nil, "Authorization", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != report.XLSXContentType {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("expected attachment disposition")
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(report.ConversationsSheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 2 || rows[1][3] != "hello" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
