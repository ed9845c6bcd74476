package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"unibot/internal/domain"
)

func TestCourseHandlerMyEnrollments(t *testing.T) {
	r, _, student, admin := setupAPI(t)

	rec := performRequest(r, http.MethodGet, "/api/courses/enrollments", nil, "Authorization", student)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Enrollments []domain.EnrollmentDetail `json:"enrollments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Enrollments) != 1 || resp.Enrollments[0].Course.Code != "CS101" {
		t.Fatalf("unexpected enrollments: %+v", resp.Enrollments)
	}

	rec = performRequest(r, http.MethodGet, "/api/courses/enrollments", nil, "Authorization", admin)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin, got %d", rec.Code)
	}
}

func TestCourseHandlerErrorMapping(t *testing.T) {
	r, _, student, _ := setupAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"tareas de docente para estudiante", http.MethodGet, "/api/courses/assignments", nil, http.StatusForbidden},
		{"syllabus sin curso", http.MethodPost, "/api/courses/syllabus", map[string]string{"syllabus": "x"}, http.StatusBadRequest},
		{"servicio sin configurar", http.MethodGet, "/api/courses", nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := performRequest(r, tc.method, tc.path, tc.body, "Authorization", student)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}
