package domain

import "time"

type Course struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Department  string    `json:"department"`
	Description string    `json:"description"`
	Syllabus    string    `json:"syllabus"`
	FacultyID   *string   `json:"faculty_id,omitempty"`
	FacultyName string    `json:"faculty_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Enrollment struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	CourseID      string    `json:"course_id"`
	EnrollmentNum string    `json:"enrollment_num"`
	EnrolledAt    time.Time `json:"enrolled_at"`
}

// EnrollmentDetail es una inscripción con su curso (y docente) ya resueltos.
type EnrollmentDetail struct {
	Enrollment
	Course Course `json:"course"`
}

type Assignment struct {
	ID         string     `json:"id"`
	CourseID   string     `json:"course_id"`
	CourseCode string     `json:"course_code,omitempty"`
	CourseName string     `json:"course_name,omitempty"`
	FacultyID  string     `json:"faculty_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
