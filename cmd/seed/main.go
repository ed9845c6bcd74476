package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"unibot/internal/config"
	"unibot/internal/db"
	"unibot/internal/domain"
	"unibot/internal/repository"
	"unibot/migrations"
)

type seedUser struct {
	username, email, password, first, last, dept string
	role                                         domain.Role
}

type seedCourse struct {
	code, name, dept, description, syllabus string
	faculty                                 string
}

var users = []seedUser{
	{"admin", "admin@unibot.edu", "admin123", "Admin", "User", "", domain.RoleAdmin},
	{"prof_sharma", "sharma@unibot.edu", "faculty123", "Dr. Priya", "Sharma", "Computer Science", domain.RoleFaculty},
	{"prof_kumar", "kumar@unibot.edu", "faculty123", "Dr. Rajesh", "Kumar", "Mathematics", domain.RoleFaculty},
	{"student1", "student1@unibot.edu", "student123", "Ansh", "Patel", "Computer Science", domain.RoleStudent},
	{"student2", "student2@unibot.edu", "student123", "Riya", "Singh", "Computer Science", domain.RoleStudent},
}

var courses = []seedCourse{
	{
		code:        "CS101",
		name:        "Introduction to Computer Science",
		dept:        "Computer Science",
		faculty:     "prof_sharma",
		description: "Fundamentals of programming, algorithms, and data structures.",
		syllabus:    "Week 1-2: Introduction to Programming (Python)\n" +
			"Week 3-4: Control Structures & Functions\n" +
			"Week 5-6: Data Structures (Arrays, Lists, Stacks)\n" +
			"Week 7-8: Object-Oriented Programming\n" +
			"Week 9-10: Algorithms & Complexity\n" +
			"Week 11-12: Database Basics\n" +
			"Week 13-14: Web Development Introduction\n" +
			"Week 15-16: Final Project & Review",
	},
	{
		code:        "CS201",
		name:        "Data Structures & Algorithms",
		dept:        "Computer Science",
		faculty:     "prof_sharma",
		description: "Advanced data structures, sorting algorithms, and graph theory.",
		syllabus:    "Week 1-2: Advanced Arrays & Linked Lists\n" +
			"Week 3-4: Trees & Binary Search Trees\n" +
			"Week 5-6: Heaps & Priority Queues\n" +
			"Week 7-8: Hash Tables & Hashing\n" +
			"Week 9-10: Graph Algorithms (BFS, DFS)\n" +
			"Week 11-12: Sorting Algorithms\n" +
			"Week 13-14: Dynamic Programming\n" +
			"Week 15-16: Final Exam Prep",
	},
	{
		code:        "MATH101",
		name:        "Calculus I",
		dept:        "Mathematics",
		faculty:     "prof_kumar",
		description: "Limits, derivatives, and integrals.",
		syllabus:    "Week 1-2: Limits and Continuity\n" +
			"Week 3-4: Derivatives and Rules\n" +
			"Week 5-6: Applications of Derivatives\n" +
			"Week 7-8: Integration Basics\n" +
			"Week 9-10: Techniques of Integration\n" +
			"Week 11-12: Applications of Integrals\n" +
			"Week 13-14: Sequences and Series\n" +
			"Week 15-16: Review & Final Exam",
	},
}

var enrollments = []struct{ student, course, num string }{
	{"student1", "CS101", "ENR-2024-001"},
	{"student1", "CS201", "ENR-2024-002"},
	{"student1", "MATH101", "ENR-2024-003"},
	{"student2", "CS101", "ENR-2024-004"},
	{"student2", "MATH101", "ENR-2024-005"},
}

var assignments = []struct {
	course, title, content string
	dueInDays              int
}{
	{"CS101", "Python Basics Lab", "Complete exercises 1-10 from Chapter 3. Submit as .py files.", 7},
	{"CS201", "Binary Tree Implementation", "Implement a binary search tree with insert, delete, and traversal operations.", 14},
	{"MATH101", "Derivatives Worksheet", "Solve problems 1-20 from the derivatives chapter.", 10},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplySchema(ctx, pool, migrations.FS); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	if err := seed(ctx, pool, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	fmt.Println("Credenciales de demo:")
	for _, u := range users {
		fmt.Printf("   %-8s %s / %s\n", u.role, u.username, u.password)
	}
}

// seed es idempotente: lo que ya existe (por username/código) se reutiliza.
func seed(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	userRepo := repository.NewPgUserRepository(pool)
	courseRepo := repository.NewPgCourseRepository(pool)
	enrollmentRepo := repository.NewPgEnrollmentRepository(pool)
	assignmentRepo := repository.NewPgAssignmentRepository(pool)

	userIDs := make(map[string]string, len(users))
	for _, su := range users {
		id, err := ensureUser(ctx, userRepo, su)
		if err != nil {
			return fmt.Errorf("user %s: %w", su.username, err)
		}
		userIDs[su.username] = id
	}
	logger.Info("users ready", zap.Int("count", len(userIDs)))

	existing, err := courseRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}
	courseIDs := make(map[string]string, len(courses))
	for _, c := range existing {
		courseIDs[c.Code] = c.ID
	}
	now := time.Now().UTC()
	for _, sc := range courses {
		if _, ok := courseIDs[sc.code]; ok {
			continue
		}
		facultyID := userIDs[sc.faculty]
		course := domain.Course{
			ID:          uuid.NewString(),
			Code:        sc.code,
			Name:        sc.name,
			Department:  sc.dept,
			Description: sc.description,
			Syllabus:    sc.syllabus,
			FacultyID:   &facultyID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := courseRepo.Create(ctx, course); err != nil {
			return fmt.Errorf("course %s: %w", sc.code, err)
		}
		courseIDs[sc.code] = course.ID

		for _, a := range assignments {
			if a.course != sc.code {
				continue
			}
			due := now.AddDate(0, 0, a.dueInDays)
			err := assignmentRepo.Create(ctx, domain.Assignment{
				ID:        uuid.NewString(),
				CourseID:  course.ID,
				FacultyID: facultyID,
				Title:     a.title,
				Content:   a.content,
				DueDate:   &due,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("assignment %s: %w", a.title, err)
			}
		}
	}
	logger.Info("courses ready", zap.Int("count", len(courseIDs)))

	for i, e := range enrollments {
		err := enrollmentRepo.Create(ctx, domain.Enrollment{
			ID:            uuid.NewString(),
			StudentID:     userIDs[e.student],
			CourseID:      courseIDs[e.course],
			EnrollmentNum: e.num,
			// inscripciones espaciadas para que el orden "más reciente primero" sea estable
			EnrolledAt: now.Add(time.Duration(i) * time.Second),
		})
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("enrollment %s: %w", e.num, err)
		}
	}
	logger.Info("enrollments ready", zap.Int("count", len(enrollments)))
	return nil
}

func ensureUser(ctx context.Context, repo repository.UserRepository, su seedUser) (string, error) {
	existing, err := repo.GetByUsername(ctx, su.username)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     su.username,
		Email:        su.email,
		FirstName:    su.first,
		LastName:     su.last,
		Role:         su.role,
		Department:   su.dept,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}
