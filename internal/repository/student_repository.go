package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/institute-hq/institute-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// escapeLike neutralises LIKE wildcards in user-supplied search terms.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	return strings.ReplaceAll(term, "_", `\_`)
}

const studentColumns = "id, student_id, full_name, class, academic_year, dob, status, phone, address, created_at, updated_at"

// List returns students matching the provided filters, newest first.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var args []interface{}

	if filter.Class != "" {
		args = append(args, filter.Class)
		base += fmt.Sprintf(" AND class = $%d", len(args))
	}
	if filter.AcademicYear != "" {
		args = append(args, filter.AcademicYear)
		base += fmt.Sprintf(" AND academic_year = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		base += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(escapeLike(filter.Search))+"%")
		base += fmt.Sprintf(" AND (LOWER(full_name) LIKE $%d OR LOWER(student_id) LIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	page := models.Paginate(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		studentColumns, base, page.Limit, page.Offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

// GetByCode fetches a student by their business identifier.
func (r *StudentRepository) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	var student models.Student
	query := fmt.Sprintf("SELECT %s FROM students WHERE student_id = $1", studentColumns)
	if err := r.db.GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	query := `INSERT INTO students (id, student_id, full_name, class, academic_year, dob, status, phone, address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		s.ID, s.StudentID, s.FullName, s.Class, s.AcademicYear, s.DOB, s.Status, s.Phone, s.Address, s.CreatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a student record.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	query := `UPDATE students SET full_name = $1, class = $2, academic_year = $3, dob = $4, status = $5, phone = $6, address = $7, updated_at = $8
        WHERE student_id = $9`
	result, err := r.db.ExecContext(ctx, query,
		s.FullName, s.Class, s.AcademicYear, s.DOB, s.Status, s.Phone, s.Address, s.UpdatedAt, s.StudentID)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}

// Delete removes a student by business identifier.
func (r *StudentRepository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE student_id = $1", code)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}
