package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siddhesh434/jansunwai-indore/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// EnsureSchema creates missing tables only; it never drops or rewrites
// existing data.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS department_members (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			username TEXT UNIQUE NOT NULL,
			department_id TEXT NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS complaints (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			author_id TEXT NOT NULL REFERENCES users(id),
			department_id TEXT NOT NULL REFERENCES departments(id),
			status TEXT NOT NULL DEFAULT 'open',
			attachments JSONB NOT NULL DEFAULT '[]',
			attachment_analyses JSONB NOT NULL DEFAULT '[]',
			urgency_score INT,
			urgency_label TEXT,
			urgency_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS thread_messages (
			id BIGSERIAL PRIMARY KEY,
			complaint_id TEXT NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			author_kind TEXT NOT NULL,
			author_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_department ON complaints (department_id)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_author ON complaints (author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_thread_complaint ON thread_messages (complaint_id, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// users

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO users (id, username, name, address, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.Name, u.Address, u.CreatedAt)
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.Pool.QueryRow(ctx,
		`SELECT id, username, name, address, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Name, &u.Address, &u.CreatedAt)
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, username, name, address, created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Address, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// departments

func (s *Store) CreateDepartment(ctx context.Context, d models.Department) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO departments (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		d.ID, d.Name, d.Description, d.CreatedAt)
	return err
}

func (s *Store) GetDepartment(ctx context.Context, id string) (models.Department, error) {
	var d models.Department
	err := s.Pool.QueryRow(ctx, `
		SELECT d.id, d.name, d.description, d.created_at,
			(SELECT COUNT(*) FROM department_members m WHERE m.department_id = d.id),
			(SELECT COUNT(*) FROM complaints c WHERE c.department_id = d.id)
		FROM departments d WHERE d.id = $1`, id).
		Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.MemberCount, &d.ComplaintCount)
	return d, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT d.id, d.name, d.description, d.created_at,
			(SELECT COUNT(*) FROM department_members m WHERE m.department_id = d.id),
			(SELECT COUNT(*) FROM complaints c WHERE c.department_id = d.id)
		FROM departments d ORDER BY d.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.MemberCount, &d.ComplaintCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// department members

func (s *Store) CreateMember(ctx context.Context, m models.DepartmentMember) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO department_members (id, name, username, department_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.Username, m.DepartmentID, m.CreatedAt)
	return err
}

func (s *Store) ListMembers(ctx context.Context, departmentID string) ([]models.DepartmentMember, error) {
	query := `SELECT id, name, username, department_id, created_at FROM department_members`
	var args []any
	if departmentID != "" {
		args = append(args, departmentID)
		query += " WHERE department_id = $1"
	}
	query += " ORDER BY name ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DepartmentMember
	for rows.Next() {
		var m models.DepartmentMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Username, &m.DepartmentID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM department_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AuthorExists checks the table selected by kind. Used before appending a
// thread message so the discriminator always points at a real row.
func (s *Store) AuthorExists(ctx context.Context, kind models.AuthorKind, id string) (bool, error) {
	table := "users"
	if kind == models.AuthorStaff {
		table = "department_members"
	}
	var exists bool
	err := s.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table), id).Scan(&exists)
	return exists, err
}

// complaints

func (s *Store) CreateComplaint(ctx context.Context, c models.Complaint) error {
	attachments, err := json.Marshal(c.Attachments)
	if err != nil {
		return err
	}
	analyses, err := json.Marshal(c.Analyses)
	if err != nil {
		return err
	}

	var score *int
	var label, reason *string
	if c.Urgency != nil {
		score, label, reason = &c.Urgency.Score, &c.Urgency.Label, &c.Urgency.Reason
	}

	return s.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO complaints
				(id, title, description, address, author_id, department_id, status,
				 attachments, attachment_analyses, urgency_score, urgency_label, urgency_reason,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			c.ID, c.Title, c.Description, c.Address, c.AuthorID, c.DepartmentID, c.Status,
			attachments, analyses, score, label, reason, c.CreatedAt, c.UpdatedAt)
		return err
	})
}

func (s *Store) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	var c models.Complaint
	var attachments, analyses []byte
	var score *int
	var label, reason *string

	err := s.Pool.QueryRow(ctx, `
		SELECT id, title, description, address, author_id, department_id, status,
			attachments, attachment_analyses, urgency_score, urgency_label, urgency_reason,
			created_at, updated_at
		FROM complaints WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &c.Address, &c.AuthorID, &c.DepartmentID, &c.Status,
			&attachments, &analyses, &score, &label, &reason, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Complaint{}, err
	}

	c.Attachments = []models.Attachment{}
	c.Analyses = []models.AttachmentAnalysis{}
	if err := json.Unmarshal(attachments, &c.Attachments); err != nil {
		return models.Complaint{}, err
	}
	if err := json.Unmarshal(analyses, &c.Analyses); err != nil {
		return models.Complaint{}, err
	}
	if score != nil && label != nil && reason != nil {
		c.Urgency = &models.Urgency{Score: *score, Label: *label, Reason: *reason}
	}

	thread, err := s.listThread(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}
	c.Thread = thread
	return c, nil
}

func (s *Store) ListComplaints(ctx context.Context, status, departmentID, authorID string, limit, offset int) ([]models.Complaint, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, title, description, address, author_id, department_id, status,
			attachments, attachment_analyses, urgency_score, urgency_label, urgency_reason,
			created_at, updated_at
		FROM complaints`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if departmentID != "" {
		args = append(args, departmentID)
		wheres = append(wheres, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if authorID != "" {
		args = append(args, authorID)
		wheres = append(wheres, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		var c models.Complaint
		var attachments, analyses []byte
		var score *int
		var label, reason *string
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Address, &c.AuthorID, &c.DepartmentID, &c.Status,
			&attachments, &analyses, &score, &label, &reason, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Attachments = []models.Attachment{}
		c.Analyses = []models.AttachmentAnalysis{}
		if err := json.Unmarshal(attachments, &c.Attachments); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(analyses, &c.Analyses); err != nil {
			return nil, err
		}
		if score != nil && label != nil && reason != nil {
			c.Urgency = &models.Urgency{Score: *score, Label: *label, Reason: *reason}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateComplaintStatus(ctx context.Context, id, status string) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE complaints SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteComplaint(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// thread

func (s *Store) AppendThreadMessage(ctx context.Context, complaintID string, msg models.ThreadMessage) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM complaints WHERE id = $1)`, complaintID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO thread_messages (complaint_id, message, author_kind, author_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
			complaintID, msg.Message, string(msg.AuthorKind), msg.AuthorID, msg.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE complaints SET updated_at = now() WHERE id = $1`, complaintID)
		return err
	})
}

func (s *Store) listThread(ctx context.Context, complaintID string) ([]models.ThreadMessage, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT message, author_kind, author_id, created_at FROM thread_messages WHERE complaint_id = $1 ORDER BY id ASC`,
		complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ThreadMessage{}
	for rows.Next() {
		var m models.ThreadMessage
		var kind string
		if err := rows.Scan(&m.Message, &kind, &m.AuthorID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.AuthorKind = models.AuthorKind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}

// DashboardStats aggregates counts for the insights endpoint.
type DashboardStats struct {
	Total        int            `json:"total_complaints"`
	ByStatus     map[string]int `json:"by_status"`
	ByDepartment map[string]int `json:"by_department"`
	ByUrgency    map[string]int `json:"by_urgency"`
	Users        int            `json:"users"`
	Departments  int            `json:"departments"`
	LastUpdated  time.Time      `json:"last_updated"`
}

func (s *Store) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{
		ByStatus:     map[string]int{},
		ByDepartment: map[string]int{},
		ByUrgency:    map[string]int{},
		LastUpdated:  time.Now().UTC(),
	}

	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&stats.Total); err != nil {
		return DashboardStats{}, err
	}
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.Users); err != nil {
		return DashboardStats{}, err
	}
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&stats.Departments); err != nil {
		return DashboardStats{}, err
	}

	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return DashboardStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return DashboardStats{}, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return DashboardStats{}, err
	}

	deptRows, err := s.Pool.Query(ctx, `
		SELECT d.name, COUNT(c.id) FROM departments d
		LEFT JOIN complaints c ON c.department_id = d.id
		GROUP BY d.name`)
	if err != nil {
		return DashboardStats{}, err
	}
	defer deptRows.Close()
	for deptRows.Next() {
		var name string
		var count int
		if err := deptRows.Scan(&name, &count); err != nil {
			return DashboardStats{}, err
		}
		stats.ByDepartment[name] = count
	}
	if err := deptRows.Err(); err != nil {
		return DashboardStats{}, err
	}

	urgRows, err := s.Pool.Query(ctx,
		`SELECT urgency_label, COUNT(*) FROM complaints WHERE urgency_label IS NOT NULL GROUP BY urgency_label`)
	if err != nil {
		return DashboardStats{}, err
	}
	defer urgRows.Close()
	for urgRows.Next() {
		var label string
		var count int
		if err := urgRows.Scan(&label, &count); err != nil {
			return DashboardStats{}, err
		}
		stats.ByUrgency[label] = count
	}
	return stats, urgRows.Err()
}
