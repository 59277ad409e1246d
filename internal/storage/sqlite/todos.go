package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/storage"
)

const todoColumns = `id, family_id, type, title, description, status, priority, category,
	assigned_to, created_by, due_date, due_time, completed_at,
	start_time, end_time, meeting_link, agenda, created_at, updated_at, version`

// CreateTodo persists a new todo with its tags, attendees and comments.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	// Generate ID and timestamps if not set
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt == 0 {
		todo.CreatedAt = time.Now().Unix()
	}
	if todo.UpdatedAt == 0 {
		todo.UpdatedAt = todo.CreatedAt
	}
	if todo.Version == 0 {
		todo.Version = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.FamilyID, string(todo.Type), todo.Title, todo.Description,
		string(todo.Status), string(todo.Priority), todo.Category,
		todo.AssignedTo, todo.CreatedBy, todo.DueDate, todo.DueTime, todo.CompletedAt,
		todo.StartTime, todo.EndTime, todo.MeetingLink, todo.Agenda,
		todo.CreatedAt, todo.UpdatedAt, todo.Version,
	)
	if err != nil {
		return storeErr("insert todo", err)
	}

	if err := insertTags(ctx, tx, todo.ID, todo.Tags); err != nil {
		return err
	}
	if err := insertAttendees(ctx, tx, todo.ID, todo.Attendees); err != nil {
		return err
	}

	for i := range todo.Comments {
		if err := insertComment(ctx, tx, todo.ID, &todo.Comments[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}

	return nil
}

// GetTodo retrieves a todo by ID, including tags, attendees and comments.
func (s *SQLiteStore) GetTodo(ctx context.Context, todoID string) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	todo, err := scanTodoRow(s.db.QueryRowContext(ctx, query, todoID))
	if err != nil {
		return nil, err
	}

	if err := s.attachChildren(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// UpdateTodo overwrites the todo record and replaces its tags and attendees.
// Comments are append-only and handled by AppendComment.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	todo.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE todos
		 SET type = ?, title = ?, description = ?, status = ?, priority = ?, category = ?,
		     assigned_to = ?, due_date = ?, due_time = ?, completed_at = ?,
		     start_time = ?, end_time = ?, meeting_link = ?, agenda = ?,
		     updated_at = ?, version = ?
		 WHERE id = ?`,
		string(todo.Type), todo.Title, todo.Description, string(todo.Status),
		string(todo.Priority), todo.Category, todo.AssignedTo,
		todo.DueDate, todo.DueTime, todo.CompletedAt,
		todo.StartTime, todo.EndTime, todo.MeetingLink, todo.Agenda,
		todo.UpdatedAt, todo.Version, todo.ID,
	)
	if err != nil {
		return storeErr("update todo", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("update todo", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM todo_tags WHERE todo_id = ?`, todo.ID); err != nil {
		return storeErr("clear tags", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_attendees WHERE todo_id = ?`, todo.ID); err != nil {
		return storeErr("clear attendees", err)
	}
	if err := insertTags(ctx, tx, todo.ID, todo.Tags); err != nil {
		return err
	}
	if err := insertAttendees(ctx, tx, todo.ID, todo.Attendees); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}

	return nil
}

// DeleteTodo hard-deletes a todo; tags, attendees and comments cascade.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, todoID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, todoID)
	if err != nil {
		return storeErr("delete todo", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete todo", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// AppendComment adds a comment to the todo's trail.
func (s *SQLiteStore) AppendComment(ctx context.Context, todoID string, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt == 0 {
		comment.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := insertComment(ctx, tx, todoID, comment); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}

	return nil
}

// ListTodos returns every todo in the family, newest first, with children attached.
func (s *SQLiteStore) ListTodos(ctx context.Context, familyID string) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE family_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, storeErr("list todos", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate todos", err)
	}

	for i := range todos {
		if err := s.attachChildren(ctx, &todos[i]); err != nil {
			return nil, err
		}
	}

	return todos, nil
}

func insertTags(ctx context.Context, tx *sql.Tx, todoID string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO todo_tags (todo_id, tag) VALUES (?, ?)`, todoID, tag,
		); err != nil {
			return storeErr("insert tag", err)
		}
	}
	return nil
}

func insertAttendees(ctx context.Context, tx *sql.Tx, todoID string, attendees []string) error {
	for _, userID := range attendees {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meeting_attendees (todo_id, user_id) VALUES (?, ?)`, todoID, userID,
		); err != nil {
			return storeErr("insert attendee", err)
		}
	}
	return nil
}

func insertComment(ctx context.Context, tx *sql.Tx, todoID string, comment *models.Comment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO comments (id, todo_id, text, user_id, type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID, todoID, comment.Text, comment.UserID, string(comment.Type), comment.CreatedAt,
	)
	if err != nil {
		return storeErr("insert comment", err)
	}
	return nil
}

// attachChildren loads tags, attendees and the comment trail onto the todo.
func (s *SQLiteStore) attachChildren(ctx context.Context, todo *models.Todo) error {
	tagRows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM todo_tags WHERE todo_id = ? ORDER BY tag`, todo.ID)
	if err != nil {
		return storeErr("get tags", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return storeErr("scan tag", err)
		}
		todo.Tags = append(todo.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return storeErr("iterate tags", err)
	}

	attRows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM meeting_attendees WHERE todo_id = ? ORDER BY user_id`, todo.ID)
	if err != nil {
		return storeErr("get attendees", err)
	}
	defer attRows.Close()

	for attRows.Next() {
		var userID string
		if err := attRows.Scan(&userID); err != nil {
			return storeErr("scan attendee", err)
		}
		todo.Attendees = append(todo.Attendees, userID)
	}
	if err := attRows.Err(); err != nil {
		return storeErr("iterate attendees", err)
	}

	commentRows, err := s.db.QueryContext(ctx,
		`SELECT id, text, user_id, type, created_at
		 FROM comments WHERE todo_id = ? ORDER BY created_at ASC, id ASC`, todo.ID)
	if err != nil {
		return storeErr("get comments", err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var c models.Comment
		var ctype string
		if err := commentRows.Scan(&c.ID, &c.Text, &c.UserID, &ctype, &c.CreatedAt); err != nil {
			return storeErr("scan comment", err)
		}
		c.Type = models.CommentType(ctype)
		todo.Comments = append(todo.Comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return storeErr("iterate comments", err)
	}

	return nil
}

func scanTodoRow(row *sql.Row) (*models.Todo, error) {
	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return todo, err
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	todo := &models.Todo{}
	var ttype, status, priority string
	var completedAt sql.NullInt64

	err := row.Scan(
		&todo.ID,
		&todo.FamilyID,
		&ttype,
		&todo.Title,
		&todo.Description,
		&status,
		&priority,
		&todo.Category,
		&todo.AssignedTo,
		&todo.CreatedBy,
		&todo.DueDate,
		&todo.DueTime,
		&completedAt,
		&todo.StartTime,
		&todo.EndTime,
		&todo.MeetingLink,
		&todo.Agenda,
		&todo.CreatedAt,
		&todo.UpdatedAt,
		&todo.Version,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, storeErr("scan todo", err)
	}

	todo.Type = models.TodoType(ttype)
	todo.Status = models.Status(status)
	todo.Priority = models.Priority(priority)
	if completedAt.Valid {
		todo.CompletedAt = &completedAt.Int64
	}
	return todo, nil
}
