package store

import (
	"database/sql"
	"fmt"
	"time"
)

// export log statuses
const (
	ExportProcessing = "processing"
	ExportCompleted  = "completed"
	ExportFailed     = "failed"
)

// ExportLog one exported document
type ExportLog struct {
	ID           int64      `json:"id"`
	QuoteID      string     `json:"quoteId,omitempty"`
	Format       string     `json:"format"`
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"fileSize"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateExportLog records an export in progress, returns its id
func (s *Store) CreateExportLog(quoteID, format, filename string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO export_logs (quote_id, format, filename, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, nullString(quoteID), format, filename, ExportProcessing, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create export log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get export log id: %w", err)
	}
	return id, nil
}

// FinishExportLog marks an export completed or failed
func (s *Store) FinishExportLog(id int64, fileSize int64, exportErr error) error {
	status, message := ExportCompleted, ""
	if exportErr != nil {
		status, message = ExportFailed, exportErr.Error()
	}
	_, err := s.db.Exec(`
		UPDATE export_logs SET
			file_size = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, fileSize, status, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update export log: %w", err)
	}
	return nil
}

// ListExportLogs most recent exports first
func (s *Store) ListExportLogs(limit int) ([]ExportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, quote_id, format, filename, file_size, status, error_message, created_at, completed_at
		FROM export_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query export logs failed: %w", err)
	}
	defer rows.Close()

	out := []ExportLog{}
	for rows.Next() {
		var (
			it        ExportLog
			quoteID   sql.NullString
			message   sql.NullString
			completed sql.NullTime
		)
		if err := rows.Scan(&it.ID, &quoteID, &it.Format, &it.Filename, &it.FileSize, &it.Status,
			&message, &it.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan export log failed: %w", err)
		}
		it.QuoteID = quoteID.String
		it.ErrorMessage = message.String
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
