package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmissionRecord is one row of booking_submissions.
type SubmissionRecord struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	ServiceID   string          `json:"serviceId"`
	Email       string          `json:"email"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// RecordFor builds the log row of a submitted state.
func RecordFor(s State) (SubmissionRecord, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return SubmissionRecord{}, fmt.Errorf("booking: encode submission: %w", err)
	}
	rec := SubmissionRecord{
		Reference: s.Reference,
		ServiceID: s.ServiceID,
		Email:     s.Contact.Email,
		Date:      s.Date,
		Time:      s.Time,
		Payload:   payload,
	}
	if s.SubmittedAt != nil {
		rec.SubmittedAt = *s.SubmittedAt
	}
	return rec, nil
}

// SubmissionRecorder stores successful submissions.
type SubmissionRecorder interface {
	Record(ctx context.Context, rec SubmissionRecord) error
}

// SubmissionLog appends submissions to Postgres.
type SubmissionLog struct {
	db *sql.DB
}

func NewSubmissionLog(db *sql.DB) *SubmissionLog {
	return &SubmissionLog{db: db}
}

// Record inserts rec. A repeated reference is ignored.
func (l *SubmissionLog) Record(ctx context.Context, rec SubmissionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO booking_submissions (
			id, reference, service_id, email, scheduled_date, scheduled_time, payload, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reference) DO NOTHING
	`
	_, err := l.db.ExecContext(ctx, query,
		rec.ID,
		rec.Reference,
		rec.ServiceID,
		rec.Email,
		rec.Date,
		rec.Time,
		[]byte(rec.Payload),
		rec.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("booking: record submission: %w", err)
	}
	return nil
}

// Recent returns the latest submissions, newest first.
func (l *SubmissionLog) Recent(ctx context.Context, limit int) ([]SubmissionRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, reference, service_id, email, scheduled_date, scheduled_time, submitted_at
		FROM booking_submissions
		ORDER BY submitted_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("booking: query submissions: %w", err)
	}
	defer rows.Close()

	var out []SubmissionRecord
	for rows.Next() {
		var rec SubmissionRecord
		if err := rows.Scan(&rec.ID, &rec.Reference, &rec.ServiceID, &rec.Email, &rec.Date, &rec.Time, &rec.SubmittedAt); err != nil {
			return nil, fmt.Errorf("booking: scan submission: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate submissions: %w", err)
	}
	return out, nil
}
