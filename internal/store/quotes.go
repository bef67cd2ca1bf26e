package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/morgween/ulu-pricing/internal/model"
)

// QuoteSummary list row of a saved quote
type QuoteSummary struct {
	ID            string    `json:"id"`
	ClientName    string    `json:"clientName"`
	EventDate     string    `json:"eventDate"`
	EventKind     string    `json:"eventKind"`
	Menu          string    `json:"menu"`
	TotalGuests   int       `json:"totalGuests"`
	TotalIncVAT   float64   `json:"totalIncVat"`
	ConfigVersion int       `json:"configVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// QuoteRecord saved quote with its request and computed result
type QuoteRecord struct {
	QuoteSummary
	Request model.QuoteRequest `json:"request"`
	Result  *model.QuoteResult `json:"result"`
}

// QuoteFilter list options
type QuoteFilter struct {
	Search string
	Limit  int
	Offset int
}

// CreateQuote saves a calculated quote under a fresh UUID
func (s *Store) CreateQuote(req model.QuoteRequest, res *model.QuoteResult, configVersion int) (*QuoteRecord, error) {
	if res == nil {
		return nil, errors.New("create quote: missing result")
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode quote request: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode quote result: %w", err)
	}

	rec := &QuoteRecord{
		QuoteSummary: QuoteSummary{
			ID:            uuid.NewString(),
			ClientName:    req.Client.Name,
			EventDate:     req.Client.EventDate,
			EventKind:     req.Client.Kind,
			Menu:          string(res.Menu),
			TotalGuests:   res.Guests.Total,
			TotalIncVAT:   res.TotalWithVAT,
			ConfigVersion: configVersion,
			CreatedAt:     time.Now().UTC().Truncate(time.Second),
		},
		Request: req,
		Result:  res,
	}

	_, err = s.db.Exec(`
		INSERT INTO quotes (id, client_name, event_date, event_kind, menu, total_guests,
			total_inc_vat, config_version, request_json, result_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ClientName, rec.EventDate, rec.EventKind, rec.Menu, rec.TotalGuests,
		rec.TotalIncVAT, rec.ConfigVersion, string(reqJSON), string(resJSON), rec.CreatedAt, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quote: %w", err)
	}
	return rec, nil
}

// GetQuote loads one saved quote
func (s *Store) GetQuote(id string) (*QuoteRecord, error) {
	var (
		rec              QuoteRecord
		reqJSON, resJSON string
	)
	err := s.db.QueryRow(`
		SELECT id, client_name, event_date, event_kind, menu, total_guests, total_inc_vat,
			config_version, request_json, result_json, created_at
		FROM quotes WHERE id = ?
	`, id).Scan(&rec.ID, &rec.ClientName, &rec.EventDate, &rec.EventKind, &rec.Menu, &rec.TotalGuests,
		&rec.TotalIncVAT, &rec.ConfigVersion, &reqJSON, &resJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("quote %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query quote failed: %w", err)
	}

	if err := json.Unmarshal([]byte(reqJSON), &rec.Request); err != nil {
		return nil, fmt.Errorf("decode quote request: %w", err)
	}
	rec.Result = &model.QuoteResult{}
	if err := json.Unmarshal([]byte(resJSON), rec.Result); err != nil {
		return nil, fmt.Errorf("decode quote result: %w", err)
	}
	return &rec, nil
}

// ListQuotes newest first; Search matches client name or event date
func (s *Store) ListQuotes(f QuoteFilter) ([]QuoteSummary, int, error) {
	where := ""
	var args []any
	if q := strings.TrimSpace(f.Search); q != "" {
		where = "WHERE client_name LIKE ? OR event_date LIKE ?"
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM quotes "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes failed: %w", err)
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(`
		SELECT id, client_name, event_date, event_kind, menu, total_guests, total_inc_vat,
			config_version, created_at
		FROM quotes `+where+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query quotes failed: %w", err)
	}
	defer rows.Close()

	out := []QuoteSummary{}
	for rows.Next() {
		var it QuoteSummary
		if err := rows.Scan(&it.ID, &it.ClientName, &it.EventDate, &it.EventKind, &it.Menu,
			&it.TotalGuests, &it.TotalIncVAT, &it.ConfigVersion, &it.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan quote failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate quotes failed: %w", err)
	}
	return out, total, nil
}

// DeleteQuote removes a saved quote
func (s *Store) DeleteQuote(id string) error {
	res, err := s.db.Exec("DELETE FROM quotes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("quote %s: %w", id, ErrNotFound)
	}
	return nil
}
