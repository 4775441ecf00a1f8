package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Search lifecycle states. A search never transitions backward.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// batchSize is how many lead writes go into one atomic batch. It leaves
// headroom under the store's per-transaction operation limit for the two
// finalization writes that ride on the last batch.
const batchSize = 400

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Search is one search request and its lifecycle record.
type Search struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	Keyword       string
	City          string
	Country       string
	MaxResults    int
	Status        string
	TotalResults  int
	ErrorMessage  *string
	ProviderRunID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Lead is one normalized business result belonging to a search.
// Every field except the identity fields is nullable.
type Lead struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	SearchID     uuid.UUID
	BusinessName *string
	Address      *string
	Phone        *string
	Website      *string
	Email        *string
	Category     *string
	Rating       *float64
	ReviewsCount *int
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
}

const searchColumns = `id, account_id, keyword, city, country, max_results,
	status, total_results, error_message, provider_run_id, created_at, updated_at`

func scanSearch(row pgx.Row) (Search, error) {
	var s Search
	err := row.Scan(
		&s.ID,
		&s.AccountID,
		&s.Keyword,
		&s.City,
		&s.Country,
		&s.MaxResults,
		&s.Status,
		&s.TotalResults,
		&s.ErrorMessage,
		&s.ProviderRunID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Search{}, ErrNotFound
	}
	return s, err
}

// Create inserts a new queued search.
func (r *Repository) Create(ctx context.Context, s Search) (Search, error) {
	return scanSearch(r.pool.QueryRow(ctx, `
		INSERT INTO searches (id, account_id, keyword, city, country, max_results)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+searchColumns+`
	`, s.ID, s.AccountID, s.Keyword, s.City, s.Country, s.MaxResults))
}

// GetByID loads a single search.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Search, error) {
	return scanSearch(r.pool.QueryRow(ctx, `
		SELECT `+searchColumns+`
		FROM searches WHERE id = $1
	`, id))
}

// ListByAccount returns the account's searches, newest first.
func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]Search, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+searchColumns+`
		FROM searches
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := make([]Search, 0)
	for rows.Next() {
		s, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}

// MarkRunning transitions the search to running and clears any prior error.
func (r *Repository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE searches
		SET status = $2, error_message = NULL, updated_at = now()
		WHERE id = $1
	`, id, StatusRunning)
	return err
}

// MarkFailed records the terminal failed state with the error message.
// A missing row is not an error: failure finalization is best-effort.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE searches
		SET status = $2, error_message = $3, updated_at = now()
		WHERE id = $1
	`, id, StatusFailed, message)
	return err
}

// MarkCompleted records the terminal completed state. Used directly only for
// runs that produced no leads; otherwise completion rides the final batch.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, totalResults int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE searches
		SET status = $2, total_results = $3, error_message = NULL, updated_at = now()
		WHERE id = $1
	`, id, StatusCompleted, totalResults)
	return err
}

// SetProviderRunID persists the external run identifier as soon as it is
// known, so the search can be correlated with the provider run even if later
// steps fail.
func (r *Repository) SetProviderRunID(ctx context.Context, id uuid.UUID, runID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE searches
		SET provider_run_id = $2, updated_at = now()
		WHERE id = $1
	`, id, runID)
	return err
}

// InsertLeadsAndFinalize writes the leads in bounded batches of 400. Each
// batch is one atomic write group. The final batch also
// carries the search's terminal completed state and the account's usage
// increment, so the last leads, the completion, and the quota charge land
// together or not at all. Earlier batches are independent: a crash between
// batches leaves them persisted with the search still running and the quota
// uncharged.
func (r *Repository) InsertLeadsAndFinalize(ctx context.Context, accountID, searchID uuid.UUID, leads []Lead, preLeadsUsed int) error {
	if len(leads) == 0 {
		return r.MarkCompleted(ctx, searchID, 0)
	}

	chunks := chunkLeads(leads, batchSize)

	for index, chunk := range chunks {
		isLast := index == len(chunks)-1
		if err := r.commitLeadBatch(ctx, accountID, searchID, chunk, isLast, len(leads), preLeadsUsed); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) commitLeadBatch(ctx context.Context, accountID, searchID uuid.UUID, chunk []Lead, isLast bool, totalLeads, preLeadsUsed int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := buildLeadBatch(accountID, searchID, chunk, isLast, totalLeads, preLeadsUsed)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err = results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	if err = results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// buildLeadBatch queues one insert per lead. Only the final batch additionally
// carries the completion write and the usage charge.
func buildLeadBatch(accountID, searchID uuid.UUID, chunk []Lead, isLast bool, totalLeads, preLeadsUsed int) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, lead := range chunk {
		batch.Queue(`
			INSERT INTO leads (
				id, account_id, search_id, business_name, address, phone,
				website, email, category, rating, reviews_count, latitude, longitude
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, uuid.New(), accountID, searchID, lead.BusinessName, lead.Address, lead.Phone,
			lead.Website, lead.Email, lead.Category, lead.Rating, lead.ReviewsCount,
			lead.Latitude, lead.Longitude)
	}

	if isLast {
		batch.Queue(`
			UPDATE searches
			SET status = $2, total_results = $3, error_message = NULL, updated_at = now()
			WHERE id = $1
		`, searchID, StatusCompleted, totalLeads)
		batch.Queue(`
			UPDATE accounts
			SET leads_used = $2, updated_at = now()
			WHERE id = $1
		`, accountID, preLeadsUsed+totalLeads)
	}

	return batch
}

// PatchLeadEmail sets the contact email on the one lead matched by
// (search, website). This is the only mutation a lead ever receives.
func (r *Repository) PatchLeadEmail(ctx context.Context, searchID uuid.UUID, website, email string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET email = $3
		WHERE id = (
			SELECT id FROM leads
			WHERE search_id = $1 AND website = $2
			LIMIT 1
		)
	`, searchID, website, email)
	return err
}

// ListLeads returns all leads of one search owned by the account.
func (r *Repository) ListLeads(ctx context.Context, searchID, accountID uuid.UUID) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, search_id, business_name, address, phone,
			website, email, category, rating, reviews_count, latitude, longitude, created_at
		FROM leads
		WHERE search_id = $1 AND account_id = $2
		ORDER BY created_at
	`, searchID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var l Lead
		if err := rows.Scan(
			&l.ID, &l.AccountID, &l.SearchID, &l.BusinessName, &l.Address, &l.Phone,
			&l.Website, &l.Email, &l.Category, &l.Rating, &l.ReviewsCount,
			&l.Latitude, &l.Longitude, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// DeleteByAccount removes all of the account's rows from the given table in
// bounded rounds so no single delete exceeds the batch ceiling.
func (r *Repository) DeleteByAccount(ctx context.Context, table string, accountID uuid.UUID) error {
	query := `
		DELETE FROM ` + table + `
		WHERE id IN (
			SELECT id FROM ` + table + `
			WHERE account_id = $1
			LIMIT $2
		)
	`
	for {
		tag, err := r.pool.Exec(ctx, query, accountID, batchSize)
		if err != nil {
			return err
		}
		if tag.RowsAffected() < batchSize {
			return nil
		}
	}
}

// chunkLeads partitions leads into slices of at most size records.
func chunkLeads(leads []Lead, size int) [][]Lead {
	chunks := make([][]Lead, 0, (len(leads)+size-1)/size)
	for start := 0; start < len(leads); start += size {
		end := start + size
		if end > len(leads) {
			end = len(leads)
		}
		chunks = append(chunks, leads[start:end])
	}
	return chunks
}
