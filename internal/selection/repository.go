package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcovc/services/internal/contracts"
)

var _ contracts.SelectionRepository = (*Repository)(nil)

// ErrNotFound is returned when no selection is stored for the requested key
var ErrNotFound = errors.New("selection not found")

// Repository handles selection data persistence
// ⭐ SSOT: Selection 데이터 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save stores a selection, replacing any earlier one for the same auction and solver
func (r *Repository) Save(ctx context.Context, sel *contracts.Selection) error {
	claimsJSON, err := json.Marshal(sel.QuotaClaims)
	if err != nil {
		return fmt.Errorf("failed to marshal quota claims: %w", err)
	}

	uids := make([][]byte, len(sel.OrderUIDs))
	for i := range sel.OrderUIDs {
		uids[i] = sel.OrderUIDs[i][:]
	}

	query := `
		INSERT INTO selection.results (
			auction_id, solver, input_orders, max_orders, quota_claims, filled, order_uids, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (auction_id, solver) DO UPDATE SET
			input_orders = EXCLUDED.input_orders,
			max_orders = EXCLUDED.max_orders,
			quota_claims = EXCLUDED.quota_claims,
			filled = EXCLUDED.filled,
			order_uids = EXCLUDED.order_uids,
			created_at = EXCLUDED.created_at
	`

	_, err = r.pool.Exec(ctx, query,
		sel.AuctionID, sel.Solver.Bytes(), sel.InputOrders, sel.MaxOrders,
		claimsJSON, sel.Filled, uids, sel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}

	return nil
}

// Get retrieves the selection made for solver in an auction
func (r *Repository) Get(ctx context.Context, auctionID int64, solver common.Address) (*contracts.Selection, error) {
	query := `
		SELECT auction_id, solver, input_orders, max_orders, quota_claims, filled, order_uids, created_at
		FROM selection.results
		WHERE auction_id = $1 AND solver = $2
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, auctionID, solver.Bytes()))
}

// Latest retrieves the most recent selection of an auction, whatever the solver
func (r *Repository) Latest(ctx context.Context, auctionID int64) (*contracts.Selection, error) {
	query := `
		SELECT auction_id, solver, input_orders, max_orders, quota_claims, filled, order_uids, created_at
		FROM selection.results
		WHERE auction_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, auctionID))
}

// DeleteOlderThan removes selections created before cutoff
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM selection.results WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old selections: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) scanOne(row pgx.Row) (*contracts.Selection, error) {
	var sel contracts.Selection
	var solver []byte
	var claimsJSON []byte
	var uids [][]byte

	err := row.Scan(
		&sel.AuctionID, &solver, &sel.InputOrders, &sel.MaxOrders,
		&claimsJSON, &sel.Filled, &uids, &sel.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}

	sel.Solver = common.BytesToAddress(solver)
	if err := json.Unmarshal(claimsJSON, &sel.QuotaClaims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quota claims: %w", err)
	}

	sel.OrderUIDs = make([]contracts.OrderUID, len(uids))
	for i, b := range uids {
		if len(b) != contracts.OrderUIDLength {
			return nil, fmt.Errorf("stored order uid %d has %d bytes", i, len(b))
		}
		copy(sel.OrderUIDs[i][:], b)
	}

	return &sel, nil
}
