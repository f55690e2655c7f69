package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	golog "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/auction"
	"github.com/textileio/settlement-core/storeutil"
)

const (
	// defaultListLimit is the default list page size.
	defaultListLimit = 100
	// maxListLimit is the max list page size.
	maxListLimit = 1000
)

var (
	log = golog.Logger("settler/store")

	//go:embed migrations/*.sql
	migrationsFS embed.FS

	// ErrAuctionNotFound indicates the requested auction was not found.
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrBidNotFound indicates the requested bid was not found.
	ErrBidNotFound = errors.New("bid not found")

	// ErrUserNotFound indicates the requested user was not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrAuctionSettled indicates the auction is settled and can't be altered.
	ErrAuctionSettled = errors.New("auction is settled")

	// ErrAuctionClosed indicates the auction is not accepting bids.
	ErrAuctionClosed = errors.New("auction is closed")

	// ErrBidCharged indicates the bid already holds a charge.
	ErrBidCharged = errors.New("bid already charged")

	// ErrUserExists indicates a user with the same id already exists.
	ErrUserExists = errors.New("user already exists")

	// ErrAuctionExists indicates an auction with the same id already exists.
	ErrAuctionExists = errors.New("auction already exists")
)

// Store is a postgres-backed store for auctions, bids and users.
type Store struct {
	conn *sqlx.DB

	lk      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New returns a new *Store, migrating the database when needed.
func New(postgresURI string) (*Store, error) {
	conn, err := storeutil.MigrateAndConnectToDB(postgresURI, migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return &Store{conn: conn}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.conn.Close()
}

// NewID returns new monotonically increasing ids.
func (s *Store) NewID(t time.Time) (string, error) {
	s.lk.Lock() // entropy is not safe for concurrent use
	defer s.lk.Unlock()

	if s.entropy == nil {
		s.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	id, err := ulid.New(ulid.Timestamp(t.UTC()), s.entropy)
	if errors.Is(err, ulid.ErrMonotonicOverflow) {
		s.entropy = ulid.Monotonic(rand.Reader, 0)
		id, err = ulid.New(ulid.Timestamp(t.UTC()), s.entropy)
	}
	if err != nil {
		return "", fmt.Errorf("generating id: %v", err)
	}
	return strings.ToLower(id.String()), nil
}

// CreateUser persists a user.
func (s *Store) CreateUser(ctx context.Context, u auction.User) error {
	if u.ID == "" {
		return errors.New("user id is empty")
	}
	if _, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, customer_id, payout_account_id) VALUES ($1, $2, $3)`,
		u.ID, u.CustomerID, u.PayoutAccountID); err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("inserting user: %v", err)
	}
	return nil
}

// GetUser returns a user by id.
// If a user is not found for id, ErrUserNotFound is returned.
func (s *Store) GetUser(ctx context.Context, id auction.UserID) (*auction.User, error) {
	var r userRow
	err := s.conn.GetContext(ctx, &r,
		`SELECT id, customer_id, payout_account_id FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("getting user: %v", err)
	}
	return &auction.User{
		ID:              auction.UserID(r.ID),
		CustomerID:      r.CustomerID,
		PayoutAccountID: r.PayoutAccountID,
	}, nil
}

// CreateAuction persists an auction. If the auction has no id, a new one is
// assigned and written back.
func (s *Store) CreateAuction(ctx context.Context, a *auction.Auction) error {
	if a.ID == "" {
		id, err := s.NewID(time.Now())
		if err != nil {
			return err
		}
		a.ID = auction.AuctionID(id)
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid auction data: %s", err)
	}
	if a.IsSettled {
		return errors.New("initial settled flag must be false")
	}
	err := s.conn.GetContext(ctx, &a.CreatedAt,
		`INSERT INTO auctions (id, type, target_amount, winner_count, ends_at, creator_id, is_canceled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		a.ID, a.Rule.Kind(), auction.RuleTarget(a.Rule), a.WinnerCount, a.EndsAt.UTC(), a.CreatorID, a.IsCanceled)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAuctionExists
		}
		return fmt.Errorf("inserting auction: %v", err)
	}
	log.Debugf("created auction %s", a.ID)
	return nil
}

// GetAuction returns an auction by id.
// If an auction is not found for id, ErrAuctionNotFound is returned.
func (s *Store) GetAuction(ctx context.Context, id auction.AuctionID) (*auction.Auction, error) {
	var r auctionRow
	err := s.conn.GetContext(ctx, &r, `SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrAuctionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("getting auction: %v", err)
	}
	return auctionFromRow(r)
}

// CreateBid persists a bid placed now. If the bid has no id, a new one is
// assigned and written back. Bids placed in the last minutes of a highest bid
// auction extend the auction end.
func (s *Store) CreateBid(ctx context.Context, b *auction.Bid) error {
	if b.ID == "" {
		id, err := s.NewID(time.Now())
		if err != nil {
			return err
		}
		b.ID = auction.BidID(id)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("invalid bid data: %s", err)
	}
	if b.IsWinner || b.ChargeID != "" || b.ChargeError != "" || b.Refund != nil {
		return errors.New("initial bid settlement fields must be empty")
	}
	return storeutil.WithTx(ctx, s.conn, func(tx *sqlx.Tx) error {
		var r auctionRow
		err := tx.GetContext(ctx, &r, `SELECT `+auctionColumns+` FROM auctions WHERE id = $1 FOR UPDATE`, b.AuctionID)
		if err == sql.ErrNoRows {
			return ErrAuctionNotFound
		} else if err != nil {
			return fmt.Errorf("getting auction: %v", err)
		}
		a, err := auctionFromRow(r)
		if err != nil {
			return err
		}
		// created_at is assigned by the server, so the closing check runs after
		// the insert and rolls it back.
		if err := tx.GetContext(ctx, &b.CreatedAt,
			`INSERT INTO bids (id, auction_id, amount, creator_id, payment_method_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`,
			b.ID, b.AuctionID, b.Amount, b.CreatorID, b.PaymentMethodID); err != nil {
			return fmt.Errorf("inserting bid: %v", err)
		}
		if a.IsSettled || a.IsCanceled || !b.CreatedAt.Before(a.EndsAt) {
			return ErrAuctionClosed
		}
		if endsAt := auction.ExtendedEndsAt(*a, b.CreatedAt); !endsAt.Equal(a.EndsAt) {
			if _, err := tx.ExecContext(ctx,
				`UPDATE auctions SET ends_at = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
				a.ID, endsAt.UTC()); err != nil {
				return fmt.Errorf("extending auction: %v", err)
			}
			log.Debugf("bid %s extended auction %s to %s", b.ID, a.ID, endsAt)
		}
		return nil
	})
}

// ListSettleableAuctionIDs returns the ids of unsettled auctions that ended
// before endedBefore. Results are ordered by id, starting after the given id.
func (s *Store) ListSettleableAuctionIDs(
	ctx context.Context,
	endedBefore time.Time,
	after auction.AuctionID,
	limit int,
) ([]auction.AuctionID, error) {
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	var ids []auction.AuctionID
	if err := s.conn.SelectContext(ctx, &ids,
		`SELECT id FROM auctions
		WHERE ends_at < $1 AND NOT is_settled AND id > $2
		ORDER BY id
		LIMIT $3`,
		endedBefore.UTC(), after, limit); err != nil {
		return nil, fmt.Errorf("querying settleable auctions: %v", err)
	}
	return ids, nil
}

// ListAuctionBids returns all bids of an auction, newest first.
func (s *Store) ListAuctionBids(ctx context.Context, id auction.AuctionID) ([]auction.Bid, error) {
	var rows []bidRow
	if err := s.conn.SelectContext(ctx, &rows,
		`SELECT `+bidColumns+` FROM bids WHERE auction_id = $1 ORDER BY created_at DESC, id DESC`, id); err != nil {
		return nil, fmt.Errorf("querying bids: %v", err)
	}
	bids := make([]auction.Bid, len(rows))
	for i, r := range rows {
		bids[i] = bidFromRow(r)
	}
	return bids, nil
}

// MarkBidAttempted marks a bid as a winner before it's charged. The auction
// must be unsettled and the bid must not hold a charge already.
func (s *Store) MarkBidAttempted(ctx context.Context, auctionID auction.AuctionID, bidID auction.BidID) error {
	return storeutil.WithTx(ctx, s.conn, func(tx *sqlx.Tx) error {
		var settled bool
		err := tx.GetContext(ctx, &settled, `SELECT is_settled FROM auctions WHERE id = $1 FOR UPDATE`, auctionID)
		if err == sql.ErrNoRows {
			return ErrAuctionNotFound
		} else if err != nil {
			return fmt.Errorf("getting auction: %v", err)
		}
		if settled {
			return ErrAuctionSettled
		}
		var chargeID sql.NullString
		err = tx.GetContext(ctx, &chargeID,
			`SELECT charge_id FROM bids WHERE id = $1 AND auction_id = $2 FOR UPDATE`, bidID, auctionID)
		if err == sql.ErrNoRows {
			return ErrBidNotFound
		} else if err != nil {
			return fmt.Errorf("getting bid: %v", err)
		}
		if chargeID.Valid {
			return ErrBidCharged
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE bids SET is_winner = TRUE, charge_error = NULL WHERE id = $1`, bidID); err != nil {
			return fmt.Errorf("marking bid as winner: %v", err)
		}
		return nil
	})
}

// SetBidCharge records the charge of a winning bid. A bid holds at most one charge.
func (s *Store) SetBidCharge(ctx context.Context, bidID auction.BidID, chargeID string) error {
	if chargeID == "" {
		return errors.New("charge id is empty")
	}
	return s.updateUncharged(ctx, bidID,
		`UPDATE bids SET charge_id = $2, charge_error = NULL WHERE id = $1 AND is_winner AND charge_id IS NULL`,
		chargeID)
}

// SetBidChargeError records the reason a winning bid couldn't be charged.
func (s *Store) SetBidChargeError(ctx context.Context, bidID auction.BidID, cause string) error {
	return s.updateUncharged(ctx, bidID,
		`UPDATE bids SET charge_error = $2 WHERE id = $1 AND is_winner AND charge_id IS NULL`,
		cause)
}

func (s *Store) updateUncharged(ctx context.Context, bidID auction.BidID, query string, arg string) error {
	return storeutil.WithTx(ctx, s.conn, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, bidID, arg)
		if err != nil {
			return fmt.Errorf("updating bid: %v", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("getting affected rows: %v", err)
		}
		if n > 0 {
			return nil
		}
		var r bidRow
		err = tx.GetContext(ctx, &r, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID)
		if err == sql.ErrNoRows {
			return ErrBidNotFound
		} else if err != nil {
			return fmt.Errorf("getting bid: %v", err)
		}
		if r.ChargeID.Valid {
			return ErrBidCharged
		}
		return fmt.Errorf("bid %s was not marked as winner", bidID)
	}, storeutil.TxWithIsolation(sql.LevelReadCommitted))
}

// MarkAuctionSettled flags an auction as settled. It returns false if the
// auction was already settled.
func (s *Store) MarkAuctionSettled(ctx context.Context, id auction.AuctionID) (bool, error) {
	var settled bool
	err := storeutil.WithTx(ctx, s.conn, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE auctions SET is_settled = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND NOT is_settled`, id)
		if err != nil {
			return fmt.Errorf("updating auction: %v", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("getting affected rows: %v", err)
		}
		if n > 0 {
			settled = true
			return nil
		}
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM auctions WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("checking auction: %v", err)
		}
		if !exists {
			return ErrAuctionNotFound
		}
		return nil
	}, storeutil.TxWithIsolation(sql.LevelReadCommitted))
	return settled, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
