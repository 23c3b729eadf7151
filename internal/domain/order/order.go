package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/warung-digital/internal/domain/cart"
)

// MaxNotesLen bounds the order-level notes passed at submit time.
// Enforced at the API boundary.
const MaxNotesLen = 200

// Sentinel errors for order submission and lookup.
var (
	// ErrEmptyCart is returned when submitting an order for a table whose
	// cart has no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOffline is returned when the connectivity probe reports the service
	// cannot reach its storage. Submission is blocked before any state
	// mutation, so a retry once connectivity returns is always safe.
	ErrOffline = errors.New("connection unavailable")
	// ErrOrderNotFound is returned when no order exists for the given id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSessionNotFound is returned when no session exists for the table.
	ErrSessionNotFound = errors.New("session not found")
)

// Status is the lifecycle state of an order. Transitions are strictly
// forward: pending -> submitted -> confirmed -> completed. This core only
// ever writes StatusSubmitted; later transitions belong to the cashier and
// kitchen systems.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

// rank orders statuses along the lifecycle. Unknown statuses rank below
// every valid one.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusSubmitted:
		return 2
	case StatusConfirmed:
		return 3
	case StatusCompleted:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	return s.rank() > 0
}

// CanTransition reports whether moving from s to next is a legal forward
// step. Backward transitions are never allowed.
func (s Status) CanTransition(next Status) bool {
	return s.Valid() && next.Valid() && next.rank() == s.rank()+1
}

// Order is a finalized submission for one table. Items are a deep snapshot
// of the cart at submit time; mutating the live cart afterwards must not
// alter a persisted order. Orders are immutable except for Status.
type Order struct {
	ID          string
	TableNumber string
	Items       []cart.Line
	Total       decimal.Decimal
	Timestamp   time.Time
	Status      Status
	Notes       string
}

// Session is the active ordering context for one table, from QR scan until
// submission or abandonment. Creating a session for a table overwrites any
// prior session state for that table.
type Session struct {
	TableNumber string
	SessionID   string
	StartTime   time.Time
	Cart        []cart.Line
}

// Repository defines persistence operations for orders and the order
// history index. Load returns ErrOrderNotFound when the id is unknown.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	Load(ctx context.Context, id string) (*Order, error)
	AppendHistory(ctx context.Context, id string) error
	History(ctx context.Context) ([]string, error)
}

// SessionRepository defines persistence operations for table sessions.
// Load returns ErrSessionNotFound when no session exists for the table.
type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, tableNumber string) (*Session, error)
}

// Connectivity reports whether the service can currently reach its storage.
// Consulted before order submission; offline submissions are rejected
// outright rather than queued.
type Connectivity interface {
	Online(ctx context.Context) bool
}
