package model

import "time"

const (
	KindVouch     = "vouch"
	KindScamVouch = "scam vouch"
)

// ValidKind reports whether kind is one of the accepted wire values.
func ValidKind(kind string) bool {
	return kind == KindVouch || kind == KindScamVouch
}

type Vouch struct {
	ID        string
	IP        string
	Username  string
	Message   string
	Kind      string
	CreatedAt time.Time
	SessionID string
}

// Session grants its bearer time-limited edit/delete rights over one vouch.
// Expiry is checked lazily on use; there is no background sweep.
type Session struct {
	ID        string
	VouchID   string
	IP        string
	ExpiresAt time.Time
}

type UserSummary struct {
	TotalVouches      int
	TotalScamVouches  int
	RecentVouches     []string
	RecentScamVouches []string
}

type UserTally struct {
	Username string
	Vouches  int
	Scams    int
}
