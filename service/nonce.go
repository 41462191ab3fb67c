package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NonceSource produces the uniqueness token embedded in each proposal.
type NonceSource interface {
	Nonce() string
}

// NonceFunc adapts a plain function to NonceSource.
type NonceFunc func() string

func (f NonceFunc) Nonce() string { return f() }

// ClockNonce renders the current UTC time as fractional Unix seconds, e.g.
// "1500000000.123456". Two proposals built within the same microsecond get
// the same nonce.
type ClockNonce struct {
	Now func() time.Time
}

func (c ClockNonce) Nonce() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now().UTC()
	return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', -1, 64)
}

// UUIDNonce uses a random UUID, which does not collide at high proposal rates.
type UUIDNonce struct{}

func (UUIDNonce) Nonce() string {
	return uuid.New().String()
}

// Nonce source names accepted by NonceSourceByName.
const (
	NonceClock = "clock"
	NonceUUID  = "uuid"
)

// NonceSourceByName maps a flag value to a NonceSource. An empty name
// selects the clock.
func NonceSourceByName(name string) (NonceSource, error) {
	switch name {
	case "", NonceClock:
		return ClockNonce{}, nil
	case NonceUUID:
		return UUIDNonce{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown nonce source %q", ErrValidation, name)
	}
}
