// Package verify proves that a user owns a phone number with a one time
// code sent by SMS.
package verify

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Set of errors for verify API.
var (
	ErrInvalidArgument = errors.New("verify invalid argument")
	ErrCodeMismatch    = errors.New("verification code mismatch")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// MaxAttempts is how many wrong codes are accepted before the code is
// burned.
const MaxAttempts = 5

// Code is a pending verification.
type Code struct {
	Value    string
	Phone    string
	Attempts int
}

// CodeStore keeps pending codes until they expire.
type CodeStore interface {
	Put(ctx context.Context, userID uuid.UUID, c Code, ttl time.Duration) error
	Get(ctx context.Context, userID uuid.UUID) (Code, error)
	IncrAttempts(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// Sender delivers a text message.
type Sender interface {
	Send(ctx context.Context, phone, msg string) error
}

// Users marks phones as verified.
type Users interface {
	MarkPhoneVerified(ctx context.Context, userID uuid.UUID, phone string) error
}

// Core deals with phone verification.
type Core struct {
	log    *slog.Logger
	codes  CodeStore
	sender Sender
	users  Users
	ttl    time.Duration
}

// NewCore constructs a verify core. Codes live for ttl.
func NewCore(log *slog.Logger, codes CodeStore, sender Sender, users Users, ttl time.Duration) *Core {
	return &Core{
		log:    log,
		codes:  codes,
		sender: sender,
		users:  users,
		ttl:    ttl,
	}
}

// Send generates a new code for the user and texts it to phone. A previous
// pending code is replaced.
func (c *Core) Send(ctx context.Context, userID uuid.UUID, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidArgument)
	}

	code, err := newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	if err := c.codes.Put(ctx, userID, Code{Value: code, Phone: phone}, c.ttl); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	msg := fmt.Sprintf("Votre code de vérification est %s", code)
	if err := c.sender.Send(ctx, phone, msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	c.log.InfoContext(ctx, "verification code sent", "user_id", userID)

	return nil
}

// Check compares code with the pending one. On a match the code is
// consumed and the phone is marked verified.
func (c *Core) Check(ctx context.Context, userID uuid.UUID, code string) error {
	pending, err := c.codes.Get(ctx, userID)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(pending.Value), []byte(strings.TrimSpace(code))) != 1 {
		n, err := c.codes.IncrAttempts(ctx, userID)
		if err != nil {
			return fmt.Errorf("count attempt: %w", err)
		}
		if n >= MaxAttempts {
			if err := c.codes.Delete(ctx, userID); err != nil {
				c.log.WarnContext(ctx, "burn verification code", "user_id", userID, "err", err)
			}
			return ErrTooManyAttempts
		}
		return ErrCodeMismatch
	}

	// The code stays pending until the phone is recorded, so a failed
	// write can be retried with the same code.
	if err := c.users.MarkPhoneVerified(ctx, userID, pending.Phone); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	if err := c.codes.Delete(ctx, userID); err != nil {
		c.log.WarnContext(ctx, "consume verification code", "user_id", userID, "err", err)
	}

	return nil
}

func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// LogSender writes messages to the log instead of sending them. It stands
// in for an SMS gateway.
type LogSender struct {
	Log *slog.Logger
}

// Send logs the message.
func (s LogSender) Send(ctx context.Context, phone, msg string) error {
	s.Log.InfoContext(ctx, "sms", "to", phone, "msg", msg)
	return nil
}
