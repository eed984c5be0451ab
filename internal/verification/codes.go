// Package verification holds the one-time-code store that gatekeeps
// organization registration. Codes live in redis with a TTL so they survive
// process restarts and are shared across instances.
package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCodeMismatch = errors.New("verification code does not match")
	ErrCodeExpired  = errors.New("verification code expired or never issued")
	ErrNotVerified  = errors.New("email has not completed verification")
)

const (
	codeTTL     = 10 * time.Minute
	verifiedTTL = 30 * time.Minute
)

// CodeStore issues and redeems one-time verification codes
type CodeStore interface {
	// Issue generates a 6-digit code for the email, replacing any prior one
	Issue(ctx context.Context, email string) (string, error)
	// Redeem checks the code and, on success, deletes it and marks the email
	// verified for a bounded window. A code redeems at most once.
	Redeem(ctx context.Context, email, code string) error
	// ConsumeVerified checks the verified marker and clears it
	ConsumeVerified(ctx context.Context, email string) error
}

type redisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) CodeStore {
	return &redisCodeStore{client: client}
}

func codeKey(email string) string     { return fmt.Sprintf("verify:code:%s", email) }
func verifiedKey(email string) string { return fmt.Sprintf("verify:done:%s", email) }

func (s *redisCodeStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, codeKey(email), code, codeTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// redeemScript compares and deletes atomically so a code redeems at most
// once even under concurrent attempts. A mismatch leaves the code in place.
var redeemScript = redis.NewScript(`
	local stored = redis.call('GET', KEYS[1])
	if not stored then
		return -1
	end
	if stored ~= ARGV[1] then
		return 0
	end
	redis.call('DEL', KEYS[1])
	redis.call('SET', KEYS[2], '1', 'EX', ARGV[2])
	return 1
`)

func (s *redisCodeStore) Redeem(ctx context.Context, email, code string) error {
	res, err := redeemScript.Run(ctx, s.client,
		[]string{codeKey(email), verifiedKey(email)},
		code, int(verifiedTTL.Seconds())).Int()
	if err != nil {
		return fmt.Errorf("failed to redeem verification code: %w", err)
	}
	switch res {
	case -1:
		return ErrCodeExpired
	case 0:
		return ErrCodeMismatch
	}
	return nil
}

func (s *redisCodeStore) ConsumeVerified(ctx context.Context, email string) error {
	_, err := s.client.GetDel(ctx, verifiedKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotVerified
	}
	if err != nil {
		return fmt.Errorf("failed to read verified marker: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
