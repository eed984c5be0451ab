package verification

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newCodeStoreForTest(t *testing.T) (CodeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCodeStore(client), mr
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestRedeem_SingleUse(t *testing.T) {
	store, _ := newCodeStoreForTest(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "chess@club.org")
	assert.NoError(t, err)
	assert.Len(t, code, 6)

	assert.NoError(t, store.Redeem(ctx, "chess@club.org", code))

	// The code was deleted on first redemption
	err = store.Redeem(ctx, "chess@club.org", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestRedeem_MismatchLeavesCodeRedeemable(t *testing.T) {
	store, _ := newCodeStoreForTest(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "chess@club.org")
	assert.NoError(t, err)

	err = store.Redeem(ctx, "chess@club.org", wrongCode(code))
	assert.ErrorIs(t, err, ErrCodeMismatch)

	// A wrong guess must not burn the real code
	assert.NoError(t, store.Redeem(ctx, "chess@club.org", code))
}

func TestRedeem_ExpiredCode(t *testing.T) {
	store, mr := newCodeStoreForTest(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "chess@club.org")
	assert.NoError(t, err)

	mr.FastForward(codeTTL + time.Second)

	err = store.Redeem(ctx, "chess@club.org", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestRedeem_NeverIssued(t *testing.T) {
	store, _ := newCodeStoreForTest(t)

	err := store.Redeem(context.Background(), "nobody@club.org", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestIssue_ReplacesPriorCode(t *testing.T) {
	store, _ := newCodeStoreForTest(t)
	ctx := context.Background()

	first, err := store.Issue(ctx, "chess@club.org")
	assert.NoError(t, err)
	second, err := store.Issue(ctx, "chess@club.org")
	assert.NoError(t, err)

	if first != second {
		err = store.Redeem(ctx, "chess@club.org", first)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}
	assert.NoError(t, store.Redeem(ctx, "chess@club.org", second))
}

func TestConsumeVerified_SingleUse(t *testing.T) {
	store, _ := newCodeStoreForTest(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "chess@club.org")
	assert.NoError(t, err)
	assert.NoError(t, store.Redeem(ctx, "chess@club.org", code))

	assert.NoError(t, store.ConsumeVerified(ctx, "chess@club.org"))

	// The marker clears on first consumption
	err = store.ConsumeVerified(ctx, "chess@club.org")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestConsumeVerified_WindowExpires(t *testing.T) {
	store, mr := newCodeStoreForTest(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "chess@club.org")
	assert.NoError(t, err)
	assert.NoError(t, store.Redeem(ctx, "chess@club.org", code))

	mr.FastForward(verifiedTTL + time.Second)

	err = store.ConsumeVerified(ctx, "chess@club.org")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestConsumeVerified_NeverRedeemed(t *testing.T) {
	store, _ := newCodeStoreForTest(t)

	err := store.ConsumeVerified(context.Background(), "chess@club.org")
	assert.ErrorIs(t, err, ErrNotVerified)
}
