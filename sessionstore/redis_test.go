package sessionstore_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/sessionstore"
)

func newStore(t *testing.T) (*miniredis.Miniredis, *sessionstore.Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, sessionstore.NewRedisWithClient(rdb, "user-42")
}

func TestRedisSession(t *testing.T) {
	mr, store := newStore(t)
	exp := time.Now().Add(time.Hour).Unix()
	require.NoError(t, mr.Set("session:user-42", `{"token":"tok-abc","exp":`+timestamp(exp)+`}`))

	sess, err := store.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "tok-abc", sess.Token)
	assert.Equal(t, exp, sess.ExpiresAt.Unix())
}

func TestRedisSessionMissing(t *testing.T) {
	_, store := newStore(t)

	sess, err := store.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess, "a missing key is no-session, not an error")
}

func TestRedisSessionEmptyToken(t *testing.T) {
	mr, store := newStore(t)
	require.NoError(t, mr.Set("session:user-42", `{"token":"","exp":0}`))

	sess, err := store.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestRedisSessionGarbage(t *testing.T) {
	mr, store := newStore(t)
	require.NoError(t, mr.Set("session:user-42", "not json"))

	_, err := store.Session(context.Background())
	require.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	sess, err := sessionstore.Static{Token: "tok", ExpiresAt: time.Now()}.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "tok", sess.Token)

	sess, err = sessionstore.Static{}.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func timestamp(v int64) string {
	return strconv.FormatInt(v, 10)
}
