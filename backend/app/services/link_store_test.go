package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLinkStore_Expiry(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	s := NewMemoryLinkStore(10 * time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	tok, err := s.Put(ctx, Link{File: "a.xlsx", Name: "khach_converted.xlsx", Size: 42})
	require.NoError(t, err)

	now = now.Add(9 * time.Minute)
	l, err := s.Get(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "khach_converted.xlsx", l.Name)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, tok)
	assert.ErrorIs(t, err, ErrLinkExpired, "expires exactly at the ttl")

	_, err = s.Get(ctx, "unknown")
	assert.ErrorIs(t, err, ErrLinkExpired)
}

func TestMemoryLinkStore_Prune(t *testing.T) {
	now := time.Now()
	s := NewMemoryLinkStore(time.Minute)
	s.now = func() time.Time { return now }
	_, _ = s.Put(context.Background(), Link{File: "a"})
	_, _ = s.Put(context.Background(), Link{File: "b"})
	assert.Equal(t, 0, s.Prune())
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, s.Prune())
}

func TestTokenFromURL(t *testing.T) {
	assert.Equal(t, "abc", TokenFromURL("http://h:9400/address-conversion/download/abc"))
	assert.Equal(t, "abc", TokenFromURL("/address-conversion/download/abc/?x=1"))
	assert.Equal(t, "abc", TokenFromURL("abc"))
}
