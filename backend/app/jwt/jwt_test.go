package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParse(t *testing.T) {
	s := &Signer{Secret: []byte("k"), Issuer: "blx", ExpMin: 5}
	tok, err := s.Sign(7, "admin", "admin")
	require.NoError(t, err)

	c, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.UserID)
	assert.Equal(t, "admin", c.Username)

	_, err = (&Signer{Secret: []byte("other"), Issuer: "blx"}).Parse(tok)
	assert.Error(t, err)
	_, err = (&Signer{Secret: []byte("k"), Issuer: "someone-else"}).Parse(tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	s := &Signer{Secret: []byte("k"), Issuer: "blx", ExpMin: -1}
	tok, err := s.Sign(1, "u", "user")
	require.NoError(t, err)
	_, err = s.Parse(tok)
	assert.Error(t, err)
}
