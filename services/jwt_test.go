package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := &JWTService{jwtSecretKey: "test-secret"}

	token, err := svc.ToJWT("u1", time.Hour)
	require.NoError(t, err)

	userID, err := svc.VerifyJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	svc := &JWTService{jwtSecretKey: "test-secret"}

	token, err := svc.ToJWT("u1", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyJWTToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := &JWTService{jwtSecretKey: "secret-a"}
	verifier := &JWTService{jwtSecretKey: "secret-b"}

	token, err := issuer.ToJWT("u1", time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyJWTToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := &JWTService{}

	token, err := svc.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = svc.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = svc.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)
}
