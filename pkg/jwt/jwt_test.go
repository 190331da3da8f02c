package jwt

import (
	"testing"
	"time"

	"clinic-scheduling/config"

	"github.com/google/uuid"
)

func testService(secret string, accessExpiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  accessExpiry,
		RefreshExpiry: time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	service := testService("test-secret", time.Minute)
	userID := uuid.New()

	token, tokenID, err := service.GenerateAccessToken(userID, "staff@clinic.test", 3)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	if tokenID == "" {
		t.Fatal("expected a non-empty token ID")
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate freshly issued token: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user ID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "staff@clinic.test" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.RoleID != 3 {
		t.Errorf("role ID = %d, want 3", claims.RoleID)
	}
	if claims.TokenType != AccessToken {
		t.Errorf("token type = %q, want %q", claims.TokenType, AccessToken)
	}
	if claims.TokenID != tokenID {
		t.Errorf("token ID = %q, want %q", claims.TokenID, tokenID)
	}
}

func TestRefreshTokenCarriesRefreshType(t *testing.T) {
	service := testService("test-secret", time.Minute)

	token, _, err := service.GenerateRefreshToken(uuid.New(), "staff@clinic.test", 2)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate refresh token: %v", err)
	}
	if claims.TokenType != RefreshToken {
		t.Errorf("token type = %q, want %q", claims.TokenType, RefreshToken)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := testService("issuer-secret", time.Minute)
	verifier := testService("other-secret", time.Minute)

	token, _, err := issuer.GenerateAccessToken(uuid.New(), "staff@clinic.test", 1)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for a token signed with a different secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := testService("test-secret", -time.Minute)

	token, _, err := service.GenerateAccessToken(uuid.New(), "staff@clinic.test", 1)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := service.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}
