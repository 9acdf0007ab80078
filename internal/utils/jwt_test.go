package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/yorlect/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	identity := models.Identity{Owner: "joy", IsAdmin: true}

	token, err := GenerateJWTToken(issuer, identity, time.Hour, "secret-key")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Identity != identity {
		t.Errorf("expected identity %+v, got %+v", identity, token.Identity)
	}

	claims, ok := token.Token.Claims.(*models.Claims)
	if !ok {
		t.Fatal("could not cast claims to models.Claims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != "joy" {
		t.Errorf("expected subject 'joy', got %s", claims.Subject)
	}
	if !claims.IsAdmin {
		t.Error("expected adm claim to be true")
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		owner    string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "joy", time.Hour, "key"},
		{"empty owner", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "joy", 0, "key"},
		{"empty key", "iss", "joy", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, models.Identity{Owner: tt.owner}, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	generated, err := GenerateJWTToken("iss", models.Identity{Owner: "joy"}, 5*time.Minute, "key")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	parsed, err := ValidateAndParseJWTToken(generated.SignedString, "key", "iss")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parsed.Identity.Owner != "joy" || parsed.Identity.IsAdmin {
		t.Errorf("unexpected identity %+v", parsed.Identity)
	}
}

func TestValidateAndParseJWTToken_WrongKey(t *testing.T) {
	generated, _ := GenerateJWTToken("iss", models.Identity{Owner: "joy"}, time.Minute, "key")

	if _, err := ValidateAndParseJWTToken(generated.SignedString, "other", "iss"); err == nil {
		t.Fatal("expected error for wrong key, got nil")
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	generated, _ := GenerateJWTToken("iss", models.Identity{Owner: "joy"}, time.Minute, "key")

	if _, err := ValidateAndParseJWTToken(generated.SignedString, "key", "other"); err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	claims := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "iss",
		Subject:   "joy",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	_, err = ValidateAndParseJWTToken(signed, "key", "iss")

	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestValidateAndParseJWTToken_EmptySubject(t *testing.T) {
	claims := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "iss",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))

	if _, err := ValidateAndParseJWTToken(signed, "key", "iss"); err == nil {
		t.Fatal("expected error for empty subject, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"  Bearer abc  ", "abc", false},
		{"Bearer", "", true},
		{"Bearer a b", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error state: %v", tt.header, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.header, tt.want, got)
		}
	}
}

func TestParseIdentityFromJWT(t *testing.T) {
	generated, _ := GenerateJWTToken("iss", models.Identity{Owner: "admin", IsAdmin: true}, time.Minute, "key")

	identity, err := ParseIdentityFromJWT(generated.SignedString)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if identity.Owner != "admin" || !identity.IsAdmin {
		t.Errorf("unexpected identity %+v", identity)
	}

	if _, err := ParseIdentityFromJWT("not.a.token"); err == nil {
		t.Error("expected error for malformed token, got nil")
	}
}
