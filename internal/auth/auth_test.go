package auth

import (
	"errors"
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("test-secret")
	svc.RegisterAPICredentials("key-1", "secret-1")

	token, err := svc.GenerateToken(Credentials{APIKey: "key-1", APISecret: "secret-1"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token.Token == "" {
		t.Fatal("expected a signed token")
	}

	claims, err := svc.ValidateToken(token.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.ClientID != "key-1" {
		t.Errorf("clientID = %q, want key-1", claims.ClientID)
	}
}

func TestGenerateToken_InvalidCredentials(t *testing.T) {
	svc := NewService("test-secret")
	svc.RegisterAPICredentials("key-1", "secret-1")

	_, err := svc.GenerateToken(Credentials{APIKey: "key-1", APISecret: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewService("secret-a")
	issuer.RegisterAPICredentials("key-1", "secret-1")
	token, err := issuer.GenerateToken(Credentials{APIKey: "key-1", APISecret: "secret-1"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	verifier := NewService("secret-b")
	if _, err := verifier.ValidateToken(token.Token); err == nil {
		t.Fatal("expected validation to fail for a token signed with another secret")
	}
}
