package youtube

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "test_token.json")

	original := &oauth2.Token{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}

	if err := saveToken(tokenFile, original); err != nil {
		t.Fatalf("Failed to save token: %v", err)
	}

	loaded, err := tokenFromFile(tokenFile)
	if err != nil {
		t.Fatalf("Failed to load saved token: %v", err)
	}
	if loaded.AccessToken != original.AccessToken {
		t.Errorf("Access token mismatch: got %s, want %s", loaded.AccessToken, original.AccessToken)
	}
	if loaded.RefreshToken != original.RefreshToken {
		t.Errorf("Refresh token mismatch: got %s, want %s", loaded.RefreshToken, original.RefreshToken)
	}
}

func TestSaveTokenCreatesParentDir(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "nested", "dir", "token.json")

	err := saveToken(tokenFile, &oauth2.Token{AccessToken: "a"})
	if err != nil {
		t.Fatalf("Failed to save token into nested dir: %v", err)
	}
	if _, err := os.Stat(tokenFile); err != nil {
		t.Errorf("Token file was not created: %v", err)
	}
}

func TestTokenFromFile(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("NonExistentFile", func(t *testing.T) {
		if _, err := tokenFromFile(filepath.Join(tempDir, "missing.json")); err == nil {
			t.Error("Expected error for non-existent file")
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		tokenFile := filepath.Join(tempDir, "bad.json")
		if err := os.WriteFile(tokenFile, []byte("invalid json"), 0600); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := tokenFromFile(tokenFile); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})
}

func TestGetToken(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "token.json")

	oauthConfig := &oauth2.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	t.Run("LoadExistingValidToken", func(t *testing.T) {
		valid := &oauth2.Token{
			AccessToken:  "valid-access",
			RefreshToken: "valid-refresh",
			Expiry:       time.Now().Add(time.Hour),
		}
		if err := saveToken(tokenFile, valid); err != nil {
			t.Fatalf("Failed to save token: %v", err)
		}

		token, err := getToken(oauthConfig, tokenFile)
		if err != nil {
			t.Fatalf("Failed to get token: %v", err)
		}
		if token.AccessToken != valid.AccessToken {
			t.Errorf("Access token mismatch: got %s, want %s", token.AccessToken, valid.AccessToken)
		}
	})

	t.Run("KeepExpiredTokenWithRefresh", func(t *testing.T) {
		expired := &oauth2.Token{
			AccessToken:  "expired-access",
			RefreshToken: "valid-refresh",
			Expiry:       time.Now().Add(-time.Hour),
		}
		if err := saveToken(tokenFile, expired); err != nil {
			t.Fatalf("Failed to save token: %v", err)
		}

		// The token is kept even though expired: the tokenSaver refreshes it
		// on first use.
		token, err := getToken(oauthConfig, tokenFile)
		if err != nil {
			t.Fatalf("Failed to get token: %v", err)
		}
		if token.RefreshToken != expired.RefreshToken {
			t.Errorf("Refresh token mismatch: got %s, want %s", token.RefreshToken, expired.RefreshToken)
		}
	})
}
