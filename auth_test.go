package modelsync

import (
	"context"
	"testing"
)

func TestStaticTokenProvider(t *testing.T) {
	t.Run("yields the token", func(t *testing.T) {
		token, err := StaticTokenProvider("tok-1").AuthToken(context.Background())
		if err != nil {
			t.Fatalf("AuthToken() error = %v", err)
		}
		if token != "tok-1" {
			t.Errorf("token = %q, want %q", token, "tok-1")
		}
	})

	t.Run("empty token errors", func(t *testing.T) {
		if _, err := StaticTokenProvider("").AuthToken(context.Background()); err == nil {
			t.Error("expected error for empty token")
		}
	})
}

func TestEnvTokenProvider(t *testing.T) {
	provider := EnvTokenProvider("MODELSYNC_TEST_TOKEN")

	t.Run("unset errors", func(t *testing.T) {
		if _, err := provider.AuthToken(context.Background()); err == nil {
			t.Error("expected error when env var unset")
		}
	})

	t.Run("set yields token", func(t *testing.T) {
		t.Setenv("MODELSYNC_TEST_TOKEN", "env-tok")

		token, err := provider.AuthToken(context.Background())
		if err != nil {
			t.Fatalf("AuthToken() error = %v", err)
		}
		if token != "env-tok" {
			t.Errorf("token = %q, want %q", token, "env-tok")
		}
	})
}
