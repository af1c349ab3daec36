package storage

import (
	"context"
	"testing"

	"github.com/Dosada05/livescore/models"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "logos/7.png", "https://cdn.example.com/logos/7.png"},
		{"https://cdn.example.com/", "/logos/7.png", "https://cdn.example.com/logos/7.png"},
		{"https://cdn.example.com/assets", "boxscores/CRICKET/3.json", "https://cdn.example.com/assets/boxscores/CRICKET/3.json"},
		{"", "logos/7.png", ""},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		if got := publicURL(tt.base, tt.key); got != tt.want {
			t.Errorf("publicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestBoxScoreKey(t *testing.T) {
	if got := BoxScoreKey(models.SportBasketball, 12); got != "boxscores/BASKETBALL/12.json" {
		t.Errorf("BoxScoreKey = %q", got)
	}
}

func TestNewCloudflareR2StoreRequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Store(context.Background(), CloudflareR2Config{AccountID: "acc", BucketName: "b"})
	if err == nil {
		t.Fatal("expected error for partial configuration")
	}
}
