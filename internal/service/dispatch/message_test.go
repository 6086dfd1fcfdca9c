package dispatch

import (
	"strings"
	"testing"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 100, want: "100"},
		{score: 80, want: "80"},
		{score: 87.26, want: "87.3"},
		{score: 81.04, want: "81.0"},
		{score: 0, want: "0"},
	}

	for _, tt := range tests {
		if got := formatScore(tt.score); got != tt.want {
			t.Errorf("formatScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestBuildEmail(t *testing.T) {
	data := newMessageData(domain.Location{ID: 1, City: "Lisbon"}, 92.5, "21:04")

	msg, err := buildEmail("a@example.com", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.To != "a@example.com" {
		t.Errorf("expected recipient a@example.com, got %s", msg.To)
	}
	if msg.Subject != "Beautiful sunset coming up in Lisbon! (92.5/100)" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"<strong>Lisbon</strong>", "<strong>92.5/100</strong>", "21:04"} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("expected html body to contain %q, got %q", want, msg.HTMLBody)
		}
	}
	if !strings.Contains(msg.TextBody, "Lisbon at 21:04") {
		t.Errorf("unexpected text body %q", msg.TextBody)
	}
}

func TestBuildEmailEscapesCity(t *testing.T) {
	data := newMessageData(domain.Location{City: "<script>alert(1)</script>"}, 90, "20:00")

	msg, err := buildEmail("a@example.com", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(msg.HTMLBody, "<script>") {
		t.Errorf("expected city to be escaped, got %q", msg.HTMLBody)
	}
}

func TestBuildPushPayload(t *testing.T) {
	payload := buildPushPayload(newMessageData(domain.Location{City: "Porto"}, 85, "20:58"))

	if payload.Title != "Sunset Alert!" {
		t.Errorf("unexpected title %q", payload.Title)
	}
	if payload.Body != "Sunset in Porto at 20:58 looks great (85/100)." {
		t.Errorf("unexpected body %q", payload.Body)
	}
}
