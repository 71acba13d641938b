package mail

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "user@example.com", "Password reset", "hello\nworld"))

	for _, want := range []string{
		"From: noreply@example.com\r\n",
		"To: user@example.com\r\n",
		"Subject: Password reset\r\n",
		"Content-Type: text/plain",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}

	headers, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatal("no header/body separator")
	}
	if strings.Contains(headers, "hello") {
		t.Fatal("body leaked into headers")
	}
	if body != "hello\nworld" {
		t.Fatalf("body mangled: %q", body)
	}
}
