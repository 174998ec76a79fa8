package email

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	sender := NewSender(Config{
		From:     "assistant@council.example.org",
		FromName: "Council Assistant",
	})

	msg := string(sender.buildMessage("cs@council.example.org", "New Contact Form Submission", "<p>hi</p>"))

	if !strings.Contains(msg, "From: Council Assistant <assistant@council.example.org>\r\n") {
		t.Fatalf("from header missing display name:\n%s", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/html; charset=UTF-8\r\n") {
		t.Fatalf("missing html content type:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n<p>hi</p>") {
		t.Fatalf("body not separated from headers:\n%s", msg)
	}
}

func TestBuildMessageStripsHeaderInjection(t *testing.T) {
	sender := NewSender(Config{From: "assistant@council.example.org"})

	msg := string(sender.buildMessage("cs@council.example.org", "hello\r\nBcc: attacker@evil.example", "<p>hi</p>"))

	if strings.Contains(msg, "\r\nBcc:") {
		t.Fatalf("injected header survived:\n%s", msg)
	}
	if !strings.Contains(msg, "Subject: helloBcc: attacker@evil.example") {
		t.Fatalf("expected flattened subject:\n%s", msg)
	}
}

func TestNewSenderAuth(t *testing.T) {
	if s := NewSender(Config{Host: "smtp.example.org", User: "u", Password: "p"}); s.auth == nil {
		t.Fatal("expected PLAIN auth with credentials")
	}
	if s := NewSender(Config{Host: "smtp.example.org"}); s.auth != nil {
		t.Fatal("expected no auth without credentials")
	}
}
