package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMintAndParse(t *testing.T) {
	now := time.Now().UTC()
	messages := []Message{{Level: LevelSuccess, Text: "Item added."}}

	value, err := Mint("secret", now, messages)
	if err != nil {
		t.Fatalf("mint flash cookie: %v", err)
	}

	got, err := Parse("secret", value)
	if err != nil {
		t.Fatalf("parse flash cookie: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].Level != LevelSuccess || got[0].Text != "Item added." {
		t.Fatalf("message not preserved: %+v", got[0])
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	value, err := Mint("secret", time.Now(), []Message{{Level: LevelError, Text: "nope"}})
	if err != nil {
		t.Fatalf("mint flash cookie: %v", err)
	}
	if _, err := Parse("other-secret", value); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	stale := time.Now().Add(-2 * TTL)
	value, err := Mint("secret", stale, []Message{{Level: LevelSuccess, Text: "old"}})
	if err != nil {
		t.Fatalf("mint flash cookie: %v", err)
	}
	if _, err := Parse("secret", value); err == nil {
		t.Fatal("expected expired cookie to fail validation")
	}
}

func TestMintRequiresInput(t *testing.T) {
	if _, err := Mint("", time.Now(), []Message{{Level: LevelSuccess, Text: "x"}}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := Mint("secret", time.Now(), nil); err == nil {
		t.Fatal("expected error for empty messages")
	}
}

func TestSetAndPopRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := Set(rec, "secret", Message{Level: LevelSuccess, Text: "Saved."}); err != nil {
		t.Fatalf("set flash cookie: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected one flash cookie, got %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	req.AddCookie(cookies[0])
	popRec := httptest.NewRecorder()

	messages := Pop(popRec, req, "secret")
	if len(messages) != 1 || messages[0].Text != "Saved." {
		t.Fatalf("unexpected messages: %+v", messages)
	}

	// Pop must clear the cookie.
	cleared := popRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Fatalf("expected cookie to be cleared, got %+v", cleared)
	}
}

func TestPopWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	rec := httptest.NewRecorder()
	if messages := Pop(rec, req, "secret"); messages != nil {
		t.Fatalf("expected nil messages, got %+v", messages)
	}
}

func TestPopTamperedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	if messages := Pop(rec, req, "secret"); messages != nil {
		t.Fatalf("expected nil messages for tampered cookie, got %+v", messages)
	}
}
