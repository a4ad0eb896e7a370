package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("teacher1", "classtrack", "test-key", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty tokens")
	}

	claims, err := Parse(pair.AccessToken, "test-key", "classtrack")
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "teacher1" || claims.Role != "teacher" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParse_RejectsBadKeyAndIssuer(t *testing.T) {
	pair, err := Issue("teacher1", "classtrack", "test-key", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(pair.AccessToken, "wrong-key", "classtrack"); err == nil {
		t.Fatal("expected signature error")
	}
	if _, err := Parse(pair.AccessToken, "test-key", "someone-else"); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestParse_RejectsExpired(t *testing.T) {
	pair, err := Issue("teacher1", "classtrack", "test-key", -time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(pair.AccessToken, "test-key", "classtrack"); err == nil {
		t.Fatal("expected expiry error")
	}
}
