package model

import (
	"testing"
	"time"
)

func TestResetCredential_Expired(t *testing.T) {
	now := time.Now()

	var none *ResetCredential
	if !none.Expired(now) {
		t.Fatal("nil credential must count as expired")
	}

	pending := &ResetCredential{Token: "t", ExpiresAt: now.Add(time.Hour)}
	if pending.Expired(now) {
		t.Fatal("future expiry reported expired")
	}
	if !pending.Expired(now.Add(time.Hour)) {
		t.Fatal("expiry instant must count as expired")
	}
	if !pending.Expired(now.Add(2 * time.Hour)) {
		t.Fatal("past expiry not reported")
	}
}
