package model

import "testing"

func TestFormatReceiptNumber(t *testing.T) {
	cases := []struct {
		year int
		seq  int
		want string
	}{
		{2026, 1, "BJ-2026-000001"},
		{2026, 42, "BJ-2026-000042"},
		{2030, 999999, "BJ-2030-999999"},
	}

	for _, tc := range cases {
		if got := FormatReceiptNumber(tc.year, tc.seq); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestParseReceiptNumber(t *testing.T) {
	year, seq, err := ParseReceiptNumber("BJ-2026-000042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != 2026 || seq != 42 {
		t.Fatalf("expected 2026/42, got %d/%d", year, seq)
	}

	for _, malformed := range []string{"", "BJ-2026", "XX-2026-000001", "BJ-year-000001", "BJ-2026-seq"} {
		if _, _, err := ParseReceiptNumber(malformed); err == nil {
			t.Fatalf("expected error for %q", malformed)
		}
	}
}

func TestWebhookAction(t *testing.T) {
	if got := WebhookAction(PaymentStatusSucceeded); got != "webhook_succeeded" {
		t.Fatalf("unexpected action %s", got)
	}
	if got := WebhookAction(PaymentStatusFailed); got != "webhook_failed" {
		t.Fatalf("unexpected action %s", got)
	}
}
