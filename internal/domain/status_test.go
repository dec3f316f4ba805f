package domain

import "testing"

func TestFromGatewayCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code int
		want PaymentStatus
	}{
		{0, PaymentStatusPending},
		{1, PaymentStatusFailed},
		{2, PaymentStatusAwaitingSettlement},
		{3, PaymentStatusPaid},
		{4, PaymentStatusAwaitingSettlement},
		{5, PaymentStatusCancelled},
		{6, PaymentStatusCancelled},
		{7, PaymentStatusFailed},
		{42, PaymentStatusFailed},
		{-1, PaymentStatusFailed},
	}

	for _, tc := range cases {
		if got := FromGatewayCode(tc.code); got != tc.want {
			t.Errorf("FromGatewayCode(%d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestFromGatewayString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status string
		want   PaymentStatus
	}{
		{"paid", PaymentStatusPaid},
		{"pending", PaymentStatusProcessing},
		{"success", PaymentStatusFailed},
		{"", PaymentStatusFailed},
	}

	for _, tc := range cases {
		if got := FromGatewayString(tc.status); got != tc.want {
			t.Errorf("FromGatewayString(%q) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestNormalize_DispatchesOnShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want PaymentStatus
	}{
		{"3", PaymentStatusPaid},
		{"0", PaymentStatusPending},
		{"5", PaymentStatusCancelled},
		{"paid", PaymentStatusPaid},
		{"pending", PaymentStatusProcessing},
		{"3a", PaymentStatusFailed}, // mixed digits fall through to string mapping
		{"", PaymentStatusFailed},
	}

	for _, tc := range cases {
		if got := Normalize(tc.raw); got != tc.want {
			t.Errorf("Normalize(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestCanTransition_PaidIsTerminal(t *testing.T) {
	t.Parallel()

	for _, next := range []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusInitiated,
		PaymentStatusProcessing,
		PaymentStatusAwaitingSettlement,
		PaymentStatusFailed,
		PaymentStatusCancelled,
	} {
		if CanTransition(PaymentStatusPaid, next) {
			t.Errorf("paid payment must not transition to %s", next)
		}
	}

	if !CanTransition(PaymentStatusPaid, PaymentStatusPaid) {
		t.Error("paid to paid is the identity transition and must be allowed")
	}

	if !CanTransition(PaymentStatusPending, PaymentStatusPaid) {
		t.Error("pending to paid must be allowed")
	}
	if !CanTransition(PaymentStatusProcessing, PaymentStatusFailed) {
		t.Error("processing to failed must be allowed")
	}
}

func TestNormalizeReference(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"lnmb123", "LNMB123"},
		{"LNMB-123", "LNMB123"},
		{"  ln mb_123 ", "LNMB123"},
		{"LNMB123", "LNMB123"},
		{"", ""},
		{"---", ""},
	}

	for _, tc := range cases {
		if got := NormalizeReference(tc.in); got != tc.want {
			t.Errorf("NormalizeReference(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
