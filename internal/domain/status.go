package domain

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending            PaymentStatus = "pending"
	PaymentStatusInitiated          PaymentStatus = "initiated"
	PaymentStatusProcessing         PaymentStatus = "processing"
	PaymentStatusAwaitingSettlement PaymentStatus = "awaiting_settlement"
	PaymentStatusPaid               PaymentStatus = "paid"
	PaymentStatusFailed             PaymentStatus = "failed"
	PaymentStatusCancelled          PaymentStatus = "cancelled"
)

// FromGatewayCode maps a numeric gateway status code onto the internal enum.
// The codes are gateway-defined; anything unrecognised is a failure.
func FromGatewayCode(code int) PaymentStatus {
	switch code {
	case 0:
		return PaymentStatusPending
	case 1:
		return PaymentStatusFailed
	case 2, 4:
		return PaymentStatusAwaitingSettlement
	case 3:
		return PaymentStatusPaid
	case 5, 6:
		return PaymentStatusCancelled
	case 7:
		return PaymentStatusFailed
	default:
		return PaymentStatusFailed
	}
}

// FromGatewayString maps a string gateway status onto the internal enum.
func FromGatewayString(status string) PaymentStatus {
	switch status {
	case "paid":
		return PaymentStatusPaid
	case "pending":
		return PaymentStatusProcessing
	default:
		return PaymentStatusFailed
	}
}

// Normalize maps a raw gateway status, which arrives as a string in some
// callback channels and a numeric code in others, onto the internal enum.
func Normalize(raw string) PaymentStatus {
	if raw != "" && isDigits(raw) {
		code := 0
		for _, r := range raw {
			code = code*10 + int(r-'0')
		}
		return FromGatewayCode(code)
	}
	return FromGatewayString(raw)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CanTransition reports whether a payment may move from current to next.
// Paid is terminal: once a payment is paid no later notification may change
// it. Re-deliveries of an already applied status are allowed only as the
// identity transition handled by the caller as a no-op.
func CanTransition(current, next PaymentStatus) bool {
	if current == PaymentStatusPaid {
		return next == PaymentStatusPaid
	}
	return true
}
