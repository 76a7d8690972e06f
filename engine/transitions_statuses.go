package engine

var paymentStatusTransitionChart = PaymentStatusTransitionChart{
	CREATED_PAY: {PENDING_PAY, SUCCESS_PAY, FAILED_PAY},
	PENDING_PAY: {SUCCESS_PAY, FAILED_PAY},
}

type PaymentStatusTransitionChart map[PaymentStatus][]PaymentStatus

func (s PaymentStatusTransitionChart) Allowed(from, to PaymentStatus) bool {
	list, exists := s[from]
	if !exists {
		return false
	}
	for _, status := range list {
		if status.Match(to) {
			return true
		}
	}
	return false
}
