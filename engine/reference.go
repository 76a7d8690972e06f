package engine

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const referencePrefix = "RC"

// NewPaymentReference returns a new payment reference of the form
// RC-1234-5678-9012-3456. The last digit is a Luhn check digit over the
// preceding fifteen.
func NewPaymentReference() string {
	digits := make([]byte, 15)
	raw := make([]byte, 15)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		panic(err)
	}
	for i, b := range raw {
		digits[i] = '0' + b%10
	}
	digits = append(digits, '0'+luhnCheckDigit(digits))
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		referencePrefix, digits[0:4], digits[4:8], digits[8:12], digits[12:16])
}

// ValidPaymentReference reports whether ref carries the expected prefix
// and a correct check digit.
func ValidPaymentReference(ref string) bool {
	if !strings.HasPrefix(ref, referencePrefix+"-") {
		return false
	}
	digits := strings.ReplaceAll(strings.TrimPrefix(ref, referencePrefix+"-"), "-", "")
	if len(digits) != 16 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return luhnCheckDigit([]byte(digits[:15])) == digits[15]-'0'
}

func luhnCheckDigit(digits []byte) byte {
	var sum int
	// Walk right to left; the check digit goes to the right of the input,
	// so the rightmost input digit is doubled.
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte((10 - sum%10) % 10)
}
