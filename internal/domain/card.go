package domain

import (
	"strconv"
	"strings"
)

// ValidCardNumber reports whether a card number passes the Luhn checksum
// after stripping spaces. Lengths outside 13-19 digits are rejected.
func ValidCardNumber(cardNumber string) bool {
	cardNumber = strings.ReplaceAll(cardNumber, " ", "")
	if len(cardNumber) < 13 || len(cardNumber) > 19 {
		return false
	}

	sum := 0
	isSecond := false
	for i := len(cardNumber) - 1; i >= 0; i-- {
		digit, err := strconv.Atoi(string(cardNumber[i]))
		if err != nil {
			return false
		}
		if isSecond {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		isSecond = !isSecond
	}

	return sum%10 == 0
}

// MaskCard hides all but the last four digits of a card number. Raw card
// numbers must never reach logs or events.
func MaskCard(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return strings.Repeat("*", len(cardNumber))
	}
	return strings.Repeat("*", len(cardNumber)-4) + cardNumber[len(cardNumber)-4:]
}
