package mpesa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhoneNumber = errors.New("invalid phone number")

const defaultRegion = "KE"

// NormalizePhone parses a Kenyan number in any common notation (07XX..., +254...,
// 254...) and returns the MSISDN form M-Pesa expects, e.g. 254712345678.
func NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), defaultRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPhoneNumber, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPhoneNumber, raw)
	}
	return strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+"), nil
}
