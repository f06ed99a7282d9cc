package utils

import "strings"

// MaskPhone masks an MSISDN for safe logging, keeping the last three digits.
// Example: "255712345678" -> "*********678"
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 3 {
		return "***"
	}
	return strings.Repeat("*", len(phone)-3) + phone[len(phone)-3:]
}
