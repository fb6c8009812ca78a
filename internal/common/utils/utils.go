// Package utils provides identifier generators and small helpers.
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	referralCharset  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referenceCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// BookingReferencePrefix prefixes every booking reference.
	BookingReferencePrefix = "RR"
	// ReferralCodeLength is the length of agent referral codes.
	ReferralCodeLength = 8
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func randomString(charset string, length int) string {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(charset)))
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, max)
		b.WriteByte(charset[n.Int64()])
	}
	return b.String()
}

// GenerateBookingReference returns "RR" followed by 9 uppercase base36 characters.
func GenerateBookingReference() string {
	return BookingReferencePrefix + randomString(referenceCharset, 9)
}

// GenerateReferralCode returns a code without the ambiguous characters 0, O, I and 1.
func GenerateReferralCode() string {
	return randomString(referralCharset, ReferralCodeLength)
}

// GenerateFileName returns "<field>-<unix millis>-<random><ext>".
func GenerateFileName(field, originalName string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(1e9))
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixMilli(), n.Int64(), ext)
}

// ValidateEmail reports whether email is syntactically valid.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}

// SafeString dereferences s or returns "".
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Contains reports whether item is in slice.
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
