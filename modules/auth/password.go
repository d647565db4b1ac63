package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	DefaultBcryptCost = 12

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// similarityThreshold is the ratio above which a password is considered
	// too close to an identity hint.
	similarityThreshold = 0.7
)

// Credential validation messages, surfaced verbatim to clients.
const (
	MsgPasswordTooSimilar = "The password is too similar to the email address."
	MsgPasswordTooShort   = "This password is too short. It must contain at least 8 characters."
	MsgPasswordTooCommon  = "This password is too common."
	MsgPasswordNumeric    = "This password is entirely numeric."
)

// PasswordHasher provides password hashing and verification.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a new PasswordHasher with default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		cost: DefaultBcryptCost,
	}
}

// Hash generates a bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CredentialValidator enforces password strength rules at registration.
// Validation is pure: it inspects only the password and the identity hints
// it is handed.
type CredentialValidator struct {
	common map[string]struct{}
}

// NewCredentialValidator creates a validator backed by the embedded
// common-password list.
func NewCredentialValidator() *CredentialValidator {
	common := make(map[string]struct{}, len(commonPasswords))
	for _, p := range commonPasswords {
		common[p] = struct{}{}
	}
	return &CredentialValidator{common: common}
}

// Validate checks the password against every rule and returns the messages
// of all violated rules in rule order, or an empty slice when the password
// is acceptable. Identity hints are values an attacker could guess from the
// account itself; at minimum the email address.
func (v *CredentialValidator) Validate(password string, hints ...string) []string {
	var messages []string

	if v.tooSimilar(password, hints) {
		messages = append(messages, MsgPasswordTooSimilar)
	}
	if len(password) < MinPasswordLength {
		messages = append(messages, MsgPasswordTooShort)
	}
	if _, ok := v.common[strings.ToLower(password)]; ok {
		messages = append(messages, MsgPasswordTooCommon)
	}
	if isNumeric(password) {
		messages = append(messages, MsgPasswordNumeric)
	}

	return messages
}

// tooSimilar compares the password to each hint and to the hint's
// alphanumeric fragments (so "jane" in "jane.doe@example.com" is caught).
func (v *CredentialValidator) tooSimilar(password string, hints []string) bool {
	lower := strings.ToLower(password)
	for _, hint := range hints {
		hint = strings.ToLower(hint)
		if hint == "" {
			continue
		}
		candidates := append(splitFragments(hint), hint)
		for _, candidate := range candidates {
			if similarity(lower, candidate) >= similarityThreshold {
				return true
			}
		}
	}
	return false
}

// splitFragments breaks a hint on non-alphanumeric runes.
func splitFragments(hint string) []string {
	return strings.FieldsFunc(hint, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// similarity returns a ratio in [0, 1] based on the longest common
// subsequence of the two strings: 2*lcs / (len(a) + len(b)).
func similarity(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

func isNumeric(password string) bool {
	if password == "" {
		return false
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
