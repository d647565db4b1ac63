package auth

import (
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := &PasswordHasher{cost: 4} // minimum cost, fast tests

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "tomciopaluch5032"},
		{name: "complex password", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode password", password: "hasło123zażółć"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if hash == "" || hash == tt.password {
				t.Fatalf("Hash() = %q, want a non-empty hash distinct from the password", hash)
			}

			if !hasher.Verify(tt.password, hash) {
				t.Error("Verify() = false for the correct password")
			}
			if hasher.Verify("different", hash) {
				t.Error("Verify() = true for a wrong password")
			}
		})
	}
}

func TestCredentialValidator_Validate(t *testing.T) {
	validator := NewCredentialValidator()

	tests := []struct {
		name     string
		password string
		hints    []string
		want     []string
	}{
		{
			name:     "acceptable password",
			password: "tomciopaluch5032",
			hints:    []string{"test123@gmail.com"},
			want:     nil,
		},
		{
			name:     "too short",
			password: "ab1cd2e",
			want:     []string{MsgPasswordTooShort},
		},
		{
			name:     "too common",
			password: "password123",
			want:     []string{MsgPasswordTooCommon},
		},
		{
			name:     "common check is case-insensitive",
			password: "QwErTy123",
			want:     []string{MsgPasswordTooCommon},
		},
		{
			name:     "entirely numeric",
			password: "8172639450",
			want:     []string{MsgPasswordNumeric},
		},
		{
			name:     "too similar to the email",
			password: "test123@gmail.com12",
			hints:    []string{"test123@gmail.com"},
			want:     []string{MsgPasswordTooSimilar},
		},
		{
			name:     "too similar to an email fragment",
			password: "1example7",
			hints:    []string{"jane.doe@example.com"},
			want:     []string{MsgPasswordTooSimilar},
		},
		{
			name:     "multiple violations in rule order",
			password: "1234567",
			want:     []string{MsgPasswordTooShort, MsgPasswordTooCommon, MsgPasswordNumeric},
		},
		{
			name:     "similarity ignores empty hints",
			password: "s7rongAndLong!",
			hints:    []string{""},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validator.Validate(tt.password, tt.hints...)

			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Validate()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		high bool
	}{
		{name: "identical strings", a: "example", b: "example", high: true},
		{name: "containment", a: "example.com123", b: "example.com", high: true},
		{name: "unrelated strings", a: "tomciopaluch5032", b: "test123@gmail.com", high: false},
		{name: "empty string", a: "", b: "anything", high: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio := similarity(tt.a, tt.b)
			if got := ratio >= similarityThreshold; got != tt.high {
				t.Errorf("similarity(%q, %q) = %v, above threshold = %v, want %v",
					tt.a, tt.b, ratio, got, tt.high)
			}
		})
	}
}
