package domain

import "testing"

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"expenses", "_tmp", "a1_b2", "time_period"}
	for _, id := range valid {
		if err := ValidateIdentifier(id); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", id, err)
		}
	}
	invalid := []string{"", "1abc", "a-b", "a b", "tab;le", "select", "drop", "WHERE", "x'y"}
	for _, id := range invalid {
		if err := ValidateIdentifier(id); err == nil {
			t.Errorf("ValidateIdentifier(%q) = nil, want error", id)
		}
	}
}
