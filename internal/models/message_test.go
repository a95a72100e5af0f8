package models

import "testing"

func TestValidTag(t *testing.T) {
	valid := []string{"", "important", "question", "followup"}
	for _, tag := range valid {
		if !ValidTag(tag) {
			t.Errorf("ValidTag(%q) = false, want true", tag)
		}
	}

	invalid := []string{"urgent", "IMPORTANT", "follow-up", "question ", "misc"}
	for _, tag := range invalid {
		if ValidTag(tag) {
			t.Errorf("ValidTag(%q) = true, want false", tag)
		}
	}
}
