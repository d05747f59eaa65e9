package amendment

import (
	"strings"
	"testing"
)

func TestExtractRecipient_StrongOrganisation(t *testing.T) {
	recipient, ok := ExtractRecipient("Provides $50,000 for Fairfax County Public Schools.")
	if !ok {
		t.Fatal("Expected a recipient")
	}

	if recipient.Name != "Fairfax County Public Schools" {
		t.Errorf("Expected 'Fairfax County Public Schools', got %q", recipient.Name)
	}
	if recipient.Confidence != HighRecipientConfidence {
		t.Errorf("Expected confidence %v, got %v", HighRecipientConfidence, recipient.Confidence)
	}
	if !strings.HasPrefix(recipient.RawText, "for Fairfax") {
		t.Errorf("Expected raw snippet to start at the intro phrase, got %q", recipient.RawText)
	}
}

func TestExtractRecipient_StopsAtPurposePhrase(t *testing.T) {
	recipient, ok := ExtractRecipient("Provides funding to the Town of Example Authority to support water line upgrades.")
	if !ok {
		t.Fatal("Expected a recipient")
	}

	if strings.Contains(recipient.Name, "support") {
		t.Errorf("Expected name cut before the purpose phrase, got %q", recipient.Name)
	}
	if !strings.HasSuffix(recipient.Name, "Town of Example Authority") {
		t.Errorf("Expected name ending in 'Town of Example Authority', got %q", recipient.Name)
	}
}

func TestExtractRecipient_ProgramIsLowConfidence(t *testing.T) {
	recipient, ok := ExtractRecipient("Provides funding for the Youth Mentoring Program.")
	if !ok {
		t.Fatal("Expected a recipient")
	}

	if recipient.Confidence != LowRecipientConfidence {
		t.Errorf("Expected confidence %v, got %v", LowRecipientConfidence, recipient.Confidence)
	}
	if !strings.Contains(recipient.Name, "Youth Mentoring Program") {
		t.Errorf("Expected program name, got %q", recipient.Name)
	}
}

func TestExtractRecipient_Rejections(t *testing.T) {
	tests := []string{
		"",
		"Increases funding for teacher salaries.",
		"Provides funding for the cost of Board meetings.",
		"Language only amendment.",
	}

	for _, description := range tests {
		if recipient, ok := ExtractRecipient(description); ok {
			t.Errorf("ExtractRecipient(%q): expected no recipient, got %q", description, recipient.Name)
		}
	}
}

func TestIsVagueRecipient(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"", true},
		{" ab ", true},
		{"The cost of compliance", true},
		{"This program", true},
		{"City of Example", false},
		{"the City of Example", false},
	}

	for _, tt := range tests {
		if result := IsVagueRecipient(tt.name); result != tt.expected {
			t.Errorf("IsVagueRecipient(%q): expected %v, got %v", tt.name, tt.expected, result)
		}
	}
}
