package memory

import (
	"reflect"
	"strings"
	"testing"

	"askdocs/internal/storage"
)

func TestIsStatement(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"I prefer concise answers", true},
		{"i like long walks", true},
		{"My name is Ada", true},
		{"call me Grace", true},
		{"I'm an engineer", true},
		{"I work as a data analyst", true},
		{"don't explain the details", true},
		{"no summary please", true},
		{"what is the vacation policy and I prefer bullets", true},
		{"what is the vacation policy", false},
		{"summarize the onboarding doc", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsStatement(tt.text); got != tt.want {
				t.Errorf("IsStatement(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsQuestion(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"what do I like?", true},
		{"What is my name", true},
		{"who am i", true},
		{"what are my preferences", true},
		{"do you remember me", true},
		{"what is the refund policy", false},
		{"my name is Ada", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsQuestion(tt.text); got != tt.want {
				t.Errorf("IsQuestion(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitFragments(t *testing.T) {
	got := SplitFragments("my name is Ada and I prefer short answers and ")
	want := []string{"my name is Ada", "I prefer short answers"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitFragments = %v, want %v", got, want)
	}
}

func TestAnswerFromFacts(t *testing.T) {
	if got := AnswerFromFacts(nil); !strings.Contains(got, "anything stored") {
		t.Errorf("empty facts answer = %q", got)
	}

	facts := []storage.Fact{
		{Summary: "User's name is Ada"},
		{Summary: "User prefers concise answers"},
	}
	got := AnswerFromFacts(facts)
	if !strings.HasPrefix(got, "Based on what I know about you:") {
		t.Errorf("answer = %q", got)
	}
	for _, f := range facts {
		if !strings.Contains(got, f.Summary) {
			t.Errorf("answer missing %q", f.Summary)
		}
	}
}
