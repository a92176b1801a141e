package search

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	if got := Normalize("  Technology Founder  "); got != "technology founder" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestExtractTerms_Keywords(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"senior product manager", []string{"senior", "product", "manager"}},
		{"a of in", nil},         // all stopword-length
		{"go ML ai", nil},        // tokens of length <= 2 are dropped
		{"AI engineering", []string{"engineering"}},
	}
	for _, tt := range tests {
		got := ExtractTerms(tt.query)
		if !reflect.DeepEqual(got.Keywords, tt.want) {
			t.Errorf("ExtractTerms(%q).Keywords = %v, want %v", tt.query, got.Keywords, tt.want)
		}
	}
}

func TestExtractTerms_Vocabularies(t *testing.T) {
	terms := ExtractTerms("Senior fintech founder in New York looking for mentorship")

	if !reflect.DeepEqual(terms.Roles, []string{"founder"}) {
		t.Errorf("Roles = %v, want [founder]", terms.Roles)
	}
	if !reflect.DeepEqual(terms.Locations, []string{"new york"}) {
		t.Errorf("Locations = %v, want [new york]", terms.Locations)
	}
	if !reflect.DeepEqual(terms.Goals, []string{"mentorship"}) {
		t.Errorf("Goals = %v, want [mentorship]", terms.Goals)
	}
	if !reflect.DeepEqual(terms.Levels, []string{"senior"}) {
		t.Errorf("Levels = %v, want [senior]", terms.Levels)
	}
}

func TestExtractTerms_IndustryHyphenVariant(t *testing.T) {
	// "real estate" in the query must match the hyphenated vocabulary entry.
	terms := ExtractTerms("real estate investing")
	if !reflect.DeepEqual(terms.Industries, []string{"real-estate"}) {
		t.Errorf("Industries = %v, want [real-estate]", terms.Industries)
	}

	terms = ExtractTerms("real-estate investing")
	if !reflect.DeepEqual(terms.Industries, []string{"real-estate"}) {
		t.Errorf("Industries (hyphenated query) = %v, want [real-estate]", terms.Industries)
	}
}

func TestExtractTerms_PhraseMatchesAcrossTokens(t *testing.T) {
	// Vocabulary matching runs over the full query string, so multi-word
	// phrases are found even though tokenization would split them.
	terms := ExtractTerms("open to job opportunities")
	if !reflect.DeepEqual(terms.Goals, []string{"job opportunities"}) {
		t.Errorf("Goals = %v, want [job opportunities]", terms.Goals)
	}
}

func TestExtractTerms_MultipleIndustries(t *testing.T) {
	terms := ExtractTerms("technology and healthcare consulting")
	want := []string{"technology", "healthcare", "consulting"}
	if !reflect.DeepEqual(terms.Industries, want) {
		t.Errorf("Industries = %v, want %v", terms.Industries, want)
	}
}
