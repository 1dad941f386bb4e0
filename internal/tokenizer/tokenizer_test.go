package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "salve regina", []string{"salve", "regina"}},
		{"with punctuation", "Salve, regina!", []string{"salve", "regina"}},
		{"with numbers", "folio 12v recto", []string{"folio", "12v", "recto"}},
		{"leading/trailing spaces", "  ave maria  ", []string{"ave", "maria"}},
		{"multiple spaces between words", "gloria   patri", []string{"gloria", "patri"}},
		{"accented latin", "misericordiæ über", []string{"misericordiæ", "über"}},
		{"bracketed TEI expansion", "d[omi]n[u]s", []string{"d", "omi", "n", "u", "s"}},
		{"string with hyphen", "anno-domini", []string{"anno", "domini"}},
		{"all caps word", "INCIPIT LIBER", []string{"incipit", "liber"}},
		{"only symbols", "!@#$%^", []string{}},
		{"only numbers", "800 1400", []string{"800", "1400"}},
		{"special chars in middle", "vita1!@#sancti2", []string{"vita1", "sancti2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeWithOffsets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"empty string", "", []Token{}},
		{
			"offsets cover original bytes",
			"Salve, regina",
			[]Token{
				{Text: "salve", Start: 0, End: 5},
				{Text: "regina", Start: 7, End: 13},
			},
		},
		{
			"trailing token without separator",
			"ora pro",
			[]Token{
				{Text: "ora", Start: 0, End: 3},
				{Text: "pro", Start: 4, End: 7},
			},
		},
		{
			"multibyte runes keep byte offsets",
			"æterna lux",
			[]Token{
				{Text: "æterna", Start: 0, End: 7},
				{Text: "lux", Start: 8, End: 11},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeWithOffsets(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TokenizeWithOffsets(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGeneratePrefixNGrams(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{"empty token", "", []string{}},
		{"single char", "a", []string{"a"}},
		{"regular token", "regina", []string{"r", "re", "reg", "regi", "regin", "regina"}},
		{"multibyte token cuts on rune boundaries", "æva", []string{"æ", "æv", "æva"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePrefixNGrams(tt.token)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GeneratePrefixNGrams(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
