package extract

import (
	"reflect"
	"testing"
)

func TestParseCell_NameAndPhone(t *testing.T) {
	id, ok := ParseCell("Dupont Marie 0612345678")
	if !ok {
		t.Fatal("Expected a usable identity")
	}
	if id.Name != "Dupont Marie" {
		t.Errorf("Expected name 'Dupont Marie', got %q", id.Name)
	}
	if id.Phone != "0612345678" {
		t.Errorf("Expected phone '0612345678', got %q", id.Phone)
	}
}

func TestParseCell_SeparatedPhone(t *testing.T) {
	id, ok := ParseCell("Martin Paul 06 12 34 56 78")
	if !ok {
		t.Fatal("Expected a usable identity")
	}
	if id.Phone != "0612345678" {
		t.Errorf("Expected separators stripped, got %q", id.Phone)
	}
	if id.Name != "Martin Paul" {
		t.Errorf("Expected name 'Martin Paul', got %q", id.Name)
	}
}

func TestParseCell_DottedPhone(t *testing.T) {
	id, ok := ParseCell("Petit Jean 06.12.34.56.78")
	if !ok || id.Phone != "0612345678" {
		t.Errorf("Expected dotted phone normalized, got %+v ok=%v", id, ok)
	}
}

func TestParseCell_NameOnly(t *testing.T) {
	id, ok := ParseCell("  dupont   marie ")
	if !ok {
		t.Fatal("Expected a usable identity")
	}
	if id.Name != "Dupont Marie" {
		t.Errorf("Expected title-cased collapsed name, got %q", id.Name)
	}
	if id.Phone != "" {
		t.Errorf("Expected no phone, got %q", id.Phone)
	}
}

func TestParseCell_HyphenatedName(t *testing.T) {
	id, ok := ParseCell("dubois jean-pierre")
	if !ok || id.Name != "Dubois Jean-Pierre" {
		t.Errorf("Expected 'Dubois Jean-Pierre', got %q ok=%v", id.Name, ok)
	}
}

func TestParseCell_RejectsDateLikeCells(t *testing.T) {
	for _, cell := range []string{"22/03", "22 02", "12/03/2024", "  ", "1"} {
		if id, ok := ParseCell(cell); ok {
			t.Errorf("Expected %q to yield nothing, got %+v", cell, id)
		}
	}
}

func TestParseCell_PhoneOnly(t *testing.T) {
	id, ok := ParseCell("0612345678")
	if !ok {
		t.Fatal("Expected a phone-only identity")
	}
	if id.Phone != "0612345678" || id.Name != "" {
		t.Errorf("Expected phone only, got %+v", id)
	}
}

func TestParseCell_TooShortDigitRunIsNotAPhone(t *testing.T) {
	// 8 digits is below the plausible range; the digits are not a phone
	// and the cell is numeric noise.
	if id, ok := ParseCell("12345678"); ok {
		t.Errorf("Expected rejection, got %+v", id)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"06 12 34 56 78", "0612345678"},
		{"+33 6 12 34 56 78", "33612345678"},
		{"0612345678", "0612345678"},
		{"12345678", ""},                  // too short
		{"12345678901234567890", ""},      // too long
		{"abc", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitClients(t *testing.T) {
	got := SplitClients("Dupont Marie\nMartin Paul; Petit Jean\r\n")
	want := []string{"Dupont Marie", "Martin Paul", "Petit Jean"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitClients=%v, want %v", got, want)
	}
}

func TestSplitClients_Empty(t *testing.T) {
	if got := SplitClients("  \n ; "); got != nil {
		t.Errorf("Expected nil for blank cell, got %v", got)
	}
}

func TestExtractPhone_LeavesTextIntactWhenNoPhone(t *testing.T) {
	rest, phone := ExtractPhone("Dupont Marie")
	if phone != "" || rest != "Dupont Marie" {
		t.Errorf("Expected untouched text, got rest=%q phone=%q", rest, phone)
	}
}
