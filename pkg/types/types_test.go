package types

import "testing"

func TestKindNames(t *testing.T) {
	for _, k := range []Kind{Int, Float, Bool} {
		if got := FromName(k.String()); got != k {
			t.Errorf("FromName(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if FromName("char") != Unknown || Unknown.String() != "unknown" {
		t.Error("unknown names should map to Unknown")
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b Kind
		want Kind
	}{
		{Int, Int, Int},
		{Int, Float, Float},
		{Float, Int, Float},
		{Float, Float, Float},
	}
	for _, tt := range tests {
		if got := Promote(tt.a, tt.b); got != tt.want {
			t.Errorf("Promote(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestOfLiteral(t *testing.T) {
	tests := map[string]Kind{
		"5":    Int,
		"0":    Int,
		"-5":   Int,
		"2.5":  Float,
		"5.0":  Float,
		"-0.5": Float,
	}
	for text, want := range tests {
		if got := OfLiteral(text); got != want {
			t.Errorf("OfLiteral(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	if !Int.IsNumeric() || !Float.IsNumeric() || Bool.IsNumeric() || Unknown.IsNumeric() {
		t.Error("only int and float are numeric")
	}
}
