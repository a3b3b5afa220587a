package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already clean",
			input: "Villa Cempaka",
			want:  "Villa Cempaka",
		},
		{
			name:  "leading and trailing spaces",
			input: "  Villa Cempaka  ",
			want:  "Villa Cempaka",
		},
		{
			name:  "internal whitespace runs",
			input: "Villa   \t  Cempaka",
			want:  "Villa Cempaka",
		},
		{
			name:  "newlines collapse",
			input: "Villa\nCempaka",
			want:  "Villa Cempaka",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com ", "bob@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeGuestName_Idempotent(t *testing.T) {
	input := "  Alice   Tan "
	once := NormalizeGuestName(input)
	twice := NormalizeGuestName(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q vs %q", once, twice)
	}
}
