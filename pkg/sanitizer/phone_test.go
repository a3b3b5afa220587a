package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+6281234567890",
			want:  "+6281234567890",
		},
		{
			name:  "with spaces",
			input: "+62 812 3456 7890",
			want:  "+6281234567890",
		},
		{
			name:  "local Indonesian number",
			input: "0812-3456-7890",
			want:  "+6281234567890",
		},
		{
			name:  "US number with parentheses",
			input: "+1 (212) 555-0123",
			want:  "+12125550123",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +6281234567890  ",
			want:  "+6281234567890",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "unparseable",
			input: "not a phone",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
