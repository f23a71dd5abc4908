package core

import "testing"

// ----------------------------------------------------------------------------
// ParseReference Tests
// ----------------------------------------------------------------------------

func TestParseReference(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ReferenceToken
	}{
		{
			name:  "plain code",
			input: "34493",
			want:  []ReferenceToken{{Code: "34493", Quantity: 1}},
		},
		{
			name:  "prefix stripped and no grammar",
			input: "PAI - TN 5AM",
			want:  []ReferenceToken{{Code: "TN 5AM", Quantity: 1}},
		},
		{
			name:  "two-component composition",
			input: "12-34493/6-95482",
			want: []ReferenceToken{
				{Code: "34493", Quantity: 12},
				{Code: "95482", Quantity: 6},
			},
		},
		{
			name:  "variant prefix with single quantity pair",
			input: "VAR - 2-34493",
			want:  []ReferenceToken{{Code: "34493", Quantity: 2}},
		},
		{
			name:  "quantity one is part of the code",
			input: "1-34493",
			want:  []ReferenceToken{{Code: "1-34493", Quantity: 1}},
		},
		{
			name:  "non-numeric leading segment falls through",
			input: "KIT-34493",
			want:  []ReferenceToken{{Code: "KIT-34493", Quantity: 1}},
		},
		{
			name:  "mixed grammar and fallback items",
			input: "4-500/KIT-77",
			want: []ReferenceToken{
				{Code: "500", Quantity: 4},
				{Code: "KIT-77", Quantity: 1},
			},
		},
		{
			name:  "empty items between slashes skipped",
			input: "34493//95482",
			want: []ReferenceToken{
				{Code: "34493", Quantity: 1},
				{Code: "95482", Quantity: 1},
			},
		},
		{
			name:  "whitespace tolerated",
			input: "  3 - 500  /  95482 ",
			want: []ReferenceToken{
				{Code: "500", Quantity: 3},
				{Code: "95482", Quantity: 1},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "prefix only",
			input: "VAR - ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReference(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseReference(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
