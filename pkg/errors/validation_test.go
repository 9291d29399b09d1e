package errors

import "testing"

func TestValidatePartNumber(t *testing.T) {
	tests := []struct {
		name    string
		num     string
		wantErr bool
	}{
		{"simple numeric", "3005", false},
		{"alphanumeric", "54200pr0001", false},
		{"with underscore", "3001_old", false},
		{"empty", "", true},
		{"path traversal", "../secret", true},
		{"forward slash", "lego/3005", true},
		{"backslash", "lego\\3005", true},
		{"control character", "3005\n", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePartNumber(tt.num)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePartNumber(%q) error = %v, wantErr %v", tt.num, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPart) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPart)
			}
		})
	}
}

func TestValidateGenfilePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative path", "labels.json", false},
		{"nested path", "boxes/sorting.toml", false},
		{"empty", "", true},
		{"control character", "labels\x00.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenfilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGenfilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
