package errors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateOutputPattern(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		groups  bool
		wantErr bool
	}{
		{"single plain", "api.md", false, false},
		{"single nested", "docs/api.md", false, false},
		{"single literal percent", "100%%.md", false, false},
		{"group pattern", "api_%s.md", true, false},
		{"group in dir", "docs/%s/index.md", true, false},
		{"group after literal percent", "%%%s.md", true, false},
		{"single escaped placeholder", "docs/%%s.md", false, false},

		{"empty", "", false, true},
		{"group missing placeholder", "api.md", true, true},
		{"group two placeholders", "%s/%s.md", true, true},
		{"group escaped placeholder", "docs/%%s.md", true, true},
		{"single with placeholder", "api_%s.md", false, true},
		{"other verb", "api_%d.md", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPattern(tt.output, tt.groups)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPattern(%q, %v) error = %v, wantErr %v", tt.output, tt.groups, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeConfiguration) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeConfiguration)
			}
		})
	}
}

func TestValidateGroupName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "math", false},
		{"with dash", "io-streams", false},
		{"with dot", "v1.2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("g", 201), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"traversal", "..", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGroupName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.xml")
	if err := os.WriteFile(file, []byte("<doxygenindex/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateDirectory(dir); err != nil {
		t.Errorf("ValidateDirectory(dir) = %v, want nil", err)
	}
	if err := ValidateDirectory(""); !Is(err, ErrCodeInvalidPath) {
		t.Errorf("empty: code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
	}
	if err := ValidateDirectory(filepath.Join(dir, "missing")); !Is(err, ErrCodeFileNotFound) {
		t.Errorf("missing: code = %v, want %v", GetCode(err), ErrCodeFileNotFound)
	}
	if err := ValidateDirectory(file); !Is(err, ErrCodeInvalidPath) {
		t.Errorf("file: code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "api.md", false},
		{"valid nested", "docs/api_math.md", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.md", true},
		{"backslash", "docs\\api.md", true},
		{"null byte", "api\x00.md", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCacheURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"redis://localhost:6379/0", false},
		{"rediss://cache.internal:6380", false},
		{"", true},
		{"http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateCacheURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCacheURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
