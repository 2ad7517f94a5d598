package buildinfo

import (
	"strings"
	"testing"
)

func TestGenerator(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	if got := Generator(); got != "moxygen v1.2.3" {
		t.Errorf("Generator() = %q", got)
	}
	if !strings.Contains(Template(), "v1.2.3") {
		t.Error("Template() should include the version")
	}
	if !strings.HasPrefix(String(), "version: v1.2.3\n") {
		t.Errorf("String() = %q", String())
	}
}
