package kb

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidateMissingEmail(t *testing.T) {
	k := Default()
	k.Contact.Email = ""
	if err := k.Validate(); err == nil {
		t.Error("Validate() = nil, want error for missing email")
	}
}

func TestValidateMissingOwner(t *testing.T) {
	k := Default()
	k.Owner = ""
	if err := k.Validate(); err == nil {
		t.Error("Validate() = nil, want error for missing owner")
	}
}

func TestValidateEmptyProjects(t *testing.T) {
	k := Default()
	k.Projects = nil
	if err := k.Validate(); err == nil {
		t.Error("Validate() = nil, want error for empty projects")
	}
}

func TestValidateBrokenProject(t *testing.T) {
	k := Default()
	k.Projects[1].Description = ""
	err := k.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for project without description")
	}
	if !strings.Contains(err.Error(), "project 1") {
		t.Errorf("error %q does not name the offending project", err)
	}
}

func TestLoadResumeMissingFile(t *testing.T) {
	if _, err := LoadResume("testdata/does-not-exist.pdf"); err == nil {
		t.Error("LoadResume() = nil error for missing file")
	}
}

func TestNormalizeResumeText(t *testing.T) {
	raw := "  Sibasish   Behera \n\n\n  Software  Engineer\t\n\n"
	got := normalizeResumeText(raw)
	want := "Sibasish Behera\n\nSoftware Engineer"
	if got != want {
		t.Errorf("normalizeResumeText() = %q, want %q", got, want)
	}
}
