package deps

import (
	"errors"
	"testing"
)

func TestParseBazelVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Bazelisk version: v1.19.0\nBuild label: 7.1.0\nBuild target: ...", "7.1.0"},
		{"Build label: 6.4.0", "6.4.0"},
		{"Build label: 8.0.0rc1", "8.0.0"},
		{"Bazelisk version: development", ""},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseBazelVersion(tt.input)
		if result != tt.expected {
			t.Errorf("parseBazelVersion(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"6.0.0", "6.0.0", 0},
		{"7.1.0", "6.0.0", 1},
		{"5.4.1", "6.0.0", -1},
		{"10.0.0", "9.99.99", 1},
		{"6.0.1", "6.0.0", 1},
	}

	for _, tt := range tests {
		result := compareVersions(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
		}
	}
}

func withVersionRunner(t *testing.T, out string, err error) {
	t.Helper()
	orig := versionRunner
	versionRunner = func(string) (string, error) { return out, err }
	t.Cleanup(func() { versionRunner = orig })
}

func TestCheckTool(t *testing.T) {
	tests := []struct {
		name        string
		out         string
		err         error
		wantStatus  ToolStatus
		wantVersion string
	}{
		{"ok", "Build label: 7.1.0", nil, ToolOK, "7.1.0"},
		{"too old", "Build label: 5.3.2", nil, ToolTooOld, "5.3.2"},
		{"not found", "", ErrToolNotFound, ToolNotFound, ""},
		{"command failed", "", errors.New("exit status 1"), ToolUnknown, ""},
		{"unparseable", "bazel, probably", nil, ToolUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersionRunner(t, tt.out, tt.err)
			status, version := CheckTool("bazelisk")
			if status != tt.wantStatus || version != tt.wantVersion {
				t.Errorf("CheckTool() = %v, %q; want %v, %q", status, version, tt.wantStatus, tt.wantVersion)
			}
		})
	}
}

func TestEnsureTool(t *testing.T) {
	withVersionRunner(t, "", ErrToolNotFound)
	if err := EnsureTool("bazelisk"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("EnsureTool() = %v, want ErrToolNotFound", err)
	}

	withVersionRunner(t, "Build label: 4.0.0", nil)
	if err := EnsureTool("bazelisk"); err == nil {
		t.Error("EnsureTool() accepted an old Bazel")
	}

	withVersionRunner(t, "garbage", nil)
	if err := EnsureTool("bazelisk"); err != nil {
		t.Errorf("EnsureTool() with unknown version = %v, want nil", err)
	}
}
