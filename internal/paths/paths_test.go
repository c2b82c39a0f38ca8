package paths

import (
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	l := New("/proj", Overrides{})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"specs", l.Specs, "/proj/specs"},
		{"backlog", l.Backlog, "/proj/backlog"},
		{"tests", l.Tests, "/proj/tests"},
		{"docs", l.Docs, "/proj/docs"},
		{"draft", l.DraftSpec("login"), "/proj/specs/drafts/login.md"},
		{"approved", l.ApprovedSpec("login"), "/proj/specs/approved/login.md"},
		{"backlog file", l.BacklogFile("login"), "/proj/backlog/login/backlog.md"},
		{"tests file", l.TestsFile("login"), "/proj/tests/login/tests.md"},
		{"discovery", l.Discovery("login"), "/proj/docs/discovery/login.md"},
		{"plan", l.Plan("login"), "/proj/docs/plan/login.md"},
		{"go marker", l.GoMarker("login"), "/proj/docs/implementation/login/go.json"},
		{"build marker", l.BuildMarker("login"), "/proj/docs/implementation/login/build.json"},
		{"delivery", l.Delivery("login"), "/proj/docs/delivery/login.json"},
		{"delivery report", l.DeliveryReport("login"), "/proj/docs/delivery/login.md"},
		{"feedback", l.Feedback("login"), "/proj/docs/feedback/login.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.FromSlash(tt.want) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNewOverrides(t *testing.T) {
	l := New("/proj", Overrides{Specs: "work/specs", Docs: "/abs/docs"})
	if l.Specs != filepath.FromSlash("/proj/work/specs") {
		t.Errorf("Specs = %q", l.Specs)
	}
	if l.Docs != filepath.FromSlash("/abs/docs") {
		t.Errorf("Docs = %q", l.Docs)
	}
	if l.Tests != filepath.FromSlash("/proj/tests") {
		t.Errorf("Tests = %q, want default", l.Tests)
	}
}

func TestManagedPaths(t *testing.T) {
	l := New("/proj", Overrides{Backlog: "specs"})
	got := l.ManagedPaths()
	want := []string{"specs", "tests", "docs"}
	if len(got) != len(want) {
		t.Fatalf("ManagedPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ManagedPaths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestManagedPathsOutsideRoot(t *testing.T) {
	l := New("/proj", Overrides{Docs: "/elsewhere/docs"})
	got := l.ManagedPaths()
	if got[len(got)-1] != filepath.FromSlash("/elsewhere/docs") {
		t.Errorf("outside root should stay absolute, got %v", got)
	}
}

func TestValidateFeatureName(t *testing.T) {
	valid := []string{"login", "user-auth", "v2.api", "Feature_1"}
	for _, name := range valid {
		if err := ValidateFeatureName(name); err != nil {
			t.Errorf("ValidateFeatureName(%q) = %v, want nil", name, err)
		}
	}
	invalid := []string{"", ".hidden", "-flag", "a/b", "..", "has space", "x\\y"}
	for _, name := range invalid {
		if err := ValidateFeatureName(name); err == nil {
			t.Errorf("ValidateFeatureName(%q) = nil, want error", name)
		}
	}
}
