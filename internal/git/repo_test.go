package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// initTestGitRepo creates a repository in dir with a fixed identity.
func initTestGitRepo(t *testing.T, dir string) *Repo {
	t.Helper()
	requireGit(t)
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
		{"config", "tag.gpgsign", "false"},
	} {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	return &Repo{Dir: dir, Env: []string{"GIT_CEILING_DIRECTORIES=" + filepath.Dir(dir)}}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsInsideWorkTree(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	plain := t.TempDir()
	r := &Repo{Dir: plain, Env: []string{"GIT_CEILING_DIRECTORIES=" + filepath.Dir(plain)}}
	if r.IsInsideWorkTree(ctx) {
		t.Errorf("IsInsideWorkTree(%s) = true, want false", plain)
	}

	repo := initTestGitRepo(t, t.TempDir())
	if !repo.IsInsideWorkTree(ctx) {
		t.Errorf("IsInsideWorkTree() = false in a fresh repository")
	}
}

func TestAddCommitTagRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := initTestGitRepo(t, dir)

	writeFile(t, filepath.Join(dir, "specs", "a.md"), "# a")
	if err := repo.Add(ctx, "specs"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	staged, err := repo.StagedFiles(ctx)
	if err != nil {
		t.Fatalf("StagedFiles: %v", err)
	}
	if len(staged) != 1 || staged[0] != "specs/a.md" {
		t.Fatalf("StagedFiles = %v, want [specs/a.md]", staged)
	}

	if err := repo.Commit(ctx, "checkpoint: a draft"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	last, err := repo.LastCommit(ctx)
	if err != nil {
		t.Fatalf("LastCommit: %v", err)
	}
	if last.Subject != "checkpoint: a draft" {
		t.Errorf("Subject = %q", last.Subject)
	}
	head, err := repo.ShortHead(ctx)
	if err != nil {
		t.Fatalf("ShortHead: %v", err)
	}
	if head != last.Hash {
		t.Errorf("ShortHead = %q, LastCommit hash = %q", head, last.Hash)
	}

	if err := repo.CreateTag(ctx, "aitri-checkpoint/a-draft-1", "HEAD"); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	tags, err := repo.ListTags(ctx, "aitri-checkpoint/*")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "aitri-checkpoint/a-draft-1" || tags[0].Created.IsZero() {
		t.Fatalf("ListTags = %+v", tags)
	}

	if err := repo.DeleteTag(ctx, "aitri-checkpoint/a-draft-1"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	tags, err = repo.ListTags(ctx, "aitri-checkpoint/*")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("ListTags after delete = %+v", tags)
	}
}

func TestGitErrorCarriesStderr(t *testing.T) {
	ctx := context.Background()
	repo := initTestGitRepo(t, t.TempDir())

	_, err := repo.LastCommit(ctx)
	if err == nil {
		t.Fatal("LastCommit on empty repository should fail")
	}
	var ge *GitError
	if !errors.As(err, &ge) {
		t.Fatalf("error %T is not *GitError", err)
	}
	if ge.Stderr == "" {
		t.Error("GitError.Stderr is empty")
	}
	if ge.Args[0] != "log" {
		t.Errorf("GitError.Args = %v", ge.Args)
	}
}

func TestIsIndexLocked(t *testing.T) {
	locked := &GitError{Args: []string{"add"}, Stderr: "fatal: Unable to create '/x/.git/index.lock': File exists.", Err: errors.New("exit status 128")}
	if !IsIndexLocked(locked) {
		t.Error("IsIndexLocked(index.lock error) = false")
	}
	if IsIndexLocked(&GitError{Stderr: "fatal: pathspec 'x' did not match"}) {
		t.Error("IsIndexLocked(pathspec error) = true")
	}
	if IsIndexLocked(errors.New("index.lock")) {
		t.Error("IsIndexLocked(plain error) = true")
	}
}
