package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand_WalksDirectoriesInOrder(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{
		"b.md",
		"a.txt",
		"nested/c.html",
		"nested/d.txt.gz",
		"image.png",
		"main.go",
		".hidden/secret.txt",
		"node_modules/pkg/readme.md",
	} {
		writeFile(t, filepath.Join(root, p), []byte("x"))
	}

	l := &Loader{}
	got, err := l.Expand([]string{"-", "https://example.com", root, filepath.Join(root, "missing.txt")})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{
		"-",
		"https://example.com",
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.md"),
		filepath.Join(root, "nested", "c.html"),
		filepath.Join(root, "nested", "d.txt.gz"),
		filepath.Join(root, "missing.txt"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d inputs, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("input %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpand_ExplicitFileKeptRegardlessOfExtension(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.log")
	writeFile(t, p, []byte("Club Penguin"))
	got, err := (&Loader{}).Expand([]string{p})
	if err != nil || len(got) != 1 || got[0] != p {
		t.Fatalf("expected explicit file to be kept, got %q %v", got, err)
	}
}

func TestExpand_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), []byte("drafts/\n*.html\n"))
	writeFile(t, filepath.Join(root, "keep.txt"), []byte("x"))
	writeFile(t, filepath.Join(root, "page.html"), []byte("x"))
	writeFile(t, filepath.Join(root, "drafts", "draft.txt"), []byte("x"))
	writeFile(t, filepath.Join(root, "docs", ".gitignore"), []byte("private.md\n"))
	writeFile(t, filepath.Join(root, "docs", "private.md"), []byte("x"))
	writeFile(t, filepath.Join(root, "docs", "public.md"), []byte("x"))

	got, err := (&Loader{Gitignore: true}).Expand([]string{root})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{filepath.Join(root, "docs", "public.md"), filepath.Join(root, "keep.txt")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %q, got %q", want, got)
	}

	all, err := (&Loader{}).Expand([]string{root})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("without gitignore expected 5 files, got %q", all)
	}
}

func TestExpand_RelativeRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), []byte("skip.txt\n"))
	writeFile(t, filepath.Join(root, "sub", "skip.txt"), []byte("x"))
	writeFile(t, filepath.Join(root, "sub", "keep.txt"), []byte("x"))

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	got, err := (&Loader{Gitignore: true}).Expand([]string{"."})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(got) != 1 || got[0] != filepath.Join("sub", "keep.txt") {
		t.Fatalf("expected only sub/keep.txt, got %q", got)
	}
}

func TestIsTextFile(t *testing.T) {
	for p, want := range map[string]bool{
		"a.txt":      true,
		"a.MD":       true,
		"a.html.zst": true,
		"a.rst.gz":   true,
		"a.gz":       false,
		"a.go":       false,
		"README":     false,
	} {
		if got := IsTextFile(p); got != want {
			t.Fatalf("IsTextFile(%q) = %v, want %v", p, got, want)
		}
	}
}
