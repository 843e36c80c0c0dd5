package artifact

import "testing"

func TestFormulaIterPreOrderDiamond(t *testing.T) {
	d := &Formula{Name: "d"}
	b := &Formula{Name: "b", Dependencies: []*Formula{d}}
	c := &Formula{Name: "c", Dependencies: []*Formula{d}}
	a := &Formula{Name: "a", Dependencies: []*Formula{b, c}}

	got := a.Iter()
	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}

	want := []string{"a", "b", "d", "c", "d"}
	if len(names) != len(want) {
		t.Fatalf("Iter() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Iter()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if got[1].Dependencies[0] != got[3].Dependencies[0] {
		t.Fatal("diamond dependency d is not identity-shared between b and c")
	}
}

func TestFormulaFlatten(t *testing.T) {
	leaf := &Formula{Name: "leaf"}
	root := &Formula{Name: "root", Dependencies: []*Formula{leaf}}

	pkgs := root.Flatten()
	if len(pkgs) != 2 {
		t.Fatalf("Flatten() returned %d packages, want 2", len(pkgs))
	}
	if pkgs[0].ID() != "root" || pkgs[1].ID() != "leaf" {
		t.Fatalf("Flatten() ids = [%s %s], want [root leaf]", pkgs[0].ID(), pkgs[1].ID())
	}
}

func TestFormulaURLPicksDeterministicTag(t *testing.T) {
	f := &Formula{
		Name: "wget",
		Bottle: Bottle{Stable: BottleStable{Files: map[string]BottleFile{
			"x86_64_linux": {URL: "https://example.com/x86_64"},
			"arm64_sonoma": {URL: "https://example.com/arm64"},
		}}},
	}
	url, err := f.URL()
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	if url != "https://example.com/arm64" {
		t.Fatalf("URL() = %q, want arm64 (lexicographically first tag)", url)
	}
}

func TestFormulaURLNoBottleFiles(t *testing.T) {
	f := &Formula{Name: "empty"}
	if _, err := f.URL(); err == nil {
		t.Fatal("URL() with no bottle files should error")
	}
}

func TestCaskIDAndFlatten(t *testing.T) {
	c := &Cask{Token: "firefox", DownloadURL: "https://example.com/firefox.dmg"}
	if c.ID() != "firefox" {
		t.Fatalf("ID() = %q, want firefox", c.ID())
	}
	pkgs := c.Flatten()
	if len(pkgs) != 1 || pkgs[0].ID() != "firefox" {
		t.Fatalf("Flatten() = %v, want single firefox package", pkgs)
	}
	url, err := c.URL()
	if err != nil || url != "https://example.com/firefox.dmg" {
		t.Fatalf("URL() = (%q, %v), want download url", url, err)
	}
}
