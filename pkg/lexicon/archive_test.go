package lexicon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/japaniel/sajeon/internal/testutil"
)

const twoEntryDoc = `{"LexicalResource": {"Lexicon": {"LexicalEntry": [
	{"Lemma": {"feat": {"att": "writtenForm", "val": "나무"}}},
	{"Lemma": {"feat": {"att": "writtenForm", "val": "바다"}}}
]}}}`

const singleEntryDoc = `{"LexicalResource": {"Lexicon": {"LexicalEntry":
	{"Lemma": {"feat": {"att": "writtenForm", "val": "하늘"}}}
}}}`

func collect(t *testing.T, a *Archive) (members, words []string) {
	t.Helper()
	err := a.Walk(context.Background(), func(member string, e Entry) error {
		members = append(members, member)
		words = append(words, e.Headword())
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return members, words
}

func TestArchiveZipOrderAndFilter(t *testing.T) {
	path := testutil.MakeZip(t, "dict.zip",
		testutil.Member{Name: "1.json", Body: twoEntryDoc},
		testutil.Member{Name: "README.txt", Body: "not json"},
		testutil.Member{Name: "sub/2.JSON", Body: singleEntryDoc},
	)
	a, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	members, words := collect(t, a)
	if diff := cmp.Diff([]string{"나무", "바다", "하늘"}, words); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1.json", "1.json", "sub/2.JSON"}, members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveTarGz(t *testing.T) {
	path := testutil.MakeTarGz(t, "dict.tgz",
		testutil.Member{Name: "b.json", Body: singleEntryDoc},
		testutil.Member{Name: "a.json", Body: twoEntryDoc},
	)
	a, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	_, words := collect(t, a)
	if diff := cmp.Diff([]string{"하늘", "나무", "바다"}, words); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveBareJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.json")
	if err := os.WriteFile(path, []byte(testutil.SarangDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	_, words := collect(t, a)
	if diff := cmp.Diff([]string{"사랑"}, words); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveMalformedMemberIsFatal(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"LexicalResource": `},
		{"missing resource", `{"Other": {}}`},
		{"missing lexicon", `{"LexicalResource": {}}`},
		{"wrong shape", `{"LexicalResource": {"Lexicon": {"LexicalEntry": [{"Sense": "text"}]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.MakeZip(t, "bad.zip",
				testutil.Member{Name: "ok.json", Body: twoEntryDoc},
				testutil.Member{Name: "bad.json", Body: tt.body},
			)
			a, err := OpenArchive(path)
			if err != nil {
				t.Fatalf("OpenArchive: %v", err)
			}
			seen := 0
			err = a.Walk(context.Background(), func(string, Entry) error {
				seen++
				return nil
			})
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("Walk error = %v, want ErrMalformedDocument", err)
			}
			if seen != 2 {
				t.Errorf("entries before failure = %d, want 2", seen)
			}
		})
	}
}

func TestArchiveStopWalk(t *testing.T) {
	path := testutil.MakeZip(t, "dict.zip", testutil.Member{Name: "1.json", Body: twoEntryDoc})
	a, err := OpenArchive(path)
	if err != nil {
		t.Fatal(err)
	}
	seen := 0
	err = a.Walk(context.Background(), func(string, Entry) error {
		seen++
		return ErrStopWalk
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if seen != 1 {
		t.Fatalf("seen = %d, want 1", seen)
	}
}

func TestArchiveContextCanceled(t *testing.T) {
	path := testutil.MakeZip(t, "dict.zip", testutil.Member{Name: "1.json", Body: twoEntryDoc})
	a, err := OpenArchive(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = a.Walk(ctx, func(string, Entry) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Walk error = %v, want context.Canceled", err)
	}
}

func TestOpenArchiveErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenArchive(filepath.Join(dir, "missing.zip")); !os.IsNotExist(err) {
		t.Errorf("missing file: got %v", err)
	}
	if _, err := OpenArchive(dir); !errors.Is(err, ErrUnsupportedArchive) {
		t.Errorf("directory: got %v", err)
	}
	rar := filepath.Join(dir, "dict.rar")
	if err := os.WriteFile(rar, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenArchive(rar); !errors.Is(err, ErrUnsupportedArchive) {
		t.Errorf("rar: got %v", err)
	}
}

func TestParseDocumentBOM(t *testing.T) {
	doc, err := ParseDocument(append([]byte("\xef\xbb\xbf"), singleEntryDoc...))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if n := len(doc.Entries()); n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
}
