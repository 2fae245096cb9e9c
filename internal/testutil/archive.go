package testutil

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Member is one file inside a test package.
type Member struct {
	Name string
	Body string
}

// MakeZip writes members, in order, to a zip file named name under a temp
// dir and returns its path.
func MakeZip(t *testing.T, name string, members ...Member) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(m.Body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// MakeTarGz writes members, in order, to a gzipped tar file named name under
// a temp dir and returns its path.
func MakeTarGz(t *testing.T, name string, members ...Member) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, m := range members {
		hdr := &tar.Header{
			Name:     m.Name,
			Mode:     0o644,
			Size:     int64(len(m.Body)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(m.Body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// SarangDocument is a one-entry document: 사랑 (명사) with a single sense and
// no relations.
const SarangDocument = `{
  "LexicalResource": {
    "Lexicon": {
      "feat": {"att": "language", "val": "한국어"},
      "LexicalEntry": [
        {
          "Lemma": {"feat": {"att": "writtenForm", "val": "사랑"}},
          "feat": [
            {"att": "homonym_number", "val": "0"},
            {"att": "partOfSpeech", "val": "명사"},
            {"att": "vocabularyLevel", "val": "초급"}
          ],
          "Sense": {
            "feat": [
              {"att": "definition", "val": "다른 사람을 아끼고 좋아하는 마음."}
            ]
          }
        }
      ]
    }
  }
}`

// WordsDocument returns a document with one noun entry per word. Each entry
// has a single sense whose definition mentions the word.
func WordsDocument(words ...string) string {
	var b strings.Builder
	b.WriteString(`{"LexicalResource": {"Lexicon": {"LexicalEntry": [`)
	for i, w := range words {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"Lemma": {"feat": {"att": "writtenForm", "val": %q}},`+
			`"feat": {"att": "partOfSpeech", "val": "명사"},`+
			`"Sense": {"feat": {"att": "definition", "val": "%s 뜻풀이."}}}`, w, w)
	}
	b.WriteString(`]}}}`)
	return b.String()
}
