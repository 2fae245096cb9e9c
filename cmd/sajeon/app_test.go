package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/sajeon/internal/testutil"
	"github.com/japaniel/sajeon/pkg/lexicon"
	"github.com/japaniel/sajeon/pkg/similarity"
	"github.com/japaniel/sajeon/pkg/tokenize"
)

// run executes the app in-process and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).RunContext(context.Background(), append([]string{"sajeon"}, args...))
	return stdout.String(), stderr.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SAJEON_CONFIG", "SAJEON_DB", "SAJEON_COMMIT_EVERY", "SAJEON_MAX_RECORDS"} {
		t.Setenv(k, "")
	}
	t.Setenv("SAJEON_CACHE_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
}

func TestCLI_BuildExportLookupStats(t *testing.T) {
	isolateEnv(t)
	pkg := testutil.MakeZip(t, "dict.zip",
		testutil.Member{Name: "1.json", Body: testutil.SarangDocument},
		testutil.Member{Name: "notes.txt", Body: "ignored"},
		testutil.Member{Name: "2.json", Body: testutil.WordsDocument("사과", "나무 껍질", "포도")},
	)
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "dict.db")

	out, _, err := run(t, "build", "--input", pkg, "--out", dbPath)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if out != "done 3\n" {
		t.Fatalf("unexpected build output: %q", out)
	}

	sqlPath := filepath.Join(tmp, "dict.sql")
	out, _, err = run(t, "export", "--db", dbPath, "--out", sqlPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if out != "wrote "+sqlPath+"\n" {
		t.Fatalf("unexpected export output: %q", out)
	}
	script, err := os.ReadFile(sqlPath)
	if err != nil {
		t.Fatal(err)
	}
	s := string(script)
	if !strings.HasPrefix(s, "BEGIN;\n") || !strings.HasSuffix(s, "COMMIT;\n") {
		t.Fatalf("export not wrapped in a transaction:\n%s", s)
	}
	if got := strings.Count(s, "INSERT INTO entries("); got != 3 {
		t.Fatalf("expected 3 inserts, got %d:\n%s", got, s)
	}
	if !strings.Contains(s, `'사랑','명사','초급','다른 사람을 아끼고 좋아하는 마음.'`) {
		t.Fatalf("sarang row missing:\n%s", s)
	}

	out, errOut, err := run(t, "lookup", "--db", dbPath, "사랑", "없는말")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !strings.Contains(out, "다른 사람을 아끼고 좋아하는 마음.") || !strings.Contains(out, "Definition") {
		t.Fatalf("unexpected lookup output:\n%s", out)
	}
	if !strings.Contains(errOut, "no entries for 없는말") {
		t.Fatalf("expected miss notice, got %q", errOut)
	}

	out, _, err = run(t, "stats", "--db", dbPath, "--top", "1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"entries 3", "명사", "뜻풀이"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_BuildProgressAndMax(t *testing.T) {
	isolateEnv(t)
	words := []string{"가방", "나비", "다리", "라면", "마을"}
	pkg := testutil.MakeTarGz(t, "dict.tar.gz", testutil.Member{Name: "d/1.json", Body: testutil.WordsDocument(words...)})
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "sajeon.yaml")
	if err := os.WriteFile(cfgPath, []byte("build:\n  commit_every: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "build", "--config", cfgPath, "--input", pkg, "--out", filepath.Join(tmp, "a.db"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if want := "inserted 2\ninserted 4\ndone 5\n"; out != want {
		t.Fatalf("build output = %q, want %q", out, want)
	}

	out, _, err = run(t, "build", "--config", cfgPath, "--max", "3", "--input", pkg, "--out", filepath.Join(tmp, "b.db"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if want := "inserted 2\ndone 3\n"; out != want {
		t.Fatalf("build output = %q, want %q", out, want)
	}
}

func TestCLI_BuildFromURL(t *testing.T) {
	isolateEnv(t)
	body, err := os.ReadFile(testutil.MakeZip(t, "dict.zip", testutil.Member{Name: "1.json", Body: testutil.SarangDocument}))
	if err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	t.Setenv("SAJEON_CACHE_DIR", cacheDir)
	tmp := t.TempDir()

	for i := 0; i < 2; i++ {
		out, _, err := run(t, "build", "--input", srv.URL+"/pkg/dict.zip", "--out", filepath.Join(tmp, "dict.db"))
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		if out != "done 1\n" {
			t.Fatalf("unexpected build output: %q", out)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("expected one download, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "dict.zip")); err != nil {
		t.Fatalf("cached package missing: %v", err)
	}
}

func TestCLI_BuildMalformedFails(t *testing.T) {
	isolateEnv(t)
	pkg := testutil.MakeZip(t, "dict.zip", testutil.Member{Name: "bad.json", Body: "{"})
	_, _, err := run(t, "build", "--input", pkg, "--out", filepath.Join(t.TempDir(), "dict.db"))
	if !errors.Is(err, lexicon.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestCLI_Errors(t *testing.T) {
	isolateEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.db")

	if _, _, err := run(t, "lookup", "--db", missing); err == nil {
		t.Error("lookup without words should fail")
	}
	if _, _, err := run(t, "lookup", "--db", missing, "사랑"); err == nil {
		t.Error("lookup on a missing store should fail")
	}
	if _, _, err := run(t, "stats", "--db", missing); err == nil {
		t.Error("stats on a missing store should fail")
	}
	if _, _, err := run(t, "build", "--input", "dict.rar", "--out", filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Error("build with an unsupported package should fail")
	}
	if _, _, err := run(t, "build", "--max", "-1", "--input", "dict.zip"); err == nil {
		t.Error("negative --max should fail")
	}
}

func TestCLI_Version(t *testing.T) {
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, tokenize.Version()) {
		t.Fatalf("version output %q missing %s", out, tokenize.Version())
	}
}

func TestCLI_Similar(t *testing.T) {
	isolateEnv(t)
	pkg := testutil.MakeZip(t, "dict.zip",
		testutil.Member{Name: "1.json", Body: testutil.WordsDocument("사과", "포도")},
	)
	dbPath := filepath.Join(t.TempDir(), "dict.db")
	if _, _, err := run(t, "build", "--input", pkg, "--out", dbPath); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	out, _, err := run(t, "similar", "--db", dbPath, "사과", "포도")
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	// Tokens {사과, 뜻풀이} vs {포도, 뜻풀이} share one of three.
	want := fmt.Sprintf("%.4f", 1-math.Exp(-3*similarity.BaseWeight/3))
	for _, s := range []string{"Score", "사과", "포도", "0.3333", want} {
		if !strings.Contains(out, s) {
			t.Fatalf("similar output missing %q:\n%s", s, out)
		}
	}

	if _, _, err := run(t, "similar", "--db", dbPath, "사과"); err == nil {
		t.Error("similar with one word should fail")
	}
	if _, _, err := run(t, "similar", "--db", dbPath, "사과", "없는말"); err == nil {
		t.Error("similar with an unknown word should fail")
	}
}
