package library_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ptr89/internal/library"
)

const sampleINI = `; functions.ini
[Library]
000: RunScript = &(00 48 ?? ?? ?? ?? 02 4A) ; comment
001: LoadImage =
  0A: Unresolved ; no pattern
010: Static = < FFFFFFFF >
abc: Mixed Case =  AB CD  
not an entry
`

func TestParseINI(t *testing.T) {
	got := library.ParseINI(sampleINI)
	want := []library.Entry{
		{ID: 0x000, Function: "RunScript", Pattern: "&(00 48 ?? ?? ?? ?? 02 4A)"},
		{ID: 0x001, Function: "LoadImage", Pattern: ""},
		{ID: 0x00A, Function: "Unresolved", Pattern: ""},
		{ID: 0x010, Function: "Static", Pattern: "< FFFFFFFF >"},
		{ID: 0xABC, Function: "Mixed Case", Pattern: "AB CD"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseINI:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseINI_CRLF(t *testing.T) {
	got := library.ParseINI("01: A = 11 22\r\n02: B\r\n")
	if len(got) != 2 || got[0].Pattern != "11 22" || got[1].Function != "B" {
		t.Fatalf("got %+v", got)
	}
}

const sampleYAML = `
- id: 0x1
  function: RunScript
  pattern: "&(00 48 ?? ??)"
- id: 16
  function: " Padded "
`

func TestParseYAML(t *testing.T) {
	got, err := library.ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	want := []library.Entry{
		{ID: 1, Function: "RunScript", Pattern: "&(00 48 ?? ??)"},
		{ID: 16, Function: "Padded"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, err := library.ParseYAML([]byte("id: [")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	ini := filepath.Join(dir, "functions.ini")
	yml := filepath.Join(dir, "functions.yaml")
	if err := os.WriteFile(ini, []byte("05: Foo = 11\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yml, []byte("- {id: 5, function: Foo, pattern: '11'}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	l := library.NewLoader(0)
	for _, p := range []string{ini, yml} {
		got, err := l.Load(context.Background(), p)
		if err != nil {
			t.Fatalf("Load(%s): %v", p, err)
		}
		if len(got) != 1 || got[0] != (library.Entry{ID: 5, Function: "Foo", Pattern: "11"}) {
			t.Fatalf("Load(%s) = %+v", p, got)
		}
	}

	if _, err := l.Load(context.Background(), filepath.Join(dir, "missing.ini")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoader_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/functions.ini":
			_, _ = w.Write([]byte("07: Remote = AA BB\n"))
		case "/lib.yml":
			_, _ = w.Write([]byte("- {id: 8, function: RemoteYAML, pattern: CC}\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := library.NewLoader(0)
	got, err := l.Load(context.Background(), srv.URL+"/functions.ini")
	if err != nil {
		t.Fatalf("Load ini: %v", err)
	}
	if len(got) != 1 || got[0].Function != "Remote" || got[0].Pattern != "AA BB" {
		t.Fatalf("ini = %+v", got)
	}

	got, err = l.Load(context.Background(), srv.URL+"/lib.yml?rev=2")
	if err != nil {
		t.Fatalf("Load yaml: %v", err)
	}
	if len(got) != 1 || got[0].ID != 8 {
		t.Fatalf("yaml = %+v", got)
	}

	if _, err := l.Load(context.Background(), srv.URL+"/nope.ini"); err == nil {
		t.Fatal("expected error for 404")
	}
}
