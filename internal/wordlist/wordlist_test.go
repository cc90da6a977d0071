package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadTerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	content := "# custom vocabulary\n\nvpn | Encrypted tunnel for traffic. | 1\nZERO DAY|Unpatched bug.|3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	terms, err := LoadTerms(path)
	if err != nil {
		t.Fatalf("load terms: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[0].Word != "VPN" || terms[0].Definition != "Encrypted tunnel for traffic." || terms[0].MinLevel != 1 {
		t.Fatalf("unexpected first term: %+v", terms[0])
	}
	if terms[1].Word != "ZERO DAY" || terms[1].MinLevel != 3 {
		t.Fatalf("unexpected second term: %+v", terms[1])
	}
}

func TestLoadTermsReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte("VPN | ok | 1\nBROKEN LINE\n"), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	_, err := LoadTerms(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if got := err.Error(); !strings.HasPrefix(got, "line 2") {
		t.Fatalf("expected line number in error, got %q", got)
	}
}
