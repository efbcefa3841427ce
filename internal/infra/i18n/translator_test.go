//go:build !integration

package i18n

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	// Arrange
	translator, err := newTranslatorFromBytes([]byte("greeting: hola\nwelcome_user: hola %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "hola" {
			t.Errorf("wanted 'hola', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted 'nonexistent_key', got '%s'", got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got := translator.T("welcome_user", "Ana"); got != "hola Ana" {
			t.Errorf("wanted 'hola Ana', got '%s'", got)
		}
	})
}

func TestBundle(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/es.yaml": {Data: []byte("hi: hola")},
		"locales/en.yaml": {Data: []byte("hi: hello")},
	}
	b, err := NewBundle(fsys, "es", "en")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}

	cases := []struct {
		header string
		want   string
	}{
		{"", "hola"},
		{"en", "hello"},
		{"en-US,en;q=0.9", "hello"},
		{"fr-FR, en;q=0.5", "hello"},
		{"de", "hola"},
	}
	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			if got := b.For(tc.header).T("hi"); got != tc.want {
				t.Errorf("For(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}

	if _, err := NewBundle(fsys, "es", "pt"); err == nil {
		t.Error("expected an error for a missing locale")
	}
}

func TestEmbeddedLocales(t *testing.T) {
	b, err := NewBundle(LocalesFS, DefaultLang, "en")
	if err != nil {
		t.Fatalf("embedded locales must load: %v", err)
	}
	for _, key := range []string{"banner.warning", "banner.expired", "banner.missing"} {
		for _, lang := range []string{"es", "en"} {
			if got := b.For(lang).T(key, 3); got == key || strings.Contains(got, "%!") {
				t.Errorf("%s/%s: bad translation %q", lang, key, got)
			}
		}
	}
}
