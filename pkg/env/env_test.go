package env

import "testing"

func TestGetTrimsAndFallsBack(t *testing.T) {
	if got := Get("EMPORIUM_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	t.Setenv("EMPORIUM_TEST_VALUE", "  console  ")
	if got := Get("EMPORIUM_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}

	t.Setenv("EMPORIUM_TEST_VALUE", "   ")
	if got := Get("EMPORIUM_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("blank value should fall back, got %q", got)
	}
}

func TestBoolParsing(t *testing.T) {
	if !Bool("EMPORIUM_TEST_UNSET_BOOL", true) {
		t.Fatal("expected fallback for unset key")
	}

	t.Setenv("EMPORIUM_TEST_BOOL", "1")
	if !Bool("EMPORIUM_TEST_BOOL", false) {
		t.Fatal("expected true for \"1\"")
	}

	t.Setenv("EMPORIUM_TEST_BOOL", "banana")
	if Bool("EMPORIUM_TEST_BOOL", false) {
		t.Fatal("expected fallback for unparsable value")
	}
}
