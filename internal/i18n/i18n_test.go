package i18n

import "testing"

func TestInitAndLanguages(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("GetLang() = %q, want en", GetLang())
	}

	langs := map[string]bool{}
	for _, l := range Languages() {
		langs[l] = true
	}
	for _, want := range []string{"en", "ar"} {
		if !langs[want] {
			t.Errorf("catalog %q not loaded, have %v", want, Languages())
		}
	}
}

func TestT(t *testing.T) {
	Init("en")
	if got := T("unknown"); got != "Unknown" {
		t.Errorf("T(unknown) = %q", got)
	}
	if got := T("bulk.summary", "b1", 3, 1); got != "Batch b1: 3 created, 1 failed" {
		t.Errorf("T(bulk.summary) = %q", got)
	}
	if got := T("no.such.message"); got != "no.such.message" {
		t.Errorf("T(missing) = %q", got)
	}

	SetLang("ar")
	defer SetLang("en")
	if got := T("unknown"); got != "غير معروف" {
		t.Errorf("T(unknown) in ar = %q", got)
	}
	if got := T("bulk.status.created"); got != "تم الإنشاء" {
		t.Errorf("T(bulk.status.created) in ar = %q", got)
	}
}

func TestT_FallsBackToEnglish(t *testing.T) {
	SetLang("fr")
	defer SetLang("en")
	if got := T("done"); got != "Done" {
		t.Errorf("T(done) in fr = %q, want English fallback", got)
	}
}
