package ua

import "testing"

const chromeWin = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

func TestParse_Desktop(t *testing.T) {
	i := Parse(chromeWin)
	if i.Browser != "Chrome" || i.OS != "Windows" || i.Device != "Desktop" {
		t.Fatalf("unexpected parse: %+v", i)
	}
	if i.IsBot {
		t.Fatal("chrome flagged as bot")
	}
	if i.Summary() == "" {
		t.Fatal("empty summary")
	}
}

func TestParse_Bot(t *testing.T) {
	if !Parse("Googlebot/2.1 (+http://www.google.com/bot.html)").IsBot {
		t.Fatal("googlebot not detected")
	}
}

func TestSummary_Empty(t *testing.T) {
	if s := Parse("").Summary(); s != "" {
		t.Fatalf("summary of empty UA = %q", s)
	}
}

func TestVersionToString(t *testing.T) {
	i := Parse(chromeWin)
	if i.Version != "125" {
		t.Fatalf("version = %q", i.Version)
	}
}
