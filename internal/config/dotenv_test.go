package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PRICE_DB_PATH", "")
	t.Setenv("LOG_LEVEL", "")

	path := writeDotEnv(t, `
# comment

PORT=9090
export PRICE_DB_PATH=/var/lib/scrap/prices.db
LOG_LEVEL="debug"
not a pair
`)

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("PORT"); got != "9090" {
		t.Fatalf("PORT=%q, want %q", got, "9090")
	}
	if got := os.Getenv("PRICE_DB_PATH"); got != "/var/lib/scrap/prices.db" {
		t.Fatalf("PRICE_DB_PATH=%q", got)
	}
	if got := os.Getenv("LOG_LEVEL"); got != "debug" {
		t.Fatalf("LOG_LEVEL=%q, want %q", got, "debug")
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	path := writeDotEnv(t, "KEEP=fromfile\n")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
}

func TestParseDotEnvLine(t *testing.T) {
	cases := []struct {
		line      string
		key, want string
		ok        bool
	}{
		{line: "Q='hello world'", key: "Q", want: "hello world", ok: true},
		{line: `Q="a # b" # note`, key: "Q", want: "a # b", ok: true},
		{line: "Q=plain # trailing", key: "Q", want: "plain", ok: true},
		{line: "Q=a#b", key: "Q", want: "a#b", ok: true},
		{line: "=nokey", ok: false},
		{line: "# Q=1", ok: false},
	}

	for _, tc := range cases {
		k, v, ok := parseDotEnvLine(tc.line)
		if ok != tc.ok {
			t.Fatalf("parseDotEnvLine(%q) ok=%v, want %v", tc.line, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if k != tc.key || v != tc.want {
			t.Fatalf("parseDotEnvLine(%q) = %q=%q, want %q=%q", tc.line, k, v, tc.key, tc.want)
		}
	}
}
