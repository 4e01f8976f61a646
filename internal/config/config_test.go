package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile writes content under dir and fails the test on error.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// unsetAfter removes keys that loadEnvFile may set directly on the process.
func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})
}

// TestLoad_Defaults verifies defaults and the derived calibration path.
func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("UI_PASSWORD", " pw ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != defaultListenAddr || cfg.UIPassword != "pw" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CalibPath != filepath.Join(dir, "calib.json") {
		t.Fatalf("unexpected calib path %q", cfg.CalibPath)
	}
	if cfg.TrackerMode != "front" || cfg.Injector != "auto" || cfg.InjectorRetries != 3 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

// TestLoad_RequiresPassword verifies password mode needs UI_PASSWORD.
func TestLoad_RequiresPassword(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without UI_PASSWORD")
	}
}

// TestLoad_PasswordModeDisabled verifies dev mode skips the password check.
func TestLoad_PasswordModeDisabled(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PASSWORD_MODE", "false")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PasswordMode {
		t.Fatalf("expected password mode disabled")
	}
}

// TestLoad_YAMLThenEnv verifies the environment overrides config.yaml.
func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "listenAddr: \":9000\"\nscreenWidth: 2560\ntrackerMode: TopDown\npinchBuffer: 5\n")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("UI_PASSWORD", "pw")
	t.Setenv("LISTEN_ADDR", ":9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9100" {
		t.Fatalf("expected env to win, got %q", cfg.ListenAddr)
	}
	if cfg.ScreenWidth != 2560 || cfg.ScreenHeight != defaultScreenHeight {
		t.Fatalf("unexpected screen %dx%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if cfg.TrackerMode != "topdown" || cfg.PinchBuffer != 5 {
		t.Fatalf("unexpected tracker settings: %+v", cfg)
	}
}

// TestLoad_EnvFileDoesNotOverride verifies .env only fills unset variables.
func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "# comment\nexport UI_PASSWORD='from-file'\nMONITOR_INDEX=2\n")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("UI_PASSWORD", "from-env")
	unsetAfter(t, "MONITOR_INDEX")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UIPassword != "from-env" {
		t.Fatalf("expected env password, got %q", cfg.UIPassword)
	}
	if cfg.MonitorIndex != 2 {
		t.Fatalf("expected monitor from .env, got %d", cfg.MonitorIndex)
	}
}

// TestLoad_InvalidValues verifies bad settings are rejected.
func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"INJECTOR":      "xdotool",
		"VIEWER_POLICY": "share",
		"TRACKER_MODE":  "sideways",
		"SCREEN_WIDTH":  "0",
		"MONITOR_INDEX": "abc",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("DATA_DIR", t.TempDir())
			t.Setenv("UI_PASSWORD", "pw")
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

// TestParseEnvLine verifies .env line parsing.
func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{line: "A=1", key: "A", value: "1", ok: true},
		{line: "  export B = \"two\" ", key: "B", value: "two", ok: true},
		{line: "C=x=y", key: "C", value: "x=y", ok: true},
		{line: "# comment", ok: false},
		{line: "", ok: false},
		{line: "=nokey", ok: false},
		{line: "novalue", ok: false},
	}
	for _, tc := range cases {
		key, value, ok := parseEnvLine(tc.line)
		if ok != tc.ok || key != tc.key || value != tc.value {
			t.Fatalf("parseEnvLine(%q) = (%q,%q,%v), want (%q,%q,%v)", tc.line, key, value, ok, tc.key, tc.value, tc.ok)
		}
	}
}
