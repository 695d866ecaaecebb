package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "sportsgate dev") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	for _, name := range []string{"SPORTSGATE_PORT", "PORT", "SPORTSGATE_UPSTREAM_URL", "SPORTS_API_URL"} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	noEnv := filepath.Join(dir, "none.env")

	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		want    string
	}{
		{
			name: "valid",
			yaml: "server:\n  port: 9100\ncache:\n  ttl: 10s\n",
			want: "Listen: 0.0.0.0:9100",
		},
		{
			name:    "bad yaml",
			yaml:    "server: [\n",
			wantErr: true,
		},
		{
			name:    "out of range",
			yaml:    "server:\n  port: 70000\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			out, err := execute(t, "validate", "--config", path, "--env-file", noEnv)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestValidateCommand_MissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "nope.yaml"),
		"--env-file", filepath.Join(t.TempDir(), "none.env"))
	if err == nil {
		t.Error("expected error for explicitly named missing config")
	}
}
