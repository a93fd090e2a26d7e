package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/byebyeanxiety/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		dataDir, logFile, verbose, configForce, checkOnly = "", "", false, false, false
		chatPersona, chatType, chatConversation = "anxiety_killer", "free", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "byebye vdev\n" {
		t.Errorf("out = %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvGeminiAPIKey, "secret")

	out, err := execute(t, "config", "init", "--data-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, filepath.Join(dir, config.FileName)) {
		t.Errorf("out = %q", out)
	}
	if _, err := execute(t, "config", "init", "--data-dir", dir); err == nil {
		t.Error("expected error when the file exists")
	}

	out, err = execute(t, "config", "show", "--data-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "secret") || !strings.Contains(out, "***") {
		t.Errorf("key not masked: %q", out)
	}
}

func TestChat_MockReply(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvUseMockLLM, "true")

	out, err := execute(t, "chat", "--data-dir", dir, "feeling", "stuck")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `I hear you: "feeling stuck"`) {
		t.Errorf("out = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "byebye.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestChat_BadPersona(t *testing.T) {
	_, err := execute(t, "chat", "--data-dir", t.TempDir(), "--persona", "oracle", "hi")
	if err == nil {
		t.Fatal("expected error for unknown persona")
	}
}
