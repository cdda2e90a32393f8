// ABOUTME: Tests for the save command and payload decoding
// ABOUTME: Saves through stdin and files into a temp vault

package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const dockerPayload = `{
  "id": "c1",
  "platform": "claude",
  "title": "Docker networking",
  "url": "https://claude.ai/chat/c1",
  "messages": [
    {"role": "user", "content": "How do I expose a docker container port to the host machine?"},
    {"role": "assistant", "content": "Publish it with docker run -p 8080:80 so host port 8080 maps to container port 80."}
  ]
}`

const breadPayload = `{
  "id": "c2",
  "platform": "chatgpt",
  "title": "Sourdough starter",
  "messages": [
    {"role": "user", "content": "Why is my sourdough starter not rising anymore?"},
    {"role": "assistant", "content": "Feed it at a warmer temperature and use whole wheat flour for a few days."}
  ]
}`

func TestNewSaveCmd(t *testing.T) {
	cmd := NewSaveCmd()

	if cmd.Use != "save" {
		t.Errorf("Use = %q, want %q", cmd.Use, "save")
	}
	if cmd.Flags().Lookup("file") == nil {
		t.Error("--file flag not found")
	}
	if !strings.Contains(cmd.Long, "is_auto_saved") {
		t.Error("Long description should explain is_auto_saved")
	}
}

func TestDecodePayloads(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"single object", dockerPayload, 1, false},
		{"array", "[" + dockerPayload + "," + breadPayload + "]", 2, false},
		{"leading whitespace", "\n\t " + dockerPayload, 1, false},
		{"empty", "   ", 0, true},
		{"malformed", `{"id": `, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePayloads([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodePayloads() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("decodePayloads() returned %d payloads, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSave_FromStdin(t *testing.T) {
	setupVault(t)

	out, err := runCLI(t, dockerPayload, "save")
	if err != nil {
		t.Fatalf("save error = %v", err)
	}
	if !strings.Contains(out, "Saved c1") || !strings.Contains(out, "1 nuggets") {
		t.Errorf("unexpected save output %q", out)
	}
}

func TestSave_FromFileJSONOutput(t *testing.T) {
	dir := setupVault(t)
	path := filepath.Join(dir, "batch.json")
	if err := os.WriteFile(path, []byte("["+dockerPayload+","+breadPayload+"]"), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "--format", "json", "save", "--file", path)
	if err != nil {
		t.Fatalf("save error = %v", err)
	}

	var results []map[string]any
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[1]["id"] != "c2" || results[1]["messages"] != float64(2) {
		t.Errorf("second result = %v", results[1])
	}
}

func TestSave_RejectsInvalidPayload(t *testing.T) {
	setupVault(t)

	if _, err := runCLI(t, `{"platform": "claude", "messages": []}`, "save"); err == nil {
		t.Error("payload without id should fail")
	}
	bad := `{"id": "x", "messages": [{"role": "system", "content": "hi"}]}`
	if _, err := runCLI(t, bad, "save"); err == nil {
		t.Error("payload with an unknown role should fail")
	}
}

func TestSave_AutoSaveDisabled(t *testing.T) {
	setupVault(t)

	if _, err := runCLI(t, "", "settings", "set", "auto_save", "false"); err != nil {
		t.Fatalf("settings set error = %v", err)
	}

	auto := strings.Replace(dockerPayload, `"id": "c1",`, `"id": "c1", "is_auto_saved": true,`, 1)
	out, err := runCLI(t, auto, "save")
	if err != nil {
		t.Fatalf("save error = %v", err)
	}
	if !strings.Contains(out, "Skipped c1") {
		t.Errorf("auto-saved payload should be skipped, got %q", out)
	}

	if _, err := runCLI(t, "", "get", "c1"); err == nil {
		t.Error("skipped conversation should not be stored")
	}

	manual := strings.Replace(dockerPayload, `"id": "c1",`, `"id": "c1", "is_auto_saved": false,`, 1)
	if _, err := runCLI(t, manual, "save"); err != nil {
		t.Fatalf("manual save error = %v", err)
	}
	if _, err := runCLI(t, "", "get", "c1"); err != nil {
		t.Errorf("manual save should be stored: %v", err)
	}
}
