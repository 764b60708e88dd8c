package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/questkit/internal/services/builder/app"
)

const rulesYAML = `
classes:
  - name: Fighter
    hit_die: d10
    weapon_proficiencies: [Simple Weapons, Martial Weapons]
races:
  - name: Half-Orc
    ability_bonuses:
      str: 2
items:
  - name: Greataxe
    category: Martial Melee Weapon
    weight: 7
`

const bromJSON = `{"name": "Brom", "race": "Half-Orc", "str": 15, "classes": "Fighter 3", "weapons": "Greataxe"}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, command string, args ...string) Config {
	t.Helper()
	t.Setenv("QUESTKIT_OTEL_ENDPOINT", "")
	dir := t.TempDir()
	return Config{
		App: app.Config{
			RulesPath:  writeFile(t, dir, "rules.yaml", rulesYAML),
			StateKey:   "dndBuilderState",
			KVBackend:  app.BackendBolt,
			BoltPath:   filepath.Join(dir, "questkit.db"),
			SQLitePath: filepath.Join(dir, "questkit.sqlite"),
			Locale:     "en-US",
		},
		Command: command,
		Args:    args,
		Input:   writeFile(t, dir, "brom.json", bromJSON),
	}
}

func run(t *testing.T, cfg Config) string {
	t.Helper()
	var out, errOut bytes.Buffer
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("run %s: %v (stderr %q)", cfg.Command, err, errOut.String())
	}
	return out.String()
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("builder", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"derive"}, func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Command != CommandDerive {
		t.Fatalf("command = %q, want %q", cfg.Command, CommandDerive)
	}
	if cfg.App.StateKey != "dndBuilderState" || cfg.App.KVBackend != app.BackendBolt || cfg.App.HistoryCapacity != 50 {
		t.Fatalf("app config = %+v", cfg.App)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("builder", flag.ContinueOnError)
	lookup := func(key string) (string, bool) {
		switch key {
		case "QUESTKIT_RULES_PATH":
			return "env.yaml", true
		case "QUESTKIT_LOCALE":
			return "pt-BR", true
		default:
			return "", false
		}
	}
	args := []string{"-rules", "flag.json", "-backend", "none", "-in", "build.json", "-json", "decode", "TOKEN"}
	cfg, err := ParseConfig(fs, args, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.App.RulesPath != "flag.json" {
		t.Fatalf("rules path = %q, want flag.json", cfg.App.RulesPath)
	}
	if cfg.App.Locale != "pt-BR" {
		t.Fatalf("locale = %q, want pt-BR", cfg.App.Locale)
	}
	if cfg.App.KVBackend != app.BackendNone || cfg.Input != "build.json" || !cfg.JSON {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Command != CommandDecode || len(cfg.Args) != 1 || cfg.Args[0] != "TOKEN" {
		t.Fatalf("command = %q %v, want decode [TOKEN]", cfg.Command, cfg.Args)
	}
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing command", args: nil},
		{name: "unknown command", args: []string{"publish"}},
		{name: "invalid backend", args: []string{"-backend", "etcd", "derive"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("builder", flag.ContinueOnError)
			fs.SetOutput(&bytes.Buffer{})
			if _, err := ParseConfig(fs, tt.args, func(string) (string, bool) { return "", false }); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunDerive(t *testing.T) {
	got := run(t, testConfig(t, CommandDerive))
	if got != "Brom, level 3 Fighter\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunDeriveLocalizedWithWarnings(t *testing.T) {
	cfg := testConfig(t, CommandDerive)
	cfg.App.Locale = "pt-BR"
	cfg.Input = writeFile(t, t.TempDir(), "input.json", `{"name": "Brom", "race": "Dragonborn", "classes": "Fighter 1"}`)
	got := run(t, cfg)
	if !strings.HasPrefix(got, "Brom, nível 1 Fighter\n") {
		t.Fatalf("output = %q, want localized summary", got)
	}
	if !strings.Contains(got, "- ") || !strings.Contains(got, "Dragonborn") {
		t.Fatalf("output = %q, want unresolved warning", got)
	}
}

func TestRunDeriveJSON(t *testing.T) {
	cfg := testConfig(t, CommandDerive)
	cfg.JSON = true
	var decoded struct {
		Snapshot struct {
			Revision int `json:"revision"`
		} `json:"snapshot"`
		Derived struct {
			Progression struct {
				TotalLevel int `json:"totalLevel"`
			} `json:"progression"`
		} `json:"derived"`
	}
	if err := json.Unmarshal([]byte(run(t, cfg)), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.Snapshot.Revision != 1 {
		t.Fatalf("revision = %d, want 1", decoded.Snapshot.Revision)
	}
}

func TestRunEncodeDecode(t *testing.T) {
	token := strings.TrimSpace(run(t, testConfig(t, CommandEncode)))
	if token == "" {
		t.Fatal("expected token")
	}
	got := run(t, testConfig(t, CommandDecode, token))
	if got != "Brom, level 3 Fighter\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunDecodeRejectsToken(t *testing.T) {
	cfg := testConfig(t, CommandDecode, "not a token!")
	err := Run(context.Background(), cfg, nil, nil)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if got := ExitCode(err); got != 2 {
		t.Fatalf("exit code = %d, want 2", got)
	}
	if got := Describe(err, "en-US"); !strings.Contains(got, "share code") {
		t.Fatalf("message = %q, want share code message", got)
	}
}

func TestRunSaveLoadList(t *testing.T) {
	cfg := testConfig(t, CommandSave)
	if got := run(t, cfg); got != "Saved revision 1\n" {
		t.Fatalf("save output = %q", got)
	}

	cfg.Command = CommandLoad
	cfg.Input = ""
	if got := run(t, cfg); got != "Brom, level 3 Fighter\n" {
		t.Fatalf("load output = %q", got)
	}

	cfg.Command = CommandList
	if got := run(t, cfg); got != "dndBuilderState\tBrom\t3\t1\n" {
		t.Fatalf("list output = %q", got)
	}
}

func TestRunLoadMissing(t *testing.T) {
	cfg := testConfig(t, CommandLoad)
	err := Run(context.Background(), cfg, nil, nil)
	if got := ExitCode(err); got != 3 {
		t.Fatalf("exit code = %d (%v), want 3", got, err)
	}
}

func TestRunRequiresInput(t *testing.T) {
	cfg := testConfig(t, CommandDerive)
	cfg.Input = ""
	if err := Run(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected missing input error")
	}
}
