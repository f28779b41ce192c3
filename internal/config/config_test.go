package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxLines != 500 {
		t.Errorf("MaxLines = %d, want 500", cfg.MaxLines)
	}
	if cfg.SourceType != SourceNone {
		t.Errorf("SourceType = %q, want none", cfg.SourceType)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{MaxLines: 500}, false},
		{"file", Config{SourceType: SourceFile, FilePath: "/var/log/syslog", MaxLines: 100}, false},
		{"journal", Config{SourceType: SourceJournal, JournalUnit: "sshd", MaxLines: 100}, false},
		{"journal no unit", Config{SourceType: SourceJournal, MaxLines: 100}, false},
		{"file missing path", Config{SourceType: SourceFile, MaxLines: 100}, true},
		{"bad type", Config{SourceType: "syslog", MaxLines: 100}, true},
		{"zero maxLines", Config{SourceType: SourceFile, FilePath: "/x", MaxLines: 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logtail.json")
	os.WriteFile(path, []byte(`{
  "sourceType": "journalctl",
  "journalUnit": "nginx.service",
  "maxLines": 1000
}`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SourceType != SourceJournal || cfg.JournalUnit != "nginx.service" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.MaxLines != 1000 {
		t.Errorf("MaxLines = %d, want 1000", cfg.MaxLines)
	}
}

func TestLoadAppliesDefaultMaxLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logtail.json")
	os.WriteFile(path, []byte(`{"sourceType": "file", "filePath": "/var/log/syslog"}`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxLines != 500 {
		t.Errorf("MaxLines = %d, want default 500", cfg.MaxLines)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logtail.json")
	os.WriteFile(path, []byte(`{"sourceType": "file"}`), 0644)

	if _, err := Load(path); err == nil {
		t.Error("expected error for file source without filePath")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/logtail.json"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logtail.json")

	want := Config{SourceType: SourceFile, FilePath: "/var/log/app.log", MaxLines: 250}
	if err := want.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
