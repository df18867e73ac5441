package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LADDER_DB_PATH", "")
	t.Setenv("BATCH_SIZE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "./data/ladder.db" {
		t.Errorf("DBPath = %q; want default", cfg.DBPath)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d; want %d", cfg.BatchSize, DefaultBatchSize)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q; want 8080", cfg.Port)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LADDER_DB_PATH", "/tmp/other.db")
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/other.db" || cfg.BatchSize != 25 || cfg.Port != "9090" {
		t.Errorf("Load = %+v; want /tmp/other.db, 25, 9090", cfg)
	}
}

func TestLoadRejectsBadBatchSize(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "ten"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv("BATCH_SIZE", c.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted BATCH_SIZE=%q", c.value)
			}
		})
	}
}
