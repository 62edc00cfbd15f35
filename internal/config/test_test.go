package config

import "testing"

func TestLoadTestRequiresSource(t *testing.T) {
	t.Setenv("TEST_POSTGRES_DSN", "")
	t.Setenv("TEST_USE_CONTAINERS", "false")

	if _, err := LoadTest(); err == nil {
		t.Fatal("LoadTest() expected error without DSN or containers")
	}
}

func TestLoadTestContainersOnly(t *testing.T) {
	t.Setenv("TEST_POSTGRES_DSN", "")
	t.Setenv("TEST_USE_CONTAINERS", "true")

	cfg, err := LoadTest()
	if err != nil {
		t.Fatalf("LoadTest() error = %v", err)
	}
	if !cfg.UseContainers {
		t.Fatalf("expected UseContainers, got %+v", cfg)
	}
}
