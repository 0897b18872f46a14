package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "enchanted_tales_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Upload.MaxFileBytes != 10*1024*1024 {
		t.Fatalf("unexpected upload size default: %d", cfg.Upload.MaxFileBytes)
	}
	if cfg.Upload.MaxFiles != 10 {
		t.Fatalf("unexpected upload file count default: %d", cfg.Upload.MaxFiles)
	}
	if cfg.Server.Port == "" {
		t.Fatalf("server port default missing")
	}
}
