package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadMissingFile: отсутствие файла не ошибка, работают значения по умолчанию.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("ожидался порт по умолчанию 8080, получено %s", cfg.Server.Port)
	}
	if cfg.Engine.MinRelevanceThreshold != 0.1 {
		t.Fatalf("ожидался порог релевантности по умолчанию 0.1, получено %v", cfg.Engine.MinRelevanceThreshold)
	}
}

// TestLoadFileAndEnv: файл переопределяет значения по умолчанию,
// переменные окружения переопределяют файл.
func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9000"
auth:
  jwt_secret: from-file
engine:
  min_relevance_threshold: 0.25
  workers: 4
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("запись файла: %v", err)
	}

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("порт из файла: ожидалось 9000, получено %s", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("окружение должно переопределять файл, получено %s", cfg.Auth.JWTSecret)
	}
	if cfg.Engine.MinRelevanceThreshold != 0.25 {
		t.Fatalf("порог из файла: ожидалось 0.25, получено %v", cfg.Engine.MinRelevanceThreshold)
	}
	if cfg.Engine.Workers != 4 {
		t.Fatalf("число воркеров из файла: ожидалось 4, получено %d", cfg.Engine.Workers)
	}
}

// TestLoadBadYAML: синтаксическая ошибка в файле должна быть видимой, а не тихой.
func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o644); err != nil {
		t.Fatalf("запись файла: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("ожидалась ошибка разбора YAML")
	}
}
