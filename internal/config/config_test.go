package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Review.DefaultProvider != "anthropic" {
		t.Errorf("expected default provider 'anthropic', got %s", cfg.Review.DefaultProvider)
	}
	if len(cfg.Review.Providers) != 4 {
		t.Errorf("expected 4 providers, got %d", len(cfg.Review.Providers))
	}
	if cfg.Render.Font != "微软雅黑" || cfg.Render.FontSize != 21 {
		t.Errorf("unexpected render defaults %+v", cfg.Render)
	}
	if cfg.Check.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Check.Concurrency)
	}

	ollama, ok := cfg.Review.Providers["ollama"]
	if !ok {
		t.Fatal("expected 'ollama' provider in config")
	}
	if ollama.Endpoint != "http://localhost:11434" {
		t.Errorf("unexpected ollama endpoint %s", ollama.Endpoint)
	}
}

func TestConfig_GetProvider(t *testing.T) {
	cfg := DefaultConfig()

	p, ok := cfg.GetProvider("openai")
	if !ok {
		t.Fatal("expected to find 'openai' provider")
	}
	if p.Model != "gpt-4o-mini" {
		t.Errorf("expected model 'gpt-4o-mini', got %s", p.Model)
	}

	if _, ok := cfg.GetProvider("nonexistent"); ok {
		t.Error("expected not to find 'nonexistent' provider")
	}

	p, ok = cfg.GetDefaultProvider()
	if !ok {
		t.Fatal("expected to find default provider")
	}
	if p.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected default provider model %s", p.Model)
	}
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"render.font", "宋体", false},
		{"render.font", " ", true},
		{"render.font_size", "24", false},
		{"render.font_size", "-1", true},
		{"log.mode", "development", false},
		{"log.mode", "verbose", true},
		{"log.level", "debug", false},
		{"log.level", "trace", true},
		{"review.default_provider", "gemini", false},
		{"review.default_provider", "mistral", true},
		{"review.temperature", "0.3", false},
		{"review.temperature", "1.5", true},
		{"review.language", "en", false},
		{"review.language", "ko", true},
		{"check.concurrency", "8", false},
		{"check.concurrency", "zero", true},
		{"unknown.key", "x", true},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			err := DefaultConfig().Set(tc.key, tc.value)
			if (err != nil) != tc.wantErr {
				t.Errorf("Set(%q, %q) error = %v, wantErr %v", tc.key, tc.value, err, tc.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	_ = cfg.Set("render.font_size", "24")
	_ = cfg.Set("review.default_provider", "ollama")
	if cfg.Render.FontSize != 24 || cfg.Review.DefaultProvider != "ollama" {
		t.Errorf("Set did not apply: %+v", cfg)
	}
}

func TestConfig_ReviewSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Review.Providers["openai"] = Provider{APIKey: "sk-test", Model: "gpt-4o", MaxTokens: 2048}
	cfg.Review.Temperature = 0.2

	settings := cfg.ReviewSettings(nil)
	if s := settings["openai"]; s.APIKey != "sk-test" || s.Model != "gpt-4o" {
		t.Errorf("unexpected openai settings %+v", s)
	}

	opts := cfg.ReviewOptions("openai")
	if opts.MaxTokens != 2048 || opts.Temperature != 0.2 || opts.Language != "zh" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewLoaderWithPath(configPath)

	cfg := DefaultConfig()
	cfg.Review.DefaultProvider = "openai"
	cfg.Render.OutputDir = "out"

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after save")
	}

	loaded, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Review.DefaultProvider != "openai" {
		t.Errorf("expected default provider 'openai', got %s", loaded.Review.DefaultProvider)
	}
	if loaded.Render.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got %s", loaded.Render.OutputDir)
	}
	if loaded.Review.Providers["anthropic"].APIKey != "${ANTHROPIC_API_KEY}" {
		t.Error("LoadRaw should keep env references")
	}
}

func TestLoader_LoadNonExistent(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "nonexistent", "config.yaml"))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if cfg.Review.DefaultProvider != "anthropic" {
		t.Errorf("expected default provider 'anthropic', got %s", cfg.Review.DefaultProvider)
	}
	if cfg.Review.Providers["anthropic"].APIKey != "from-env" {
		t.Errorf("default key should expand, got %q", cfg.Review.Providers["anthropic"].APIKey)
	}
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "check:\n  concurrency: 2\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := NewLoaderWithPath(configPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Check.Concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", cfg.Check.Concurrency)
	}
	if cfg.Render.Font != "微软雅黑" {
		t.Errorf("expected default font, got %q", cfg.Render.Font)
	}
}

func TestLoader_ExpandEnvVars(t *testing.T) {
	t.Setenv("LESSONPLAN_TEST_KEY", "sk-from-env")
	t.Setenv("LESSONPLAN_TEST_OUT", "/srv/plans")
	t.Setenv("LESSONPLAN_TEST_MISSING", "")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `render:
  output_dir: ${LESSONPLAN_TEST_OUT}/docx
review:
  default_provider: openai
  providers:
    openai:
      api_key: ${LESSONPLAN_TEST_KEY}
      model: gpt-4o
    gemini:
      api_key: ${LESSONPLAN_TEST_MISSING}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewLoaderWithPath(configPath).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Render.OutputDir; got != "/srv/plans/docx" {
		t.Errorf("output_dir = %q", got)
	}
	p, ok := cfg.GetProvider("openai")
	if !ok || p.APIKey != "sk-from-env" || p.Model != "gpt-4o" {
		t.Errorf("openai provider = %+v, %v", p, ok)
	}
	if g, _ := cfg.GetProvider("gemini"); g.APIKey != "" {
		t.Errorf("unset reference should expand to empty, got %q", g.APIKey)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LESSONPLAN_TEST_FONT", "宋体")
	t.Setenv("LESSONPLAN_TEST_EMPTY", "")

	if got := GetEnvOrDefault("LESSONPLAN_TEST_FONT", "微软雅黑"); got != "宋体" {
		t.Errorf("set variable: got %q", got)
	}
	if got := GetEnvOrDefault("LESSONPLAN_TEST_EMPTY", "微软雅黑"); got != "微软雅黑" {
		t.Errorf("empty variable should fall back, got %q", got)
	}

	for value, want := range map[string]bool{
		"yes": true, "Yes ": true, "1": true, "true": true,
		"no": false, "": false, "2": false, "off": false,
	} {
		t.Setenv("LESSONPLAN_TEST_FLAG", value)
		if got := GetEnvBool("LESSONPLAN_TEST_FLAG"); got != want {
			t.Errorf("GetEnvBool with %q = %v, want %v", value, got, want)
		}
	}
}

func TestNewLoader(t *testing.T) {
	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}

	path := loader.ConfigPath()
	if filepath.Base(path) != ConfigFileName {
		t.Errorf("expected config file name %s, got %s", ConfigFileName, filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ConfigDirName {
		t.Errorf("expected config dir %s, got %s", ConfigDirName, filepath.Dir(path))
	}
}

func TestLoader_Init(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))

	if err := loader.Init(); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after init")
	}
	if err := loader.Init(); err == nil {
		t.Error("expected error when initializing existing config")
	}
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("{{{{invalid yaml"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := NewLoaderWithPath(configPath).Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
