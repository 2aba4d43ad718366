package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

type Company struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type CareerPage struct {
	Name   string            `yaml:"name"`
	URL    string            `yaml:"url"`
	Params map[string]string `yaml:"params,omitempty"`
}

type BoardSource struct {
	Enabled  bool `yaml:"enabled"`
	MaxPages int  `yaml:"max_pages"`
	// Queries overrides search.queries for this board.
	Queries []string `yaml:"queries,omitempty"`
}

type ATSSource struct {
	Enabled   bool      `yaml:"enabled"`
	Companies []Company `yaml:"companies"`
}

type Config struct {
	App struct {
		Port      int    `yaml:"port"`
		DataDir   string `yaml:"data_dir"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"app"`

	Polling struct {
		ScrapeMinutes        int     `yaml:"scrape_minutes"`
		SourceTimeoutSeconds int     `yaml:"source_timeout_seconds"`
		HTTPTimeoutSeconds   int     `yaml:"http_timeout_seconds"`
		RequestsPerSecond    float64 `yaml:"requests_per_second"`
	} `yaml:"polling"`

	Search struct {
		Queries     []string `yaml:"queries"`
		Location    string   `yaml:"location"`
		TargetRoles []string `yaml:"target_roles"`
	} `yaml:"search"`

	// Empty lists fall back to the built-in keyword lists.
	Classifier struct {
		Negative []string `yaml:"negative"`
		Positive []string `yaml:"positive"`
		Strong   []string `yaml:"strong"`
		// KeywordsFile is a JSON5 file whose lists are appended to the
		// ones above. Relative paths resolve against the config file.
		KeywordsFile string `yaml:"keywords_file,omitempty"`
	} `yaml:"classifier"`

	Filters struct {
		RecentOnly     bool     `yaml:"recent_only"`
		SponsorsOnly   bool     `yaml:"sponsors_only"`
		LocationsBlock []string `yaml:"locations_block"`
		RetentionDays  int      `yaml:"retention_days"`
	} `yaml:"filters"`

	Sources struct {
		Indeed       BoardSource `yaml:"indeed"`
		Glassdoor    BoardSource `yaml:"glassdoor"`
		ZipRecruiter BoardSource `yaml:"ziprecruiter"`
		Dice         BoardSource `yaml:"dice"`
		IndeedRSS    struct {
			Enabled bool     `yaml:"enabled"`
			Terms   []string `yaml:"terms"`
		} `yaml:"indeed_rss"`
		Careers struct {
			Enabled   bool         `yaml:"enabled"`
			Companies []CareerPage `yaml:"companies"`
		} `yaml:"careers"`
		MyVisaJobs struct {
			Enabled   bool     `yaml:"enabled"`
			MinSalary int      `yaml:"min_salary"`
			JobTitles []string `yaml:"job_titles"`
			MaxTitles int      `yaml:"max_titles"`
		} `yaml:"myvisajobs"`
		Greenhouse      ATSSource `yaml:"greenhouse"`
		Lever           ATSSource `yaml:"lever"`
		SmartRecruiters ATSSource `yaml:"smartrecruiters"`
		// Workday slugs are full board URLs.
		Workday ATSSource `yaml:"workday"`
	} `yaml:"sources"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailbox          string   `yaml:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any"`
		LookbackDays     int      `yaml:"lookback_days"`
		// AppPassword comes from the OS keychain, never from YAML.
		AppPassword string `yaml:"-" json:"-"`
	} `yaml:"email"`

	Telegram struct {
		Enabled bool  `yaml:"enabled"`
		ChatID  int64 `yaml:"chat_id"`
		// high | medium
		MinConfidence string `yaml:"min_confidence"`
		BotToken      string `yaml:"-" json:"-"`
	} `yaml:"telegram"`
}

// Load reads path over Default(), so keys missing from the file keep their
// default values. A sibling <name>.local.<ext> is merged on top, then the
// classifier keyword file is read. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := mergeLocal(&cfg, LocalPath(path)); err != nil {
		return cfg, err
	}
	if f := cfg.Classifier.KeywordsFile; f != "" {
		if !filepath.IsAbs(f) {
			f = filepath.Join(filepath.Dir(path), f)
		}
		kw, err := LoadKeywords(f)
		if err != nil {
			return cfg, err
		}
		cfg.Classifier.Negative = append(cfg.Classifier.Negative, kw.Negative...)
		cfg.Classifier.Positive = append(cfg.Classifier.Positive, kw.Positive...)
		cfg.Classifier.Strong = append(cfg.Classifier.Strong, kw.Strong...)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LocalPath maps config.yml to config.local.yml.
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// mergeLocal overlays the machine-local file. Only non-zero values in it
// take effect, so it cannot switch a source off; use config.yml for that.
func mergeLocal(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var local Config
	if err := yaml.Unmarshal(b, &local); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := mergo.Merge(cfg, local, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge %s: %w", path, err)
	}
	log.Printf("[config] merged local overrides from %s", path)
	return nil
}

// ApplyEnv copies H1BHUNT_* and TELEGRAM_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("H1BHUNT_DATA_DIR")); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("H1BHUNT_OUTPUT_DIR")); v != "" {
		cfg.App.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.New("TELEGRAM_CHAT_ID must be an integer")
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}
