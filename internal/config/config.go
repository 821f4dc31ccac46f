package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all manuscript-match configuration.
type Config struct {
	ManuscriptDir string `toml:"manuscript_dir"`
	Manifest      string `toml:"manifest"`
	OutputDir     string `toml:"output_dir"`

	Analysis AnalysisConfig `toml:"analysis"`
	Weights  WeightsConfig  `toml:"weights"`
	Speaker  SpeakerConfig  `toml:"speaker"`
	Dialogue DialogueConfig `toml:"dialogue"`
	Lexicon  LexiconConfig  `toml:"lexicon"`
	Parts    PartsConfig    `toml:"manifest_parts"`
	Report   ReportConfig   `toml:"report"`
	Logging  LoggingConfig  `toml:"logging"`
}

// AnalysisConfig sizes the match and keyword lists and the worker pool.
// Workers bounds the profiling and matching pools.
type AnalysisConfig struct {
	MatchTopN             int `toml:"match_top_n"`
	KeywordTopN           int `toml:"keyword_top_n"`
	ReportKeywordTopN     int `toml:"report_keyword_top_n"`
	ReportDialogueSamples int `toml:"report_dialogue_samples"`
	Workers               int `toml:"workers"`
}

// WeightsConfig holds the composite-score weights. They must sum to 1.0.
type WeightsConfig struct {
	Keyword  float64 `toml:"keyword"`
	Dialogue float64 `toml:"dialogue"`
	Location float64 `toml:"location"`
	Theme    float64 `toml:"theme"`
	Emotion  float64 `toml:"emotion"`
}

// Sum returns the total of all weights.
func (w WeightsConfig) Sum() float64 {
	return w.Keyword + w.Dialogue + w.Location + w.Theme + w.Emotion
}

// SpeakerConfig drives the local-context speaker heuristics.
// Endearments and Topics are keyed by speaker label (male, female, other).
type SpeakerConfig struct {
	Window              int                 `toml:"window"`
	SpeechVerbGap       int                 `toml:"speech_verb_gap"`
	MalePronoun         string              `toml:"male_pronoun"`
	FemalePronoun       string              `toml:"female_pronoun"`
	PluralMarker        string              `toml:"plural_marker"`
	SpeechVerbs         []string            `toml:"speech_verbs"`
	NonSpeechCompounds  []string            `toml:"non_speech_compounds"`
	SentenceTerminators string              `toml:"sentence_terminators"`
	Endearments         map[string][]string `toml:"endearments"`
	Topics              map[string][]string `toml:"topics"`
}

// DialogueConfig holds the denylists used to reject non-dialogue quotes.
type DialogueConfig struct {
	MinLength           int      `toml:"min_length"`
	LyricPatterns       []string `toml:"lyric_patterns"`
	NonDialoguePhrases  []string `toml:"non_dialogue_phrases"`
	NonDialoguePrefixes []string `toml:"non_dialogue_prefixes"`
	MonologueMarkers    []string `toml:"monologue_markers"`
}

// LexiconConfig holds the vocabularies for keyword, location and tone extraction.
type LexiconConfig struct {
	Stopwords         []string            `toml:"stopwords"`
	Locations         []string            `toml:"locations"`
	EmotionCategories []string            `toml:"emotion_categories"`
	Emotions          map[string][]string `toml:"emotions"`
	EmotionSaturation float64             `toml:"emotion_saturation"`
}

// PartsConfig names the table-of-contents parts that classify documents.
type PartsConfig struct {
	Fragment string `toml:"fragment"`
	MainText string `toml:"main_text"`
}

// ReportConfig selects the report formats written and whether each run is
// archived and recorded in the history database.
type ReportConfig struct {
	Formats []string `toml:"formats"`
	Archive bool     `toml:"archive"`
	History bool     `toml:"history"`
}

// LoggingConfig sets the log level. An empty File logs to stderr.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ManuscriptDir: "~/manuscript/jupyterbook",
		Manifest:      "_toc.yml",
		OutputDir:     "~/manuscript/write_analysis",
		Analysis: AnalysisConfig{
			MatchTopN:             3,
			KeywordTopN:           10,
			ReportKeywordTopN:     5,
			ReportDialogueSamples: 5,
			Workers:               4,
		},
		Weights: WeightsConfig{
			Keyword:  0.25,
			Dialogue: 0.15,
			Location: 0.25,
			Theme:    0.15,
			Emotion:  0.20,
		},
		Speaker:  defaultSpeaker(),
		Dialogue: defaultDialogue(),
		Lexicon:  defaultLexicon(),
		Parts: PartsConfig{
			Fragment: "片段",
			MainText: "正文",
		},
		Report: ReportConfig{
			Formats: []string{"json", "yaml"},
			Archive: true,
			History: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads config from path, or from the standard paths when path is empty,
// falling back to defaults. Environment overrides are applied last and the
// result is validated.
func Load(path string) (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("MM_CONFIG")
	}

	if path != "" {
		if _, err := toml.DecodeFile(expandHome(path), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else {
		for _, p := range configPaths() {
			if _, err := os.Stat(p); err == nil {
				if _, err := toml.DecodeFile(p, &cfg); err != nil {
					return cfg, fmt.Errorf("parse config %s: %w", p, err)
				}
				break
			}
		}
	}

	applyEnv(&cfg)

	cfg.ManuscriptDir = expandHome(cfg.ManuscriptDir)
	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MM_MANUSCRIPT_DIR"); v != "" {
		cfg.ManuscriptDir = v
	}
	if v := os.Getenv("MM_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("MM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "manuscript-match", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "manuscript-match", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ManifestPath returns the absolute table-of-contents path.
func (c Config) ManifestPath() string {
	if filepath.IsAbs(c.Manifest) {
		return c.Manifest
	}
	return filepath.Join(c.ManuscriptDir, c.Manifest)
}

// ArchiveDir returns the directory holding compressed report snapshots.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.OutputDir, "archive")
}

// HistoryPath returns the run history database path.
func (c Config) HistoryPath() string {
	return filepath.Join(c.OutputDir, ".manuscript-match", "history.db")
}
