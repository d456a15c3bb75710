package options

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the per-project configuration file.
const ConfigFileName = "reflow.toml"

type fileConfig struct {
	Format formatSection `toml:"format"`
}

type formatSection struct {
	SmartIndent      *string `toml:"smart_indent"`
	OnCloseBrace     *bool   `toml:"on_close_brace"`
	OnSemicolon      *bool   `toml:"on_semicolon"`
	IndentWidth      *int    `toml:"indent_width"`
	UseTabs          *bool   `toml:"use_tabs"`
	IndentCaseLabels *bool   `toml:"indent_case_labels"`
}

// LoadFile reads a reflow.toml and overlays it onto the defaults.
func LoadFile(path string) (Set, error) {
	set := Default()
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return set, err
	}
	if err := applySection(&set, cfg.Format); err != nil {
		return set, err
	}
	return set, nil
}

func applySection(set *Set, sec formatSection) error {
	if sec.SmartIndent != nil {
		style, err := ParseSmartIndentStyle(*sec.SmartIndent)
		if err != nil {
			return err
		}
		set.SmartIndent = style
	}
	if sec.OnCloseBrace != nil {
		set.AutoFormatOnCloseBrace = *sec.OnCloseBrace
	}
	if sec.OnSemicolon != nil {
		set.AutoFormatOnSemicolon = *sec.OnSemicolon
	}
	if sec.IndentWidth != nil && *sec.IndentWidth > 0 {
		set.IndentWidth = *sec.IndentWidth
	}
	if sec.UseTabs != nil {
		set.UseTabs = *sec.UseTabs
	}
	if sec.IndentCaseLabels != nil {
		set.IndentCaseLabels = *sec.IndentCaseLabels
	}
	return nil
}

// Discover walks from the file's directory toward the root looking for a
// reflow.toml. Absence of a config file is not an error: the defaults apply.
func Discover(forPath string) (Set, error) {
	dir := filepath.Dir(forPath)
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return LoadFile(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Default(), err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
