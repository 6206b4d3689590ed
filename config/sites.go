package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrSitesFileNotFound is returned when the sites file does not exist.
var ErrSitesFileNotFound = errors.New("sites file not found")

// SitesFile is the YAML document that tunes site extractors without a
// rebuild, e.g. when a storefront renames its CSS classes.
//
//	sites:
//	  aliexpress:
//	    selectors:
//	      results: ".list--galleryWrapper--new"
//	    timing:
//	      settle_delay: 3s
//	      ready_selector: "input[type=text]"
type SitesFile struct {
	Sites map[string]SiteOverride `yaml:"sites"`
}

// SiteOverride replaces the non-empty fields of a site profile.
type SiteOverride struct {
	SearchURL string           `yaml:"search_url"`
	Disabled  bool             `yaml:"disabled"`
	Selectors SelectorOverride `yaml:"selectors"`
	Timing    TimingOverride   `yaml:"timing"`
}

// SelectorOverride holds CSS selectors for one site.
type SelectorOverride struct {
	SearchInput string `yaml:"search_input"`
	Results     string `yaml:"results"`
	Item        string `yaml:"item"`
	Title       string `yaml:"title"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	ImageAttr   string `yaml:"image_attr"`
}

// TimingOverride holds waits for one site. Durations use Go syntax ("5s").
type TimingOverride struct {
	SettleDelay     Duration `yaml:"settle_delay"`
	ReadySelector   string   `yaml:"ready_selector"`
	InputTimeout    Duration `yaml:"input_timeout"`
	ResultsTimeout  Duration `yaml:"results_timeout"`
	KeyDelay        Duration `yaml:"key_delay"`
	AwaitNavigation *bool    `yaml:"await_navigation"`
}

// Duration is a time.Duration that unmarshals from "1m30s"-style strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadSitesFile reads site overrides from a YAML file.
func LoadSitesFile(path string) (*SitesFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSitesFileNotFound, path)
		}
		return nil, err
	}

	var sf SitesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse sites file %s: %w", path, err)
	}
	if sf.Sites == nil {
		sf.Sites = make(map[string]SiteOverride)
	}
	return &sf, nil
}
