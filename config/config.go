// Package config loads the presentation content and tuning from YAML and
// applies launch-parameter overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/serenade"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Names are the two people the presentation is about.
type Names struct {
	Yours   string `yaml:"yourName"`
	Partner string `yaml:"partnerName"`
}

// Proposal is the proposal scene text.
type Proposal struct {
	Title    string `yaml:"title"`
	Question string `yaml:"question"`
	Subtitle string `yaml:"subtitle"`
}

// Celebration is the text shown once the answer is given.
type Celebration struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// Memory is one entry of the memories timeline.
type Memory struct {
	Date  string `yaml:"date"`
	Title string `yaml:"title"`
	Desc  string `yaml:"desc"`
}

// Tuning holds the numeric knobs.
type Tuning struct {
	Hearts int     `yaml:"hearts"`
	Petals int     `yaml:"petals"`
	Stars  int     `yaml:"stars"`
	Volume float64 `yaml:"volume"`
	// FadeIn is the gain ramp after a track switch, in seconds.
	FadeIn float64 `yaml:"fadeIn"`
	// Pages is the scrollable content height in viewports.
	Pages  float64 `yaml:"pages"`
	Bloom  bool    `yaml:"bloom"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

// Config is the complete presentation configuration.
type Config struct {
	Names       Names            `yaml:"names"`
	Proposal    Proposal         `yaml:"proposal"`
	Celebration Celebration      `yaml:"celebration"`
	Memories    []Memory         `yaml:"memories"`
	Reasons     []string         `yaml:"loveReasons"`
	Future      []string         `yaml:"future"`
	Playlist    []serenade.Track `yaml:"playlist"`
	Tuning      Tuning           `yaml:"tuning"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Names: Names{Yours: "Rohit", Partner: "Sonam"},
		Proposal: Proposal{
			Title:    "Our Forever",
			Question: "Will You Marry Me?",
			Subtitle: "Click the heart to open",
		},
		Celebration: Celebration{
			Title:   "SHE SAID YES!",
			Message: "Forever starts now",
		},
		Memories: []Memory{
			{Date: "The Beginning", Title: "First Meeting", Desc: "The day our story started"},
			{Date: "Every Day", Title: "Growing Together", Desc: "Every moment with you is a gift"},
		},
		Reasons: []string{
			"Your smile lights up my world",
			"You make every day an adventure",
			"You believe in me",
		},
		Future: []string{"Every sunrise together", "A home full of laughter"},
		Playlist: []serenade.Track{
			{Title: "Can't Help Falling in Love", Artist: "Elvis Presley", Source: "assets/audio/song1.mp3"},
			{Title: "Perfect", Artist: "Ed Sheeran", Source: "assets/audio/song2.mp3"},
			{Title: "All of Me", Artist: "John Legend", Source: "assets/audio/song3.mp3"},
			{Title: "Thinking Out Loud", Artist: "Ed Sheeran", Source: "assets/audio/song4.mp3"},
			{Title: "A Thousand Years", Artist: "Christina Perri", Source: "assets/audio/song5.mp3"},
			{Title: "Love Story", Artist: "Taylor Swift", Source: "assets/audio/song6.mp3"},
		},
		Tuning: Tuning{
			Hearts: serenade.DefaultCounts.Hearts,
			Petals: serenade.DefaultCounts.Petals,
			Stars:  serenade.DefaultCounts.Stars,
			Volume: 0.5,
			FadeIn: serenade.DefaultFadeIn,
			Pages:  6,
			Bloom:  true,
			Width:  1280,
			Height: 720,
		},
	}
}

// Load reads and parses a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML over the defaults and validates the result. Fields
// missing from data keep their default values.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	t := c.Tuning
	if t.Hearts < 0 || t.Petals < 0 || t.Stars < 0 {
		errs = append(errs, fmt.Errorf("particle counts must not be negative: %w", ErrInvalid))
	}
	if t.Volume < 0 || t.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %v outside [0, 1]: %w", t.Volume, ErrInvalid))
	}
	if t.FadeIn < 0 {
		errs = append(errs, fmt.Errorf("fadeIn %v is negative: %w", t.FadeIn, ErrInvalid))
	}
	if t.Pages <= 1 {
		errs = append(errs, fmt.Errorf("pages %v must exceed 1: %w", t.Pages, ErrInvalid))
	}
	if t.Width <= 0 || t.Height <= 0 {
		errs = append(errs, fmt.Errorf("window %dx%d: %w", t.Width, t.Height, ErrInvalid))
	}
	for i, tr := range c.Playlist {
		if tr.Source == "" {
			errs = append(errs, fmt.Errorf("playlist[%d] has no file: %w", i, ErrInvalid))
		}
	}
	return errors.Join(errs...)
}

// Override keys accepted by ApplyOverrides, matching the shareable link
// parameters.
const (
	KeyYourName    = "yourName"
	KeyPartnerName = "partnerName"
	KeyQuestion    = "question"
	KeyMessage     = "message"
	KeyTitle       = "title"
)

// ApplyOverrides replaces display strings from launch parameters. Empty
// values are ignored; unknown keys are reported.
func (c *Config) ApplyOverrides(params map[string]string) error {
	var unknown []string
	for k, v := range params {
		if v == "" {
			continue
		}
		switch k {
		case KeyYourName:
			c.Names.Yours = v
		case KeyPartnerName:
			c.Names.Partner = v
		case KeyQuestion:
			c.Proposal.Question = v
		case KeyMessage:
			c.Proposal.Subtitle = v
		case KeyTitle:
			c.Proposal.Title = v
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown override %s: %w", strings.Join(unknown, ", "), ErrInvalid)
	}
	return nil
}

// ShareArgs renders the customizable strings as command-line flags that
// reproduce this configuration.
func (c *Config) ShareArgs() []string {
	pairs := []struct{ key, val string }{
		{KeyYourName, c.Names.Yours},
		{KeyPartnerName, c.Names.Partner},
		{KeyQuestion, c.Proposal.Question},
		{KeyMessage, c.Proposal.Subtitle},
	}
	var args []string
	for _, p := range pairs {
		if p.val != "" {
			args = append(args, "-"+p.key+"="+strconv.Quote(p.val))
		}
	}
	return args
}

// Counts returns the particle counts.
func (c *Config) Counts() serenade.Counts {
	return serenade.Counts{Hearts: c.Tuning.Hearts, Petals: c.Tuning.Petals, Stars: c.Tuning.Stars}
}

// Panels returns the overlay text for every scene.
func (c *Config) Panels() map[serenade.SceneID]serenade.Panel {
	memories := make([]string, 0, len(c.Memories))
	for _, m := range c.Memories {
		memories = append(memories, fmt.Sprintf("%s  %s: %s", m.Date, m.Title, m.Desc))
	}
	reasons := make([]string, 0, len(c.Reasons))
	for i, r := range c.Reasons {
		reasons = append(reasons, fmt.Sprintf("%d. %s", i+1, r))
	}
	return map[serenade.SceneID]serenade.Panel{
		serenade.SceneEntry:    {Title: c.Names.Yours + " & " + c.Names.Partner, Lines: []string{c.Proposal.Title}},
		serenade.SceneMemories: {Title: "Our Memories", Lines: memories},
		serenade.SceneReasons:  {Title: "Why I Love You", Lines: reasons},
		serenade.SceneFuture:   {Title: "Our Future", Lines: c.Future},
		serenade.SceneProposal: {Title: c.Proposal.Question, Lines: []string{c.Proposal.Subtitle}},
		serenade.SceneResponse: {Title: c.Proposal.Question, Lines: []string{"[Y] Yes!"}},
	}
}

// CelebrationText returns the banner shown during the celebration.
func (c *Config) CelebrationText() string {
	if c.Celebration.Message == "" {
		return c.Celebration.Title
	}
	return c.Celebration.Title + "\n" + c.Celebration.Message
}
