// Package profile loads the TOML-described vocabulary a wislex session
// evaluates against, mirroring the way the teacher loads world and save
// data through BurntSushi/toml in the teacher repository.
package profile

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// RuleDef is one entry of a Profile: a fixed sequence of words that,
// typed in order, produces Reply.
type RuleDef struct {
	Words []string `toml:"words"`
	Reply string   `toml:"reply"`
}

// Profile is the top-level shape of a wislex grammar-profile file.
type Profile struct {
	TabWidth int       `toml:"tab_width"`
	Rules    []RuleDef `toml:"rules"`
}

// Default is used when no profile file is supplied on the command line.
func Default() Profile {
	return Profile{
		TabWidth: 4,
		Rules: []RuleDef{
			{Words: []string{"hello"}, Reply: "hi there!"},
			{Words: []string{"good", "morning"}, Reply: "good morning to you too."},
			{Words: []string{"good", "night"}, Reply: "sleep well."},
			{Words: []string{"bye"}, Reply: "farewell."},
		},
	}
}

// Load reads and parses a Profile from a TOML file at path.
func Load(path string) (Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("load profile %q: %w", path, err)
	}
	if p.TabWidth == 0 {
		p.TabWidth = 4
	}
	return p, nil
}
