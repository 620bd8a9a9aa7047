package community

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/irisvela/kindred/internal/profile"
)

const (
	mineProfilePath = "/profiles/me"
	mineSkillsPath  = "/profiles/me/skills"
)

func (c *Client) getMineProfile() (*profile.Profile, error) {
	apiURLMine := fmt.Sprintf("%s%s", c.APIURL, mineProfilePath)

	var raw map[string]any
	if err := c.getJSON(apiURLMine, nil, &raw); err != nil {
		return nil, err
	}

	profiles, err := decodeProfiles([]Item{raw})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 || profiles[0] == nil {
		return nil, fmt.Errorf("community api returned no profile")
	}

	return profiles[0], nil
}

func (c *Client) getMineSkills() ([]profile.Skill, error) {
	apiURLSkills := fmt.Sprintf("%s%s", c.APIURL, mineSkillsPath)

	items, err := c.GetItems(apiURLSkills, nil)
	if err != nil {
		return nil, err
	}

	var skills []profile.Skill
	if err = mapstructure.Decode(items, &skills); err != nil {
		return nil, err
	}

	return skills, nil
}
