package community

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/irisvela/kindred/internal/profile"
)

const (
	SearchPath = "/profiles"
)

type SearchParams struct {
	Text string `yaml:"text"`
	// cparam is a custom tag for reflect. Please see below.
	Skills     []string `cparam:"skill"`
	Values     []string `cparam:"value"`
	Intentions []string `cparam:"intention"`
	OrderBy    string   `yaml:"order_by" mapstructure:"order_by"`
	PerPage    string   `yaml:"per_page" mapstructure:"per_page"`
	// Period limits results to members active within the given number of days.
	Period uint `yaml:"period"`
}

func (c *Client) search(params *SearchParams) (*profile.Profiles, error) {
	// Set per_page max as possible. It should be faster.
	if params.PerPage == "" {
		params.PerPage = perPage
	}

	q := buildParams(params)
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(apiURLSearch, q)
	if err != nil {
		return nil, err
	}

	profiles, err := decodeProfiles(items)
	if err != nil {
		return nil, err
	}

	return &profile.Profiles{
		Items: profiles,
	}, nil
}

// decodeProfiles maps raw API items onto profile records. Timestamps arrive
// as RFC3339 strings and need an explicit decode hook.
func decodeProfiles(items []Item) ([]*profile.Profile, error) {
	var profiles []*profile.Profile

	cfg := &mapstructure.DecoderConfig{
		Metadata:   nil,
		Result:     &profiles,
		TagName:    "json",
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	return profiles, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("cparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		kind := field.Type.Kind()
		switch kind {
		case reflect.Slice:

			s := reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface()
			switch v := s.(type) {
			case []int:
				for _, value := range v {
					q.Add(key, strconv.Itoa(value))
				}

			case []string:
				for _, value := range v {
					q.Add(key, value)
				}
			}

		default:
			value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface())
			if value != "" && value != "0" {
				q.Set(key, value)
			}
		}
	}

	return q
}
