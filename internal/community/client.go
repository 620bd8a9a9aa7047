package community

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/irisvela/kindred/internal/profile"
)

const (
	apiURL    = "https://api.kindred.so/v1"
	userAgent = "irisvela/kindred (iris@vela.dev)"
	// Max value for search per page.
	perPage = "100"
)

// Client talks to the hosted community API: profile search, the seeker's own
// profile and skills, connections, collaboration requests.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

func (c *Client) SearchProfiles(params *SearchParams) (*profile.Profiles, error) {
	return c.search(params)
}

func (c *Client) GetMineProfile() (*profile.Profile, error) {
	return c.getMineProfile()
}

func (c *Client) GetMineSkills() ([]profile.Skill, error) {
	return c.getMineSkills()
}
