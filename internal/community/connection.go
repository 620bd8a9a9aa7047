package community

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

const (
	apiConnectionsPath = "/connections"
	allStatusesActive  = "active"
)

type Connections []*Connection

type Connection struct {
	ID        string
	CreatedAt string `json:"created_at" mapstructure:"created_at"`
	Status    string
	UserID    string `json:"user_id" mapstructure:"user_id"`
}

func (c *Client) GetConnections() (*Connections, error) {
	apiURLConnections := fmt.Sprintf("%s%s", c.APIURL, apiConnectionsPath)

	q := url.Values{}
	// We only care about connections that still stand.
	q.Add("status", allStatusesActive)
	// Set per_page max as possible. It should be faster.
	q.Add("per_page", perPage)

	items, err := c.GetItems(apiURLConnections, q)
	if err != nil {
		return nil, err
	}

	var connections Connections
	if err = mapstructure.Decode(items, &connections); err != nil {
		return nil, err
	}

	return &connections, nil
}

func (c *Connections) UserIDs() []string {
	ids := make([]string, 0, len(*c))

	for _, conn := range *c {
		ids = append(ids, conn.UserID)
	}

	return ids
}

// SendCollabRequest posts a collaboration request from the seeker to the
// candidate with an introduction message.
func (c *Client) SendCollabRequest(candidateID, message string) error {
	apiURLConnections := fmt.Sprintf("%s%s", c.APIURL, apiConnectionsPath)

	data := map[string]string{
		"to_user_id": candidateID,
		"message":    message,
	}

	if err := c.postJSON(apiURLConnections, data); err != nil {
		return err
	}

	return nil
}
