// ABOUTME: Offline model client that returns a canned critique
// ABOUTME: Used for local runs and end-to-end tests without provider credentials

package stub

import (
	"context"

	"conversion-roast-api/core/interfaces"
)

// Name is reported as the result source
const Name = "stub"

// Reply is the canned critique
const Reply = `{"feedback":[
  {"section":"Hero","category":"Clarity","issue":"The headline describes the product instead of the outcome.","suggestion":"Lead with the result the visitor gets.","example":"Ship dashboards your team actually reads","highlightArea":{"x":80,"y":120,"width":860,"height":140}},
  {"section":"Hero","category":"CTAs","issue":"The primary button blends into the background.","suggestion":"Use a high-contrast color and an action verb.","example":"Start free trial"},
  {"section":"Social proof","category":"Trust","issue":"There are no customer logos or testimonials above the fold.","suggestion":"Add recognizable logos below the hero.","example":"Trusted by 2,000+ teams"}
]}`

// Client implements interfaces.ModelClient without network access
type Client struct {
	reply string
}

var _ interfaces.ModelClient = (*Client)(nil)

// NewClient creates a stub returning Reply
func NewClient() *Client {
	return &Client{reply: Reply}
}

// NewClientWithReply creates a stub returning reply
func NewClientWithReply(reply string) *Client {
	return &Client{reply: reply}
}

// Complete returns the canned reply unless ctx is done
func (c *Client) Complete(ctx context.Context, req interfaces.VisionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.reply, nil
}

// Name returns "stub"
func (c *Client) Name() string {
	return Name
}
