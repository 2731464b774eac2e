package cleeng

import (
	"context"

	"cleengo/cleeng/entity"
)

// GetPublisher returns the publisher owning the publisher token
func (c *Client) GetPublisher(ctx context.Context) (*entity.Publisher, error) {
	tok, err := c.require("getPublisher", TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "getPublisher", Params{"publisherToken": tok}, entity.NewPublisher())
}

// GetPublisherEmail returns the email of a publisher
func (c *Client) GetPublisherEmail(ctx context.Context, publisherID string) (*entity.PublisherEmail, error) {
	return call(ctx, c, "getPublisherEmail", Params{"publisherId": publisherID}, entity.NewPublisherEmail())
}
