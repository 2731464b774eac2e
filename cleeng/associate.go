package cleeng

import (
	"context"

	"cleengo/cleeng/entity"
)

// GetAssociate returns an associate of the distributor
func (c *Client) GetAssociate(ctx context.Context, associateEmail string) (*entity.Associate, error) {
	tok, err := c.require("getAssociate", TokenDistributor)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "getAssociate", Params{
		"distributorToken": tok,
		"associateEmail":   associateEmail,
	}, entity.NewAssociate())
}

// CreateAssociate registers a new associate
func (c *Client) CreateAssociate(ctx context.Context, data Params) (*entity.Associate, error) {
	tok, err := c.require("createAssociate", TokenDistributor)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "createAssociate", Params{
		"distributorToken": tok,
		"associateData":    data,
	}, entity.NewAssociate())
}

// UpdateAssociate changes an associate
func (c *Client) UpdateAssociate(ctx context.Context, associateEmail string, data Params) (*entity.Associate, error) {
	tok, err := c.require("updateAssociate", TokenDistributor)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "updateAssociate", Params{
		"distributorToken": tok,
		"associateEmail":   associateEmail,
		"associateData":    data,
	}, entity.NewAssociate())
}
