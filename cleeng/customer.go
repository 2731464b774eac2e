package cleeng

import (
	"context"

	"cleengo/cleeng/entity"
)

// GetCustomer returns the customer identified by the customer token
func (c *Client) GetCustomer(ctx context.Context) (*entity.Customer, error) {
	return call(ctx, c, "getCustomer", Params{
		"customerToken": c.CustomerToken(),
	}, entity.NewCustomer())
}

// GetCustomerEmail returns the email of the current customer
func (c *Client) GetCustomerEmail(ctx context.Context) (*entity.CustomerEmail, error) {
	return call(ctx, c, "getCustomerEmail", Params{
		"publisherToken": c.PublisherToken(),
		"customerToken":  c.CustomerToken(),
	}, entity.NewCustomerEmail())
}

// TrackOfferImpression records that an offer was shown. The customer token
// is sent only when one is available.
func (c *Client) TrackOfferImpression(ctx context.Context, offerID, ipAddress string) (*entity.OperationStatus, error) {
	params := Params{"offerId": offerID, "ipAddress": ipAddress}
	if tok := c.CustomerToken(); tok != "" {
		params["customerToken"] = tok
	}
	return call(ctx, c, "trackOfferImpression", params, entity.NewOperationStatus())
}

// GetAccessStatus returns the access status of the current customer for
// an offer
func (c *Client) GetAccessStatus(ctx context.Context, offerID, ipAddress string) (*entity.AccessStatus, error) {
	return call(ctx, c, "getAccessStatus", Params{
		"customerToken": c.CustomerToken(),
		"offerId":       offerID,
		"ipAddress":     ipAddress,
	}, entity.NewAccessStatus())
}

// IsAccessGranted reports whether the current customer may access an
// offer. In batch mode the status is still pending and ErrNotPopulated is
// returned.
func (c *Client) IsAccessGranted(ctx context.Context, offerID, ipAddress string) (bool, error) {
	status, err := c.GetAccessStatus(ctx, offerID, ipAddress)
	if err != nil {
		return false, err
	}
	return status.Granted()
}

// PrepareRemoteAuth starts a remote authentication flow
func (c *Client) PrepareRemoteAuth(ctx context.Context, customerData, flowDescription Params) (*entity.RemoteAuth, error) {
	tok, err := c.require("prepareRemoteAuth", TokenPublisher)
	if err != nil {
		return nil, err
	}
	if customerData == nil {
		return nil, &ArgumentError{Msg: "'customerData' must be a mapping"}
	}
	if flowDescription == nil {
		return nil, &ArgumentError{Msg: "'flowDescription' must be a mapping"}
	}
	return call(ctx, c, "prepareRemoteAuth", Params{
		"publisherToken":  tok,
		"customerData":    customerData,
		"flowDescription": flowDescription,
	}, entity.NewRemoteAuth())
}

// GenerateCustomerToken issues a customer token for an email
func (c *Client) GenerateCustomerToken(ctx context.Context, customerEmail string) (*entity.CustomerToken, error) {
	tok, err := c.require("generateCustomerToken", TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "generateCustomerToken", Params{
		"publisherToken": tok,
		"customerEmail":  customerEmail,
	}, entity.NewCustomerToken())
}

// UpdateCustomerEmail changes a customer's email
func (c *Client) UpdateCustomerEmail(ctx context.Context, customerEmail, newEmail string) (*entity.OperationStatus, error) {
	tok, err := c.require("updateCustomerEmail", TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "updateCustomerEmail", Params{
		"publisherToken": tok,
		"customerEmail":  customerEmail,
		"newEmail":       newEmail,
	}, entity.NewOperationStatus())
}

// UpdateCustomerSubscription changes a customer's subscription to an offer
func (c *Client) UpdateCustomerSubscription(ctx context.Context, customerEmail, offerID string, data Params) (*entity.CustomerSubscription, error) {
	tok, err := c.require("updateCustomerSubscription", TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "updateCustomerSubscription", Params{
		"publisherToken":   tok,
		"customerEmail":    customerEmail,
		"offerId":          offerID,
		"subscriptionData": data,
	}, entity.NewCustomerSubscription())
}

// UpdateCustomerRental changes a customer's rental of an offer
func (c *Client) UpdateCustomerRental(ctx context.Context, customerEmail, offerID string, data Params) (*entity.CustomerRental, error) {
	tok, err := c.require("updateCustomerRental", TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "updateCustomerRental", Params{
		"publisherToken": tok,
		"customerEmail":  customerEmail,
		"offerId":        offerID,
		"rentalData":     data,
	}, entity.NewCustomerRental())
}

// ListCustomerSubscriptions lists the subscriptions of a customer
func (c *Client) ListCustomerSubscriptions(ctx context.Context, customerEmail string, offset, limit int) (*entity.Collection[*entity.CustomerSubscription], error) {
	tok, err := c.require("listCustomerSubscriptions", TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, "listCustomerSubscriptions", Params{
		"publisherToken": tok,
		"customerEmail":  customerEmail,
		"offset":         offset,
		"limit":          limit,
	}, entity.NewCollection(entity.NewCustomerSubscription))
}
