package cleeng

import (
	"context"

	"cleengo/cleeng/entity"
)

// Listings of single, rental and event offers are zero-based; the other
// kinds start at 1.
const (
	firstOffsetZero = 0
	firstOffsetOne  = 1
)

func getOffer[E entity.Entity](ctx context.Context, c *Client, kind, offerID string, ctor func() E) (E, error) {
	return call(ctx, c, "get"+kind+"Offer", Params{"offerId": offerID}, ctor())
}

func listOffers[E entity.Entity](ctx context.Context, c *Client, kind string, criteria Params, page *Page, firstOffset int, ctor func() E) (*entity.Collection[E], error) {
	if criteria == nil {
		criteria = Params{}
	}
	p := pageOr(page, firstOffset)
	return call(ctx, c, "list"+kind+"Offers", Params{
		"publisherToken": c.PublisherToken(),
		"criteria":       criteria,
		"offset":         p.Offset,
		"limit":          p.Limit,
	}, entity.NewCollection(ctor))
}

func createOffer[E entity.Entity](ctx context.Context, c *Client, kind string, data Params, ctor func() E) (E, error) {
	method := "create" + kind + "Offer"
	tok, err := c.require(method, TokenPublisher)
	if err != nil {
		var zero E
		return zero, err
	}
	return call(ctx, c, method, Params{
		"publisherToken": tok,
		"offerData":      data,
	}, ctor())
}

func updateOffer[E entity.Entity](ctx context.Context, c *Client, kind, offerID string, data Params, ctor func() E) (E, error) {
	method := "update" + kind + "Offer"
	tok, err := c.require(method, TokenPublisher)
	if err != nil {
		var zero E
		return zero, err
	}
	return call(ctx, c, method, Params{
		"publisherToken": tok,
		"offerId":        offerID,
		"offerData":      data,
	}, ctor())
}

func deactivateOffer[E entity.Entity](ctx context.Context, c *Client, kind, offerID string, ctor func() E) (E, error) {
	method := "deactivate" + kind + "Offer"
	tok, err := c.require(method, TokenPublisher)
	if err != nil {
		var zero E
		return zero, err
	}
	return call(ctx, c, method, Params{
		"publisherToken": tok,
		"offerId":        offerID,
	}, ctor())
}

func createMultiCurrencyOffer(ctx context.Context, c *Client, kind string, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	method := "createMultiCurrency" + kind + "Offer"
	tok, err := c.require(method, TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, method, Params{
		"publisherToken": tok,
		"offerData":      data,
		"localizedData":  localized,
	}, entity.NewMultiCurrencyOffer())
}

func updateMultiCurrencyOffer(ctx context.Context, c *Client, kind, multiCurrencyOfferID string, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	method := "updateMultiCurrency" + kind + "Offer"
	tok, err := c.require(method, TokenPublisher)
	if err != nil {
		return nil, err
	}
	return call(ctx, c, method, Params{
		"publisherToken":       tok,
		"multiCurrencyOfferId": multiCurrencyOfferID,
		"offerData":            data,
		"localizedData":        localized,
	}, entity.NewMultiCurrencyOffer())
}

// Single offers

func (c *Client) GetSingleOffer(ctx context.Context, offerID string) (*entity.SingleOffer, error) {
	return getOffer(ctx, c, "Single", offerID, entity.NewSingleOffer)
}

// ListSingleOffers lists single offers matching criteria. A nil page
// starts at offset 0 with DefaultLimit items.
func (c *Client) ListSingleOffers(ctx context.Context, criteria Params, page *Page) (*entity.Collection[*entity.SingleOffer], error) {
	return listOffers(ctx, c, "Single", criteria, page, firstOffsetZero, entity.NewSingleOffer)
}

func (c *Client) CreateSingleOffer(ctx context.Context, data Params) (*entity.SingleOffer, error) {
	return createOffer(ctx, c, "Single", data, entity.NewSingleOffer)
}

func (c *Client) UpdateSingleOffer(ctx context.Context, offerID string, data Params) (*entity.SingleOffer, error) {
	return updateOffer(ctx, c, "Single", offerID, data, entity.NewSingleOffer)
}

func (c *Client) DeactivateSingleOffer(ctx context.Context, offerID string) (*entity.SingleOffer, error) {
	return deactivateOffer(ctx, c, "Single", offerID, entity.NewSingleOffer)
}

func (c *Client) CreateMultiCurrencySingleOffer(ctx context.Context, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return createMultiCurrencyOffer(ctx, c, "Single", data, localized)
}

func (c *Client) UpdateMultiCurrencySingleOffer(ctx context.Context, multiCurrencyOfferID string, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return updateMultiCurrencyOffer(ctx, c, "Single", multiCurrencyOfferID, data, localized)
}

// Rental offers

func (c *Client) GetRentalOffer(ctx context.Context, offerID string) (*entity.RentalOffer, error) {
	return getOffer(ctx, c, "Rental", offerID, entity.NewRentalOffer)
}

// ListRentalOffers lists rental offers. A nil page starts at offset 0.
func (c *Client) ListRentalOffers(ctx context.Context, criteria Params, page *Page) (*entity.Collection[*entity.RentalOffer], error) {
	return listOffers(ctx, c, "Rental", criteria, page, firstOffsetZero, entity.NewRentalOffer)
}

func (c *Client) CreateRentalOffer(ctx context.Context, data Params) (*entity.RentalOffer, error) {
	return createOffer(ctx, c, "Rental", data, entity.NewRentalOffer)
}

func (c *Client) UpdateRentalOffer(ctx context.Context, offerID string, data Params) (*entity.RentalOffer, error) {
	return updateOffer(ctx, c, "Rental", offerID, data, entity.NewRentalOffer)
}

func (c *Client) DeactivateRentalOffer(ctx context.Context, offerID string) (*entity.RentalOffer, error) {
	return deactivateOffer(ctx, c, "Rental", offerID, entity.NewRentalOffer)
}

func (c *Client) CreateMultiCurrencyRentalOffer(ctx context.Context, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return createMultiCurrencyOffer(ctx, c, "Rental", data, localized)
}

func (c *Client) UpdateMultiCurrencyRentalOffer(ctx context.Context, multiCurrencyOfferID string, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return updateMultiCurrencyOffer(ctx, c, "Rental", multiCurrencyOfferID, data, localized)
}

// Event offers

func (c *Client) GetEventOffer(ctx context.Context, offerID string) (*entity.EventOffer, error) {
	return getOffer(ctx, c, "Event", offerID, entity.NewEventOffer)
}

// ListEventOffers lists event offers. A nil page starts at offset 0.
func (c *Client) ListEventOffers(ctx context.Context, criteria Params, page *Page) (*entity.Collection[*entity.EventOffer], error) {
	return listOffers(ctx, c, "Event", criteria, page, firstOffsetZero, entity.NewEventOffer)
}

func (c *Client) CreateEventOffer(ctx context.Context, data Params) (*entity.EventOffer, error) {
	return createOffer(ctx, c, "Event", data, entity.NewEventOffer)
}

func (c *Client) UpdateEventOffer(ctx context.Context, offerID string, data Params) (*entity.EventOffer, error) {
	return updateOffer(ctx, c, "Event", offerID, data, entity.NewEventOffer)
}

func (c *Client) DeactivateEventOffer(ctx context.Context, offerID string) (*entity.EventOffer, error) {
	return deactivateOffer(ctx, c, "Event", offerID, entity.NewEventOffer)
}

func (c *Client) CreateMultiCurrencyEventOffer(ctx context.Context, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return createMultiCurrencyOffer(ctx, c, "Event", data, localized)
}

func (c *Client) UpdateMultiCurrencyEventOffer(ctx context.Context, multiCurrencyOfferID string, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return updateMultiCurrencyOffer(ctx, c, "Event", multiCurrencyOfferID, data, localized)
}

// Subscription offers

func (c *Client) GetSubscriptionOffer(ctx context.Context, offerID string) (*entity.SubscriptionOffer, error) {
	return getOffer(ctx, c, "Subscription", offerID, entity.NewSubscriptionOffer)
}

// ListSubscriptionOffers lists subscription offers. A nil page starts at
// offset 1.
func (c *Client) ListSubscriptionOffers(ctx context.Context, criteria Params, page *Page) (*entity.Collection[*entity.SubscriptionOffer], error) {
	return listOffers(ctx, c, "Subscription", criteria, page, firstOffsetOne, entity.NewSubscriptionOffer)
}

func (c *Client) CreateSubscriptionOffer(ctx context.Context, data Params) (*entity.SubscriptionOffer, error) {
	return createOffer(ctx, c, "Subscription", data, entity.NewSubscriptionOffer)
}

func (c *Client) UpdateSubscriptionOffer(ctx context.Context, offerID string, data Params) (*entity.SubscriptionOffer, error) {
	return updateOffer(ctx, c, "Subscription", offerID, data, entity.NewSubscriptionOffer)
}

func (c *Client) DeactivateSubscriptionOffer(ctx context.Context, offerID string) (*entity.SubscriptionOffer, error) {
	return deactivateOffer(ctx, c, "Subscription", offerID, entity.NewSubscriptionOffer)
}

func (c *Client) CreateMultiCurrencySubscriptionOffer(ctx context.Context, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return createMultiCurrencyOffer(ctx, c, "Subscription", data, localized)
}

// Pass offers

func (c *Client) GetPassOffer(ctx context.Context, offerID string) (*entity.PassOffer, error) {
	return getOffer(ctx, c, "Pass", offerID, entity.NewPassOffer)
}

// ListPassOffers lists pass offers. A nil page starts at offset 1.
func (c *Client) ListPassOffers(ctx context.Context, criteria Params, page *Page) (*entity.Collection[*entity.PassOffer], error) {
	return listOffers(ctx, c, "Pass", criteria, page, firstOffsetOne, entity.NewPassOffer)
}

func (c *Client) CreatePassOffer(ctx context.Context, data Params) (*entity.PassOffer, error) {
	return createOffer(ctx, c, "Pass", data, entity.NewPassOffer)
}

func (c *Client) UpdatePassOffer(ctx context.Context, offerID string, data Params) (*entity.PassOffer, error) {
	return updateOffer(ctx, c, "Pass", offerID, data, entity.NewPassOffer)
}

func (c *Client) DeactivatePassOffer(ctx context.Context, offerID string) (*entity.PassOffer, error) {
	return deactivateOffer(ctx, c, "Pass", offerID, entity.NewPassOffer)
}

func (c *Client) CreateMultiCurrencyPassOffer(ctx context.Context, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return createMultiCurrencyOffer(ctx, c, "Pass", data, localized)
}

// Bundle offers

func (c *Client) GetBundleOffer(ctx context.Context, offerID string) (*entity.BundleOffer, error) {
	return getOffer(ctx, c, "Bundle", offerID, entity.NewBundleOffer)
}

// ListBundleOffers lists bundle offers. A nil page starts at offset 1.
func (c *Client) ListBundleOffers(ctx context.Context, criteria Params, page *Page) (*entity.Collection[*entity.BundleOffer], error) {
	return listOffers(ctx, c, "Bundle", criteria, page, firstOffsetOne, entity.NewBundleOffer)
}

func (c *Client) CreateBundleOffer(ctx context.Context, data Params) (*entity.BundleOffer, error) {
	return createOffer(ctx, c, "Bundle", data, entity.NewBundleOffer)
}

func (c *Client) UpdateBundleOffer(ctx context.Context, offerID string, data Params) (*entity.BundleOffer, error) {
	return updateOffer(ctx, c, "Bundle", offerID, data, entity.NewBundleOffer)
}

func (c *Client) DeactivateBundleOffer(ctx context.Context, offerID string) (*entity.BundleOffer, error) {
	return deactivateOffer(ctx, c, "Bundle", offerID, entity.NewBundleOffer)
}

func (c *Client) CreateMultiCurrencyBundleOffer(ctx context.Context, data, localized Params) (*entity.MultiCurrencyOffer, error) {
	return createMultiCurrencyOffer(ctx, c, "Bundle", data, localized)
}
