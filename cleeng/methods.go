package cleeng

import (
	"context"

	"cleengo/cleeng/entity"
)

// Params is the parameter object of one call
type Params map[string]any

// TokenKind names the credential a method is called with
type TokenKind int

const (
	TokenNone TokenKind = iota
	TokenCustomer
	TokenPublisher
	TokenDistributor
)

// String returns the token name as used in error messages
func (k TokenKind) String() string {
	switch k {
	case TokenCustomer:
		return "customer"
	case TokenPublisher:
		return "publisher"
	case TokenDistributor:
		return "distributor"
	default:
		return "none"
	}
}

// Param returns the params key the token is sent under
func (k TokenKind) Param() string {
	switch k {
	case TokenCustomer:
		return "customerToken"
	case TokenPublisher:
		return "publisherToken"
	case TokenDistributor:
		return "distributorToken"
	default:
		return ""
	}
}

// MethodInfo describes one remote method
type MethodInfo struct {
	// Token is the credential sent with the call
	Token TokenKind
	// Required means the call is refused while Token is unset
	Required bool
	// New builds the placeholder for the result
	New func() entity.Entity
}

// Page selects a window of a listing
type Page struct {
	Offset int
	Limit  int
}

// DefaultLimit is the page size used when no Page is given
const DefaultLimit = 20

func pageOr(p *Page, offset int) Page {
	if p == nil {
		return Page{Offset: offset, Limit: DefaultLimit}
	}
	return *p
}

func newer[E entity.Entity](ctor func() E) func() entity.Entity {
	return func() entity.Entity { return ctor() }
}

func collectionOf[E entity.Entity](ctor func() E) func() entity.Entity {
	return func() entity.Entity { return entity.NewCollection(ctor) }
}

// Methods maps every remote method to its credential and result kind
var Methods = buildMethods()

func buildMethods() map[string]MethodInfo {
	m := map[string]MethodInfo{
		"getCustomer":                {Token: TokenCustomer, New: newer(entity.NewCustomer)},
		"getCustomerEmail":           {Token: TokenPublisher, New: newer(entity.NewCustomerEmail)},
		"trackOfferImpression":       {Token: TokenCustomer, New: newer(entity.NewOperationStatus)},
		"getAccessStatus":            {Token: TokenCustomer, New: newer(entity.NewAccessStatus)},
		"prepareRemoteAuth":          {Token: TokenPublisher, Required: true, New: newer(entity.NewRemoteAuth)},
		"generateCustomerToken":      {Token: TokenPublisher, Required: true, New: newer(entity.NewCustomerToken)},
		"updateCustomerEmail":        {Token: TokenPublisher, Required: true, New: newer(entity.NewOperationStatus)},
		"updateCustomerSubscription": {Token: TokenPublisher, Required: true, New: newer(entity.NewCustomerSubscription)},
		"updateCustomerRental":       {Token: TokenPublisher, Required: true, New: newer(entity.NewCustomerRental)},
		"listCustomerSubscriptions":  {Token: TokenPublisher, Required: true, New: collectionOf(entity.NewCustomerSubscription)},
		"getPublisher":               {Token: TokenPublisher, Required: true, New: newer(entity.NewPublisher)},
		"getPublisherEmail":          {Token: TokenNone, New: newer(entity.NewPublisherEmail)},
		"getAssociate":               {Token: TokenDistributor, Required: true, New: newer(entity.NewAssociate)},
		"createAssociate":            {Token: TokenDistributor, Required: true, New: newer(entity.NewAssociate)},
		"updateAssociate":            {Token: TokenDistributor, Required: true, New: newer(entity.NewAssociate)},
	}

	offers := []struct {
		kind       string
		single     func() entity.Entity
		collection func() entity.Entity
		mcUpdate   bool
	}{
		{"Single", newer(entity.NewSingleOffer), collectionOf(entity.NewSingleOffer), true},
		{"Rental", newer(entity.NewRentalOffer), collectionOf(entity.NewRentalOffer), true},
		{"Event", newer(entity.NewEventOffer), collectionOf(entity.NewEventOffer), true},
		{"Subscription", newer(entity.NewSubscriptionOffer), collectionOf(entity.NewSubscriptionOffer), false},
		{"Pass", newer(entity.NewPassOffer), collectionOf(entity.NewPassOffer), false},
		{"Bundle", newer(entity.NewBundleOffer), collectionOf(entity.NewBundleOffer), false},
	}
	multi := newer(entity.NewMultiCurrencyOffer)
	for _, o := range offers {
		m["get"+o.kind+"Offer"] = MethodInfo{Token: TokenNone, New: o.single}
		m["list"+o.kind+"Offers"] = MethodInfo{Token: TokenPublisher, New: o.collection}
		m["create"+o.kind+"Offer"] = MethodInfo{Token: TokenPublisher, Required: true, New: o.single}
		m["update"+o.kind+"Offer"] = MethodInfo{Token: TokenPublisher, Required: true, New: o.single}
		m["deactivate"+o.kind+"Offer"] = MethodInfo{Token: TokenPublisher, Required: true, New: o.single}
		m["createMultiCurrency"+o.kind+"Offer"] = MethodInfo{Token: TokenPublisher, Required: true, New: multi}
		if o.mcUpdate {
			m["updateMultiCurrency"+o.kind+"Offer"] = MethodInfo{Token: TokenPublisher, Required: true, New: multi}
		}
	}
	return m
}

// Placeholder returns a fresh placeholder of the kind method returns, or a
// plain entity.Base for a method not in Methods
func Placeholder(method string) entity.Entity {
	if info, ok := Methods[method]; ok {
		return info.New()
	}
	return entity.NewBase()
}

// Invoke calls method with the credential Methods names for it added to
// params. A token already present in params is left alone.
func (c *Client) Invoke(ctx context.Context, method string, params Params) (entity.Entity, error) {
	info, known := Methods[method]
	out := make(Params, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	if known && info.Token != TokenNone {
		if _, set := out[info.Token.Param()]; !set {
			tok := c.token(info.Token)
			if tok == "" && info.Required {
				return nil, &PreconditionError{Method: method, Token: info.Token.String()}
			}
			out[info.Token.Param()] = tok
		}
	}
	return c.Call(ctx, method, out, Placeholder(method))
}

func (c *Client) token(kind TokenKind) string {
	switch kind {
	case TokenCustomer:
		return c.CustomerToken()
	case TokenPublisher:
		return c.PublisherToken()
	case TokenDistributor:
		return c.DistributorToken()
	default:
		return ""
	}
}

// require returns the token of kind, or a PreconditionError naming method
func (c *Client) require(method string, kind TokenKind) (string, error) {
	tok := c.token(kind)
	if tok == "" {
		return "", &PreconditionError{Method: method, Token: kind.String()}
	}
	return tok, nil
}

// call queues one typed call and returns its placeholder. On error the
// placeholder is still returned and stays pending.
func call[E entity.Entity](ctx context.Context, c *Client, method string, params Params, placeholder E) (E, error) {
	_, err := c.Call(ctx, method, params, placeholder)
	return placeholder, err
}
