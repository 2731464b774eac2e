package entity

// CustomerData describes a customer account
type CustomerData struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Currency    string `json:"currency"`
	Locale      string `json:"locale"`
	Country     string `json:"country"`
}

// Customer is returned by getCustomer
type Customer struct{ Record[CustomerData] }

// NewCustomer creates a pending Customer
func NewCustomer() *Customer { return &Customer{} }

// AccessStatusData defines the relationship between a customer and an offer
type AccessStatusData struct {
	AccessGranted       bool   `json:"accessGranted"`
	GrantType           string `json:"grantType"`
	ExpiresAt           int64  `json:"expiresAt"`
	SocialCommissionURL string `json:"socialCommissionUrl"`
}

// AccessStatus is returned by getAccessStatus
type AccessStatus struct{ Record[AccessStatusData] }

// NewAccessStatus creates a pending AccessStatus
func NewAccessStatus() *AccessStatus { return &AccessStatus{} }

// Granted reports whether the customer may access the offer
func (a *AccessStatus) Granted() (bool, error) {
	d, err := a.Data()
	if err != nil {
		return false, err
	}
	return d.AccessGranted, nil
}

// CustomerEmailData holds a customer's email address
type CustomerEmailData struct {
	CustomerEmail string `json:"customerEmail"`
}

// CustomerEmail is returned by getCustomerEmail
type CustomerEmail struct{ Record[CustomerEmailData] }

// NewCustomerEmail creates a pending CustomerEmail
func NewCustomerEmail() *CustomerEmail { return &CustomerEmail{} }

// CustomerTokenData holds a freshly generated customer token
type CustomerTokenData struct {
	Token string `json:"token"`
}

// CustomerToken is returned by generateCustomerToken
type CustomerToken struct{ Record[CustomerTokenData] }

// NewCustomerToken creates a pending CustomerToken
func NewCustomerToken() *CustomerToken { return &CustomerToken{} }

// OperationStatusData is the outcome of a call without a richer result
type OperationStatusData struct {
	Success bool `json:"success"`
}

// OperationStatus is returned by tracking and update calls
type OperationStatus struct{ Record[OperationStatusData] }

// NewOperationStatus creates a pending OperationStatus
func NewOperationStatus() *OperationStatus { return &OperationStatus{} }

// RemoteAuthData holds the URL a customer is redirected to
type RemoteAuthData struct {
	URL string `json:"url"`
}

// RemoteAuth is returned by prepareRemoteAuth
type RemoteAuth struct{ Record[RemoteAuthData] }

// NewRemoteAuth creates a pending RemoteAuth
func NewRemoteAuth() *RemoteAuth { return &RemoteAuth{} }

// CustomerSubscriptionData describes a customer's subscription to an offer
type CustomerSubscriptionData struct {
	OfferID   string `json:"offerId"`
	Status    string `json:"status"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CustomerSubscription is returned by updateCustomerSubscription and listed
// by listCustomerSubscriptions
type CustomerSubscription struct{ Record[CustomerSubscriptionData] }

// NewCustomerSubscription creates a pending CustomerSubscription
func NewCustomerSubscription() *CustomerSubscription { return &CustomerSubscription{} }

// CustomerRentalData describes a customer's rental of an offer
type CustomerRentalData struct {
	OfferID   string `json:"offerId"`
	Status    string `json:"status"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CustomerRental is returned by updateCustomerRental
type CustomerRental struct{ Record[CustomerRentalData] }

// NewCustomerRental creates a pending CustomerRental
func NewCustomerRental() *CustomerRental { return &CustomerRental{} }

// PublisherData describes a publisher account
type PublisherData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Currency    string `json:"currency"`
	Country     string `json:"country"`
}

// Publisher is returned by getPublisher
type Publisher struct{ Record[PublisherData] }

// NewPublisher creates a pending Publisher
func NewPublisher() *Publisher { return &Publisher{} }

// PublisherEmailData holds a publisher's email address
type PublisherEmailData struct {
	PublisherEmail string `json:"publisherEmail"`
}

// PublisherEmail is returned by getPublisherEmail
type PublisherEmail struct{ Record[PublisherEmailData] }

// NewPublisherEmail creates a pending PublisherEmail
func NewPublisherEmail() *PublisherEmail { return &PublisherEmail{} }

// AssociateData describes an associate managed by a distributor
type AssociateData struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
	Currency  string `json:"currency"`
	Locale    string `json:"locale"`
}

// Associate is returned by the associate calls
type Associate struct{ Record[AssociateData] }

// NewAssociate creates a pending Associate
func NewAssociate() *Associate { return &Associate{} }
