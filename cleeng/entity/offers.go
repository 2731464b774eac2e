package entity

// OfferData holds the fields shared by every offer kind
type OfferData struct {
	ID                string   `json:"id"`
	PublisherEmail    string   `json:"publisherEmail"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	URL               string   `json:"url"`
	Price             float64  `json:"price"`
	Currency          string   `json:"currency"`
	ApplicableTaxRate float64  `json:"applicableTaxRate"`
	Country           string   `json:"country"`
	Active            bool     `json:"active"`
	CreatedAt         int64    `json:"createdAt"`
	UpdatedAt         int64    `json:"updatedAt"`
	Tags              []string `json:"tags"`
}

// SingleOfferData describes a one-off purchase
type SingleOfferData struct {
	OfferData
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentExternalId"`
}

// SingleOffer is returned by the single offer calls
type SingleOffer struct{ Record[SingleOfferData] }

// NewSingleOffer creates a pending SingleOffer
func NewSingleOffer() *SingleOffer { return &SingleOffer{} }

// RentalOfferData describes time-limited access to one item
type RentalOfferData struct {
	OfferData
	Period int64 `json:"period"`
}

// RentalOffer is returned by the rental offer calls
type RentalOffer struct{ Record[RentalOfferData] }

// NewRentalOffer creates a pending RentalOffer
func NewRentalOffer() *RentalOffer { return &RentalOffer{} }

// EventOfferData describes access to a scheduled live event
type EventOfferData struct {
	OfferData
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	Timezone  string `json:"timezone"`
}

// EventOffer is returned by the event offer calls
type EventOffer struct{ Record[EventOfferData] }

// NewEventOffer creates a pending EventOffer
func NewEventOffer() *EventOffer { return &EventOffer{} }

// SubscriptionOfferData describes recurring access
type SubscriptionOfferData struct {
	OfferData
	Period      string `json:"period"`
	FreeDays    int64  `json:"freeDays"`
	FreePeriods int64  `json:"freePeriods"`
}

// SubscriptionOffer is returned by the subscription offer calls
type SubscriptionOffer struct{ Record[SubscriptionOfferData] }

// NewSubscriptionOffer creates a pending SubscriptionOffer
func NewSubscriptionOffer() *SubscriptionOffer { return &SubscriptionOffer{} }

// PassOfferData describes site-wide access for a period
type PassOfferData struct {
	OfferData
	Period    string `json:"period"`
	ExpiresAt int64  `json:"expiresAt"`
}

// PassOffer is returned by the pass offer calls
type PassOffer struct{ Record[PassOfferData] }

// NewPassOffer creates a pending PassOffer
func NewPassOffer() *PassOffer { return &PassOffer{} }

// BundleOfferData describes a set of offers sold together
type BundleOfferData struct {
	OfferData
	Offers []string `json:"offers"`
}

// BundleOffer is returned by the bundle offer calls
type BundleOffer struct{ Record[BundleOfferData] }

// NewBundleOffer creates a pending BundleOffer
func NewBundleOffer() *BundleOffer { return &BundleOffer{} }

// MultiCurrencyOfferData groups the per-currency variants of one offer
type MultiCurrencyOfferData struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Offers      []OfferData `json:"offers"`
}

// MultiCurrencyOffer is returned by the multi-currency create and update calls
type MultiCurrencyOffer struct{ Record[MultiCurrencyOfferData] }

// NewMultiCurrencyOffer creates a pending MultiCurrencyOffer
func NewMultiCurrencyOffer() *MultiCurrencyOffer { return &MultiCurrencyOffer{} }
