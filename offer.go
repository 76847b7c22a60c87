package waxhub

import (
	"context"
	"fmt"
	"net/http"
)

// Offer represents a distribution offer.
type Offer struct {
	ID string `json:"-"`
	// Name is the offer name.
	Name string `json:"name,omitempty"`
	// Price is the offer price in the smallest currency unit.
	Price int `json:"price,omitempty"`
	// Currency follows ISO 4217 format.
	Currency string `json:"currency,omitempty"`
	// StartsOn is the first day the offer is available.
	StartsOn Time `json:"starts_on,omitzero"`
	// EndsOn is the last day the offer is available.
	EndsOn Time `json:"ends_on,omitzero"`
}

// OfferListOptions filters offer list calls.
type OfferListOptions struct {
	Name      string `url:"name,omitempty"`
	Currency  string `url:"currency,omitempty"`
	CompanyID string `url:"company_id,omitempty"`
}

// OfferList is one page of offers.
type OfferList struct {
	Offers     []Offer
	Pagination Pagination
}

func decodeOffer(resp *Response) (*Offer, error) {
	id, offer, err := decodeOne[Offer](resp)
	if err != nil {
		return nil, err
	}
	offer.ID = id

	return &offer, nil
}

// Offer retrieves a single offer.
func (c *Client) Offer(ctx context.Context, id string) (*Offer, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/v1/offers/%s", id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeOffer(resp)
}

// Offers retrieves one page of offers.
func (c *Client) Offers(ctx context.Context, opts *OfferListOptions, page PageParams) (*OfferList, error) {
	params, err := listParams(opts, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodGet, "/v1/offers", params, nil)
	if err != nil {
		return nil, err
	}

	data, pagination, err := decodeMany[Offer](resp)
	if err != nil {
		return nil, err
	}

	offers := make([]Offer, 0, len(data))
	for _, d := range data {
		offer := d.Attributes
		offer.ID = d.ID
		offers = append(offers, offer)
	}

	return &OfferList{Offers: offers, Pagination: pagination}, nil
}

// OfferCreate creates a new offer. A non-empty companyID links the offer
// to the issuing company.
func (c *Client) OfferCreate(ctx context.Context, offer Offer, companyID string) (*Offer, error) {
	attrs, err := attributes(offer)
	if err != nil {
		return nil, err
	}

	rels := map[string]Relationship{}
	if companyID != "" {
		rels["company"] = ToOne(ResourceIdentifier{Type: "companies", ID: companyID})
	}

	doc, err := NewResource("offers", "", attrs, rels)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPost, "/v1/offers", doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeOffer(resp)
}

// OfferUpdate updates the attributes of an existing offer.
func (c *Client) OfferUpdate(ctx context.Context, id string, offer Offer) (*Offer, error) {
	attrs, err := attributes(offer)
	if err != nil {
		return nil, err
	}

	doc, err := NewResource("offers", id, attrs, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/v1/offers/%s", id), doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeOffer(resp)
}

// OfferDelete removes an offer.
func (c *Client) OfferDelete(ctx context.Context, id string) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/v1/offers/%s", id), nil, nil)

	return err
}
