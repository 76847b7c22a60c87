package waxhub

import (
	"context"
	"fmt"
	"net/http"
)

// Company represents a rights-holding company.
type Company struct {
	ID string `json:"-"`
	// Name is the registered company name.
	Name string `json:"name,omitempty"`
	// VATNumber is the company's VAT registration number.
	VATNumber string `json:"vat_number,omitempty"`
	// Country follows ISO 3166-1 alpha-2 format.
	Country string `json:"country,omitempty"`
}

// CompanyListOptions filters company list calls.
type CompanyListOptions struct {
	Name    string `url:"name,omitempty"`
	Country string `url:"country,omitempty"`
}

// CompanyList is one page of companies.
type CompanyList struct {
	Companies  []Company
	Pagination Pagination
}

func decodeCompany(resp *Response) (*Company, error) {
	id, company, err := decodeOne[Company](resp)
	if err != nil {
		return nil, err
	}
	company.ID = id

	return &company, nil
}

// Company retrieves a single company.
func (c *Client) Company(ctx context.Context, id string) (*Company, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/v1/companies/%s", id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeCompany(resp)
}

// Companies retrieves one page of companies.
func (c *Client) Companies(ctx context.Context, opts *CompanyListOptions, page PageParams) (*CompanyList, error) {
	params, err := listParams(opts, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodGet, "/v1/companies", params, nil)
	if err != nil {
		return nil, err
	}

	data, pagination, err := decodeMany[Company](resp)
	if err != nil {
		return nil, err
	}

	companies := make([]Company, 0, len(data))
	for _, d := range data {
		company := d.Attributes
		company.ID = d.ID
		companies = append(companies, company)
	}

	return &CompanyList{Companies: companies, Pagination: pagination}, nil
}

// CompanyCreate creates a new company.
func (c *Client) CompanyCreate(ctx context.Context, company Company) (*Company, error) {
	attrs, err := attributes(company)
	if err != nil {
		return nil, err
	}

	doc, err := NewResource("companies", "", attrs, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPost, "/v1/companies", doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeCompany(resp)
}

// CompanyUpdate updates the attributes of an existing company.
func (c *Client) CompanyUpdate(ctx context.Context, id string, company Company) (*Company, error) {
	attrs, err := attributes(company)
	if err != nil {
		return nil, err
	}

	doc, err := NewResource("companies", id, attrs, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/v1/companies/%s", id), doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeCompany(resp)
}

// CompanyDelete removes a company.
func (c *Client) CompanyDelete(ctx context.Context, id string) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/v1/companies/%s", id), nil, nil)

	return err
}
