package waxhub

import (
	"context"
	"fmt"
	"net/http"
)

// Label represents a record label in the Waxhub catalog.
type Label struct {
	// ID is assigned by the API on creation.
	ID string `json:"-"`
	// Name is the label name.
	Name string `json:"name,omitempty"`
	// Country follows ISO 3166-1 alpha-2 format.
	Country string `json:"country,omitempty"`
	// FoundedOn is the date the label was founded.
	FoundedOn Time `json:"founded_on,omitzero"`
}

// LabelListOptions filters label list calls.
type LabelListOptions struct {
	Name    string `url:"name,omitempty"`
	Country string `url:"country,omitempty"`
}

// LabelList is one page of labels.
type LabelList struct {
	Labels     []Label
	Pagination Pagination
}

func decodeLabel(resp *Response) (*Label, error) {
	id, label, err := decodeOne[Label](resp)
	if err != nil {
		return nil, err
	}
	label.ID = id

	return &label, nil
}

// Label retrieves a single label.
func (c *Client) Label(ctx context.Context, id string) (*Label, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/v1/labels/%s", id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeLabel(resp)
}

// Labels retrieves one page of labels.
func (c *Client) Labels(ctx context.Context, opts *LabelListOptions, page PageParams) (*LabelList, error) {
	params, err := listParams(opts, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodGet, "/v1/labels", params, nil)
	if err != nil {
		return nil, err
	}

	data, pagination, err := decodeMany[Label](resp)
	if err != nil {
		return nil, err
	}

	labels := make([]Label, 0, len(data))
	for _, d := range data {
		label := d.Attributes
		label.ID = d.ID
		labels = append(labels, label)
	}

	return &LabelList{Labels: labels, Pagination: pagination}, nil
}

// LabelCreate creates a new label. A non-empty companyID links the label
// to its parent company.
func (c *Client) LabelCreate(ctx context.Context, label Label, companyID string) (*Label, error) {
	attrs, err := attributes(label)
	if err != nil {
		return nil, err
	}

	rels := map[string]Relationship{}
	if companyID != "" {
		rels["company"] = ToOne(ResourceIdentifier{Type: "companies", ID: companyID})
	}

	doc, err := NewResource("labels", "", attrs, rels)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPost, "/v1/labels", doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeLabel(resp)
}

// LabelUpdate updates the attributes of an existing label.
func (c *Client) LabelUpdate(ctx context.Context, id string, label Label) (*Label, error) {
	attrs, err := attributes(label)
	if err != nil {
		return nil, err
	}

	doc, err := NewResource("labels", id, attrs, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/v1/labels/%s", id), doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeLabel(resp)
}

// LabelDelete removes a label from the catalog.
func (c *Client) LabelDelete(ctx context.Context, id string) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/v1/labels/%s", id), nil, nil)

	return err
}
