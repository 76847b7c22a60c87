package waxhub

import (
	"context"
	"fmt"
	"iter"
	"net/http"
)

// Artist represents an artist in the Waxhub catalog.
type Artist struct {
	// ID is assigned by the API on creation.
	ID string `json:"-"`
	// Name is the artist or band name.
	Name string `json:"name,omitempty"`
	// Country follows ISO 3166-1 alpha-2 format.
	Country string `json:"country,omitempty"`
	// Website is the artist's website URL.
	Website string `json:"website,omitempty"`
	// FormedOn is the date the act was formed.
	FormedOn Time `json:"formed_on,omitzero"`
}

// ArtistListOptions filters artist list calls.
type ArtistListOptions struct {
	// Name filters by exact artist name.
	Name string `url:"name,omitempty"`
	// Country filters by ISO 3166-1 alpha-2 country code.
	Country string `url:"country,omitempty"`
	// LabelID filters by the label the artist is signed to.
	LabelID string `url:"label_id,omitempty"`
}

// ArtistList is one page of artists.
type ArtistList struct {
	Artists    []Artist
	Pagination Pagination
}

func decodeArtist(resp *Response) (*Artist, error) {
	id, artist, err := decodeOne[Artist](resp)
	if err != nil {
		return nil, err
	}
	artist.ID = id

	return &artist, nil
}

// Artist retrieves a single artist.
func (c *Client) Artist(ctx context.Context, id string) (*Artist, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/v1/artists/%s", id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeArtist(resp)
}

// Artists retrieves one page of artists.
func (c *Client) Artists(ctx context.Context, opts *ArtistListOptions, page PageParams) (*ArtistList, error) {
	params, err := listParams(opts, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodGet, "/v1/artists", params, nil)
	if err != nil {
		return nil, err
	}

	data, pagination, err := decodeMany[Artist](resp)
	if err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(data))
	for _, d := range data {
		artist := d.Attributes
		artist.ID = d.ID
		artists = append(artists, artist)
	}

	return &ArtistList{Artists: artists, Pagination: pagination}, nil
}

// ArtistsIter returns an iterator over all artists matching opts.
func (c *Client) ArtistsIter(ctx context.Context, opts *ArtistListOptions) iter.Seq2[Artist, error] {
	return iterate(ctx, func(ctx context.Context, p PageParams) ([]Artist, Pagination, error) {
		list, err := c.Artists(ctx, opts, p)
		if err != nil {
			return nil, Pagination{}, err
		}
		return list.Artists, list.Pagination, nil
	})
}

// ArtistCreate creates a new artist. A non-empty labelID links the artist
// to its label.
func (c *Client) ArtistCreate(ctx context.Context, artist Artist, labelID string) (*Artist, error) {
	attrs, err := attributes(artist)
	if err != nil {
		return nil, err
	}

	rels := map[string]Relationship{}
	if labelID != "" {
		rels["label"] = ToOne(ResourceIdentifier{Type: "labels", ID: labelID})
	}

	doc, err := NewResource("artists", "", attrs, rels)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPost, "/v1/artists", doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeArtist(resp)
}

// ArtistUpdate updates the attributes of an existing artist.
func (c *Client) ArtistUpdate(ctx context.Context, id string, artist Artist) (*Artist, error) {
	attrs, err := attributes(artist)
	if err != nil {
		return nil, err
	}

	doc, err := NewResource("artists", id, attrs, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/v1/artists/%s", id), doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeArtist(resp)
}

// ArtistDelete removes an artist from the catalog.
func (c *Client) ArtistDelete(ctx context.Context, id string) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/v1/artists/%s", id), nil, nil)

	return err
}
