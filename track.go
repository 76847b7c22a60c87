package waxhub

import (
	"context"
	"fmt"
	"iter"
	"net/http"
)

// Track represents a track in the Waxhub catalog.
type Track struct {
	// ID is assigned by the API on creation.
	ID string `json:"-"`
	// Title is the track title.
	Title string `json:"title,omitempty"`
	// ISRC is the International Standard Recording Code.
	ISRC string `json:"isrc,omitempty"`
	// DurationMS is the track length in milliseconds.
	DurationMS int `json:"duration_ms,omitempty"`
	// Explicit marks tracks with explicit content.
	Explicit bool `json:"explicit,omitempty"`
	// ReleasedOn is the release date of the track.
	ReleasedOn Time `json:"released_on,omitzero"`
}

// TrackListOptions filters track list calls.
type TrackListOptions struct {
	// Title filters by exact track title.
	Title string `url:"title,omitempty"`
	// ISRC filters by recording code.
	ISRC string `url:"isrc,omitempty"`
	// ArtistID filters by contributing artist.
	ArtistID string `url:"artist_id,omitempty"`
}

// TrackList is one page of tracks.
type TrackList struct {
	Tracks     []Track
	Pagination Pagination
}

func decodeTrack(resp *Response) (*Track, error) {
	id, track, err := decodeOne[Track](resp)
	if err != nil {
		return nil, err
	}
	track.ID = id

	return &track, nil
}

// Track retrieves a single track.
func (c *Client) Track(ctx context.Context, id string) (*Track, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/v1/tracks/%s", id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeTrack(resp)
}

// Tracks retrieves one page of tracks.
func (c *Client) Tracks(ctx context.Context, opts *TrackListOptions, page PageParams) (*TrackList, error) {
	params, err := listParams(opts, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodGet, "/v1/tracks", params, nil)
	if err != nil {
		return nil, err
	}

	data, pagination, err := decodeMany[Track](resp)
	if err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(data))
	for _, d := range data {
		track := d.Attributes
		track.ID = d.ID
		tracks = append(tracks, track)
	}

	return &TrackList{Tracks: tracks, Pagination: pagination}, nil
}

// TracksIter returns an iterator over all tracks matching opts.
func (c *Client) TracksIter(ctx context.Context, opts *TrackListOptions) iter.Seq2[Track, error] {
	return iterate(ctx, func(ctx context.Context, p PageParams) ([]Track, Pagination, error) {
		list, err := c.Tracks(ctx, opts, p)
		if err != nil {
			return nil, Pagination{}, err
		}
		return list.Tracks, list.Pagination, nil
	})
}

// TrackCreate creates a new track. Contributing artists are linked in the
// given order.
func (c *Client) TrackCreate(ctx context.Context, track Track, contributorIDs ...string) (*Track, error) {
	attrs, err := attributes(track)
	if err != nil {
		return nil, err
	}

	rels := map[string]Relationship{}
	if len(contributorIDs) > 0 {
		targets := make([]ResourceIdentifier, 0, len(contributorIDs))
		for _, artistID := range contributorIDs {
			targets = append(targets, ResourceIdentifier{Type: "artists", ID: artistID})
		}
		rels["contributors"] = ToMany(targets...)
	}

	doc, err := NewResource("tracks", "", attrs, rels)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPost, "/v1/tracks", doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeTrack(resp)
}

// TrackUpdate updates the attributes of an existing track.
func (c *Client) TrackUpdate(ctx context.Context, id string, track Track) (*Track, error) {
	attrs, err := attributes(track)
	if err != nil {
		return nil, err
	}

	doc, err := NewResource("tracks", id, attrs, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/v1/tracks/%s", id), doc.Params(), nil)
	if err != nil {
		return nil, err
	}

	return decodeTrack(resp)
}

// TrackDelete removes a track from the catalog.
func (c *Client) TrackDelete(ctx context.Context, id string) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/v1/tracks/%s", id), nil, nil)

	return err
}
