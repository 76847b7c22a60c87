package waxhub

import (
	"context"
	"fmt"
	"net/http"
)

// User represents an account on the platform.
type User struct {
	ID        string `json:"-"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	// Role is one of "owner", "manager" or "member".
	Role string `json:"role,omitempty"`
	// Status is "active", "invited" or "suspended".
	Status string `json:"status,omitempty"`
}

// UserListOptions filters user list calls.
type UserListOptions struct {
	Status string `url:"status,omitempty"`
	Role   string `url:"role,omitempty"`
}

// UserList is one page of users.
type UserList struct {
	Users      []User
	Pagination Pagination
}

func decodeUser(resp *Response) (*User, error) {
	id, user, err := decodeOne[User](resp)
	if err != nil {
		return nil, err
	}
	user.ID = id

	return &user, nil
}

// User retrieves a single user.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/v1/users/%s", id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeUser(resp)
}

// Users retrieves one page of users.
func (c *Client) Users(ctx context.Context, opts *UserListOptions, page PageParams) (*UserList, error) {
	params, err := listParams(opts, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.Request(ctx, http.MethodGet, "/v1/users", params, nil)
	if err != nil {
		return nil, err
	}

	data, pagination, err := decodeMany[User](resp)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(data))
	for _, d := range data {
		user := d.Attributes
		user.ID = d.ID
		users = append(users, user)
	}

	return &UserList{Users: users, Pagination: pagination}, nil
}
