package jsonplaceholder

import (
	"encoding/json"
	"errors"
	"fmt"

	domain "user-sync/internal/domain/user"
)

// wireUser mirrors the JSON shape of a user. Pointers let the validator tell a
// missing or null key apart from a zero value; all four keys are required.
type wireUser struct {
	ID       *int64  `json:"id" validate:"required"`
	Name     *string `json:"name" validate:"required"`
	Username *string `json:"username" validate:"required"`
	Email    *string `json:"email" validate:"required"`
}

func (w wireUser) toDomain() domain.User {
	return domain.User{
		ID:       *w.ID,
		Name:     *w.Name,
		Username: *w.Username,
		Email:    *w.Email,
	}
}

func (c *Client) decodeOne(data []byte) (domain.User, error) {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.User{}, err
	}
	if err := c.validate.Struct(w); err != nil {
		return domain.User{}, fmt.Errorf("missing fields: %w", err)
	}
	return w.toDomain(), nil
}

func (c *Client) decodeList(data []byte) ([]domain.User, error) {
	var ws []wireUser
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, errors.New("null is not a user array")
	}

	users := make([]domain.User, len(ws))
	for i, w := range ws {
		if err := c.validate.Struct(w); err != nil {
			return nil, fmt.Errorf("element %d missing fields: %w", i, err)
		}
		users[i] = w.toDomain()
	}
	return users, nil
}
