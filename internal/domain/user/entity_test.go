package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONRoundTrip(t *testing.T) {
	u := User{ID: 7, Name: "Kurtis Weissnat", Username: "Elwyn.Skiles", Email: "Telly.Hoeger@billy.biz"}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var decoded User
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, u, decoded)
}

func TestUser_JSONShape(t *testing.T) {
	data, err := json.Marshal(User{ID: 1, Name: "A", Username: "a", Email: "a@x.com"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":1,"name":"A","username":"a","email":"a@x.com"}`, string(data))
}

func TestUser_IgnoresUnknownFields(t *testing.T) {
	body := `{"email":"a@x.com","phone":"1-770","id":1,"address":{"city":"Gwenborough"},"username":"a","name":"A"}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(body), &u))

	assert.Equal(t, User{ID: 1, Name: "A", Username: "a", Email: "a@x.com"}, u)
}

func TestProvisional(t *testing.T) {
	p := Provisional()

	assert.Equal(t, int64(0), p.ID)
	assert.Equal(t, "New User", p.Name)
	assert.Equal(t, "New", p.Username)
	assert.Equal(t, "New Email", p.Email)
}
