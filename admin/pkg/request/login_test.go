package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequestMasksPassword(t *testing.T) {
	expectedMap := map[string]string{"email": "owner@printforge.example", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "owner@printforge.example", Password: "hunter2"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "hunter2", loginReq.Password)
}
