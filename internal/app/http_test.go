package app

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoliteHTTPClient_Config(t *testing.T) {
	c := newPoliteHTTPClient()
	assert.NotZero(t, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok, "expected http.Transport")
	assert.Positive(t, tr.MaxConnsPerHost)
	assert.LessOrEqual(t, tr.MaxConnsPerHost, 4)
	assert.NotNil(t, tr.Proxy, "proxy settings from the environment should be honored")
	assert.NotEqual(t, reflect.ValueOf(http.DefaultTransport).Pointer(), reflect.ValueOf(tr).Pointer())
}
