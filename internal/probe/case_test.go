package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONBodyEncodesPayload(t *testing.T) {
	body := JSONBody{Payload: ExchangePayload{Title: "ok", Pixels: []string{"#ffb7b2"}}}
	data, err := body.Bytes()
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"ok","pixels":["#ffb7b2"]}`, string(data))
}

func TestJSONBodyReportsEncodeFailure(t *testing.T) {
	body := JSONBody{Payload: map[string]any{"bad": make(chan int)}}
	_, err := body.Bytes()
	require.Error(t, err)
	require.ErrorContains(t, err, "encode payload")
}

func TestRawBodyPassesBytesThrough(t *testing.T) {
	body := RawBody("not-json")
	data, err := body.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte("not-json"), data)
}
