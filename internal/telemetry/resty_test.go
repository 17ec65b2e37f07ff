package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	recorder := &Recorder{}
	client := resty.New()
	InstrumentResty(client, recorder)

	res, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, res.StatusCode())

	require.Len(t, recorder.Find("debug", report_resty_request), 1)
	responses := recorder.Find("debug", report_resty_response)
	require.Len(t, responses, 1)
	require.Equal(t, uint64(1), responses[0].Params[0])

	inflight := recorder.Find("count", report_resty_inflight)
	require.Len(t, inflight, 2)
	require.Equal(t, int64(1), inflight[0].Params[0])
	require.Equal(t, int64(0), inflight[1].Params[0])

	server.Close()
	_, err = client.R().Get(server.URL)
	require.Error(t, err)
	require.Len(t, recorder.Find("warning", report_resty_response), 1)
}
