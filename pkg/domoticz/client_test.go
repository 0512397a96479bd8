package domoticz

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testServer(t *testing.T, handler func(query url.Values, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "basic auth present")
		require.Equal(t, "apiuser", user)
		require.Equal(t, "apipass", pass)
		require.Equal(t, "/json.htm", r.URL.Path)
		require.Equal(t, "command", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		handler(r.URL.Query(), w)
	}))
}

func testHTTPClient(server *httptest.Server) *HTTPClient {
	return NewHTTPClient(server.URL, "apiuser", "apipass", 2*time.Second, zap.Must(zap.NewDevelopment()))
}

func TestGetDevicesParsesOptionalReadings(t *testing.T) {

	assert := assert.New(t)

	server := testServer(t, func(query url.Values, w http.ResponseWriter) {
		assert.Equal("getdevices", query.Get("param"))
		fmt.Fprint(w, `{"status":"OK","result":[
			{"idx":"12","Name":"Weather","Type":"Temp + Humidity","Temp":21.5,"Humidity":60,"PlanIDs":[0,5]},
			{"idx":"13","Name":"Lamp","Type":"Light/Switch","SwitchType":"On/Off","Status":"On","PlanIDs":[0]}
		]}`)
	})
	defer server.Close()

	devices, err := testHTTPClient(server).GetDevices()
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal("12", devices[0].Idx)
	require.NotNil(t, devices[0].Temp)
	assert.Equal(21.5, *devices[0].Temp)
	require.NotNil(t, devices[0].Humidity)
	assert.Equal(60, *devices[0].Humidity)
	assert.Nil(devices[0].Barometer, "absent reading stays nil")

	assert.Nil(devices[1].Temp)
	assert.Equal("On/Off", devices[1].SwitchType)
}

func TestGetFloorPlanPlansQuery(t *testing.T) {

	assert := assert.New(t)

	server := testServer(t, func(query url.Values, w http.ResponseWriter) {
		assert.Equal("getfloorplanplans", query.Get("param"))
		assert.Equal("3", query.Get("idx"))
		fmt.Fprint(w, `{"status":"OK","result":[{"idx":"5","Name":"Living room"}]}`)
	})
	defer server.Close()

	plans, err := testHTTPClient(server).GetFloorPlanPlans("3")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal("Living room", plans[0].Name)
}

func TestGetFloorPlansMissingResult(t *testing.T) {

	server := testServer(t, func(query url.Values, w http.ResponseWriter) {
		fmt.Fprint(w, `{"status":"OK","title":"Floorplans"}`)
	})
	defer server.Close()

	floorPlans, err := testHTTPClient(server).GetFloorPlans()
	require.NoError(t, err)
	assert.Empty(t, floorPlans, "missing result means no floorplans")
}

func TestSwitchLightApplicationError(t *testing.T) {

	server := testServer(t, func(query url.Values, w http.ResponseWriter) {
		assert.Equal(t, "switchlight", query.Get("param"))
		assert.Equal(t, "4", query.Get("idx"))
		assert.Equal(t, "On", query.Get("switchcmd"))
		fmt.Fprint(w, `{"status":"ERR"}`)
	})
	defer server.Close()

	err := testHTTPClient(server).SwitchLight(4, "On")
	require.ErrorIs(t, err, ErrApplication)
}

func TestSwitchSceneOK(t *testing.T) {

	server := testServer(t, func(query url.Values, w http.ResponseWriter) {
		assert.Equal(t, "switchscene", query.Get("param"))
		assert.Equal(t, "2", query.Get("idx"))
		assert.Equal(t, "Toggle", query.Get("switchcmd"))
		fmt.Fprint(w, `{"status":"OK","title":"SwitchScene"}`)
	})
	defer server.Close()

	err := testHTTPClient(server).SwitchScene(2, "Toggle")
	require.NoError(t, err)
}

func TestNon2xxIsTransportError(t *testing.T) {

	server := testServer(t, func(query url.Values, w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := testHTTPClient(server).GetScenes()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrApplication)
}
