package domoticz

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrApplication marks a command the controller accepted over HTTP but
// rejected at application level (status "ERR" in a 200 response).
var ErrApplication = errors.New("bad_request")

// Client reads state from and issues switch commands to a Domoticz
// controller. Read calls that find no "result" payload return an empty
// slice, not an error.
type Client interface {
	GetVersion() (*Version, error)
	GetSettings() (*Settings, error)
	GetFloorPlans() ([]FloorPlan, error)
	GetFloorPlanPlans(idx string) ([]Plan, error)
	GetDevices() ([]Device, error)
	GetScenes() ([]Scene, error)
	SwitchLight(idx int, command string) error
	SwitchScene(idx int, command string) error
}

type HTTPClient struct {
	rest   *resty.Client
	logger *zap.Logger
}

func NewHTTPClient(baseURL, username, password string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(username, password).
		SetHeader("Accept", "application/json")
	return &HTTPClient{
		rest:   rest,
		logger: logger.With(zap.String("client", "domoticz")),
	}
}

func (c *HTTPClient) GetVersion() (*Version, error) {
	var out Version
	if err := c.command("getversion", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetSettings() (*Settings, error) {
	var out Settings
	if err := c.command("getsettings", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetFloorPlans() ([]FloorPlan, error) {
	var out floorPlansEnvelope
	if err := c.command("getfloorplans", &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *HTTPClient) GetFloorPlanPlans(idx string) ([]Plan, error) {
	var out plansEnvelope
	if err := c.command(fmt.Sprintf("getfloorplanplans&idx=%s", url.QueryEscape(idx)), &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *HTTPClient) GetDevices() ([]Device, error) {
	var out devicesEnvelope
	if err := c.command("getdevices", &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *HTTPClient) GetScenes() ([]Scene, error) {
	var out scenesEnvelope
	if err := c.command("getscenes", &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *HTTPClient) SwitchLight(idx int, command string) error {
	return c.switchCommand(fmt.Sprintf("switchlight&idx=%d&switchcmd=%s", idx, url.QueryEscape(command)))
}

func (c *HTTPClient) SwitchScene(idx int, command string) error {
	return c.switchCommand(fmt.Sprintf("switchscene&idx=%d&switchcmd=%s", idx, url.QueryEscape(command)))
}

func (c *HTTPClient) switchCommand(param string) error {
	var out commandResponse
	if err := c.command(param, &out); err != nil {
		return err
	}
	if out.Status == "ERR" {
		return ErrApplication
	}
	return nil
}

func (c *HTTPClient) command(param string, out any) error {
	resp, err := c.rest.R().
		SetResult(out).
		Get("/json.htm?type=command&param=" + param)
	if err != nil {
		c.logger.Debug("request failed", zap.String("param", param), zap.Error(err))
		return err
	}
	if resp.IsError() {
		c.logger.Debug("request rejected", zap.String("param", param), zap.Int("code", resp.StatusCode()))
		return fmt.Errorf("domoticz: http status %d", resp.StatusCode())
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
