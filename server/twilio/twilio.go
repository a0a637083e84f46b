package twilio

import (
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/vitahq/vita/server/logger"
	"github.com/vitahq/vita/shared"
)

var (
	ErrNotConfigured = errors.New("twilio: account sid, auth token & messaging service sid are required")

	logg = logger.NewLogger()
)

type ClientWrapper struct {
	client  *twilio.RestClient
	config  shared.TwilioConfig
	devMode bool
}

// NewClient returns a twilio client. In 'devMode' messages are only logged.
func NewClient(config shared.TwilioConfig, devMode bool) *ClientWrapper {
	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})

	return &ClientWrapper{
		client:  client,
		config:  config,
		devMode: devMode,
	}
}

func (cw *ClientWrapper) SendMessage(to, msg string) error {
	if cw.devMode {
		logg.Infof("[twilio] SMS to %v: %v", to, msg)
		return nil
	}

	if !cw.configured() {
		return ErrNotConfigured
	}

	params := &openapi.CreateMessageParams{}
	params.SetMessagingServiceSid(cw.config.MessagingServiceSid)
	params.SetTo(to)
	params.SetBody(msg)

	resp, err := cw.client.ApiV2010.CreateMessage(params)
	if err != nil {
		return err
	}

	if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
		return fmt.Errorf("twilio: %v", *resp.ErrorMessage)
	}

	return nil
}

func (cw *ClientWrapper) configured() bool {
	return cw.config.AccountSid != "" && cw.config.AuthToken != "" && cw.config.MessagingServiceSid != ""
}
