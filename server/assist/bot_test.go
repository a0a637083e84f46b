package assist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vitahq/vita/server/models"
)

type finderMock struct {
	mock.Mock
}

func (m *finderMock) AvailableResources(resourceType, city string, limit int) ([]models.Resource, error) {
	args := m.Called(resourceType, city, limit)
	return args.Get(0).([]models.Resource), args.Error(1)
}

func (m *finderMock) ResourceCities() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func TestBotReply(t *testing.T) {
	oxygen := []models.Resource{{Name: "City Oxygen Refill", City: "Mumbai"}}

	cases := []struct {
		description  string
		message      string
		resourceType string
		city         string
		found        []models.Resource
		expectedMsg  string
	}{
		{"oxygen in a known city", "I need an O2 cylinder in MUMBAI", models.OXYGEN_RESOURCE, "Mumbai", oxygen, "Here are 1 available oxygen suppliers in Mumbai:"},
		{"blood without city", "where can I donate blood?", models.BLOOD_BANK_RESOURCE, "", []models.Resource{}, "Sorry, I couldn't find any available blood banks right now."},
		{"ambulance misspelt", "send an ambulence to delhi", models.AMBULANCE_RESOURCE, "Delhi", []models.Resource{}, "Sorry, I couldn't find any available ambulances in Delhi right now."},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			finder := &finderMock{}
			finder.On("ResourceCities").Return([]string{"Delhi", "Mumbai"}, nil)
			finder.On("AvailableResources", c.resourceType, c.city, maxBotResults).Return(c.found, nil)

			reply, err := NewBot(finder).Reply(c.message)
			require.Nil(t, err)
			assert.Equal(t, c.expectedMsg, reply.Message)
			assert.Equal(t, c.resourceType, reply.Type)
			assert.Equal(t, c.city, reply.City)
			assert.Equal(t, len(c.found), len(reply.Resources))
			finder.AssertExpectations(t)
		})
	}
}

func TestBotReplyWithoutIntent(t *testing.T) {
	finder := &finderMock{}
	bot := NewBot(finder)

	reply, err := bot.Reply("Hi!")
	require.Nil(t, err)
	assert.Equal(t, "Hello! "+helpMessage, reply.Message)

	reply, err = bot.Reply("what is the weather like")
	require.Nil(t, err)
	assert.Equal(t, helpMessage, reply.Message)

	finder.AssertNotCalled(t, "AvailableResources", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotReplyPropagatesQueryErrors(t *testing.T) {
	finder := &finderMock{}
	finder.On("ResourceCities").Return([]string{}, errors.New("db down"))

	_, err := NewBot(finder).Reply("need blood")
	assert.NotNil(t, err)
}
