package assist

import (
	"fmt"
	"strings"

	"github.com/vitahq/vita/server/models"
)

const maxBotResults = 5

// ResourceFinder is the subset of the resource queries the bot relies on
type ResourceFinder interface {
	AvailableResources(resourceType, city string, limit int) ([]models.Resource, error)
	ResourceCities() ([]string, error)
}

type BotReply struct {
	Message   string            `json:"message"`
	Type      string            `json:"type,omitempty"`
	City      string            `json:"city,omitempty"`
	Resources []models.Resource `json:"resources,omitempty"`
}

type intent struct {
	resourceType string
	keywords     []string
	label        string
}

// Order matters, the first intent with a matching keyword wins
var intents = []intent{
	{models.BLOOD_BANK_RESOURCE, []string{"blood", "plasma", "donor"}, "blood banks"},
	{models.AMBULANCE_RESOURCE, []string{"ambulance", "ambulence", "transport"}, "ambulances"},
	{models.OXYGEN_RESOURCE, []string{"oxygen", "o2", "cylinder", "concentrator"}, "oxygen suppliers"},
}

var greetings = []string{"hello", "hi", "hey", "namaste"}

const helpMessage = "I can help you find blood banks, ambulances and oxygen suppliers. " +
	"Try \"I need oxygen in Delhi\"."

type Bot struct {
	finder ResourceFinder
}

func NewBot(finder ResourceFinder) *Bot {
	return &Bot{finder: finder}
}

// Reply answers a chat message by matching it against a fixed vocabulary
func (b *Bot) Reply(message string) (*BotReply, error) {
	text := strings.ToLower(strings.TrimSpace(message))

	matched := matchIntent(text)
	if matched == nil {
		if containsWord(text, greetings) {
			return &BotReply{Message: "Hello! " + helpMessage}, nil
		}
		return &BotReply{Message: helpMessage}, nil
	}

	city, err := b.matchCity(text)
	if err != nil {
		return nil, err
	}

	resources, err := b.finder.AvailableResources(matched.resourceType, city, maxBotResults)
	if err != nil {
		return nil, err
	}

	reply := &BotReply{Type: matched.resourceType, City: city, Resources: resources}

	where := ""
	if city != "" {
		where = " in " + city
	}

	if len(resources) == 0 {
		reply.Message = fmt.Sprintf("Sorry, I couldn't find any available %v%v right now.", matched.label, where)
		return reply, nil
	}

	reply.Message = fmt.Sprintf("Here are %v available %v%v:", len(resources), matched.label, where)
	return reply, nil
}

func (b *Bot) matchCity(text string) (string, error) {
	cities, err := b.finder.ResourceCities()
	if err != nil {
		return "", err
	}

	for _, city := range cities {
		if city != "" && strings.Contains(text, strings.ToLower(city)) {
			return city, nil
		}
	}

	return "", nil
}

func matchIntent(text string) *intent {
	for i := range intents {
		for _, keyword := range intents[i].keywords {
			if strings.Contains(text, keyword) {
				return &intents[i]
			}
		}
	}
	return nil
}

func containsWord(text string, words []string) bool {
	for _, field := range strings.Fields(text) {
		field = strings.Trim(field, "!?.,")
		for _, word := range words {
			if field == word {
				return true
			}
		}
	}
	return false
}
