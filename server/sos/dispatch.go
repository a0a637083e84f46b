package sos

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vitahq/vita/server/logger"
)

const emailSubject = "SOS alert from Vita"

var logg = logger.NewLogger()

type SmsSender interface {
	SendMessage(to, msg string) error
}

type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// Location is where the SOS was raised from
type Location struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Address   string  `json:"address,omitempty" validate:"max=500"`
}

// Event is a single SOS request. It only lives for the duration of the request.
type Event struct {
	ID       string
	UserName string
	Email    string
	Location Location
}

// Attempt records how notifying one contact went
type Attempt struct {
	Contact   string `json:"contact"`
	SmsSent   bool   `json:"sms_sent"`
	EmailSent bool   `json:"email_sent"`
}

func (a Attempt) Delivered() bool {
	return a.SmsSent || a.EmailSent
}

type Result struct {
	Recipients int       `json:"recipients"`
	Delivered  int       `json:"delivered"`
	Attempts   []Attempt `json:"-"`
}

type Dispatcher struct {
	sms   SmsSender
	email EmailSender
}

func NewDispatcher(sms SmsSender, email EmailSender) *Dispatcher {
	return &Dispatcher{sms: sms, email: email}
}

func NewEvent(userName, email string, location Location) Event {
	return Event{ID: uuid.NewString(), UserName: userName, Email: email, Location: location}
}

// IsEmail reports whether 'contact' should be reached by email rather than SMS
func IsEmail(contact string) bool {
	return strings.Contains(contact, "@")
}

// Dispatch notifies every contact at the same time and waits for all of them.
// Provider errors are logged & counted as undelivered, they never fail the dispatch.
func (d *Dispatcher) Dispatch(event Event, contacts []string) Result {
	attempts := make([]Attempt, len(contacts))

	wg := sync.WaitGroup{}
	for i, contact := range contacts {
		wg.Add(1)
		go func(i int, contact string) {
			defer wg.Done()
			attempts[i] = d.notify(event, contact)
		}(i, contact)
	}
	wg.Wait()

	result := Result{Recipients: len(contacts), Attempts: attempts}
	for _, attempt := range attempts {
		if attempt.Delivered() {
			result.Delivered++
		}
	}

	logg.Infof("[sos %v] notified %v of %v contact(s)", event.ID, result.Delivered, result.Recipients)
	return result
}

func (d *Dispatcher) notify(event Event, contact string) Attempt {
	attempt := Attempt{Contact: contact}

	if IsEmail(contact) {
		err := d.email.SendEmail(contact, emailSubject, Message(event))
		if err != nil {
			logg.Warnf("[sos %v] email to %v failed: %v", event.ID, contact, err)
			return attempt
		}
		attempt.EmailSent = true
		return attempt
	}

	err := d.sms.SendMessage(contact, Message(event))
	if err != nil {
		logg.Warnf("[sos %v] sms to %v failed: %v", event.ID, contact, err)
		return attempt
	}
	attempt.SmsSent = true
	return attempt
}

// Message is the alert text sent to every contact
func Message(event Event) string {
	name := event.UserName
	if name == "" {
		name = event.Email
	}

	msg := fmt.Sprintf(
		"SOS ALERT: %v needs help!\nLocation: https://maps.google.com/?q=%.6f,%.6f",
		name, event.Location.Latitude, event.Location.Longitude)

	if address := strings.TrimSpace(event.Location.Address); address != "" {
		msg += fmt.Sprintf("\nAddress: %v", address)
	}

	return msg
}
