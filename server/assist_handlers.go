package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vitahq/vita/server/assist"
	"github.com/vitahq/vita/server/models"
)

// resourceFinder serves the chat bot's queries from the resources table
type resourceFinder struct{}

func (resourceFinder) AvailableResources(resourceType, city string, limit int) ([]models.Resource, error) {
	return models.AvailableResources(resourceType, city, limit)
}

func (resourceFinder) ResourceCities() ([]string, error) {
	return models.ResourceCities()
}

func chat(rw http.ResponseWriter, r *http.Request) {
	data := struct {
		Message string `json:"message" validate:"required,max=1000"`
	}{}

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusBadRequest)
		return
	}

	errs := validate.Struct(data)
	if errs != nil {
		writeValidationErrResponse(rw, errs)
		return
	}

	reply, err := chatBot.Reply(data.Message)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: reply}, http.StatusOK)
}

func predictCrisis(rw http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeResponse(rw, ResponsePayload{Errors: []string{"city is required"}}, http.StatusBadRequest)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: assist.PredictCrisis(city)}, http.StatusOK)
}

func triage(rw http.ResponseWriter, r *http.Request) {
	data := struct {
		Symptoms []string `json:"symptoms" validate:"required,min=1,max=50"`
	}{}

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusBadRequest)
		return
	}

	errs := validate.Struct(data)
	if errs != nil {
		writeValidationErrResponse(rw, errs)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: assist.Triage(data.Symptoms)}, http.StatusOK)
}
