package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vitahq/vita/server/identity"
	"github.com/vitahq/vita/server/models"
	"github.com/vitahq/vita/server/sos"
	"gorm.io/gorm"
)

// triggerSOS alerts every emergency contact of the caller. The caller is
// identified by the identity chain rather than the 'protected' middleware,
// so the route stays reachable with any credential the chain understands.
func triggerSOS(rw http.ResponseWriter, r *http.Request) {
	id, err := identityChain.Resolve(r)
	if errors.Is(err, identity.ErrNoIdentity) {
		writeResponse(rw, ResponsePayload{Errors: []string{"unable to identify user, please log in again"}}, http.StatusUnauthorized)
		return
	}

	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	location := sos.Location{}
	err = json.NewDecoder(r.Body).Decode(&location)
	if err != nil {
		writeErrResponse(rw, err, http.StatusBadRequest)
		return
	}

	errs := validate.Struct(location)
	if errs != nil {
		writeValidationErrResponse(rw, errs)
		return
	}

	user, err := models.FindUserBy("id", id.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{"unable to identify user, please log in again"}}, http.StatusUnauthorized)
		return
	}

	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	contacts, err := user.ContactList()
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	if len(contacts) == 0 {
		writeResponse(rw, ResponsePayload{Errors: []string{"no emergency contacts found, add some before sending an SOS"}}, http.StatusNotFound)
		return
	}

	result := sosDispatcher.Dispatch(sos.NewEvent(id.Name, id.Email, location), contacts)

	writeResponse(rw, ResponsePayload{Success: true, Data: result}, http.StatusOK)
}
