package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/vitahq/vita/server/auth"
	"github.com/vitahq/vita/server/auth/key"
	"github.com/vitahq/vita/server/identity"
	"github.com/vitahq/vita/server/models"
	"github.com/vitahq/vita/utils"
	"gorm.io/gorm"
)

var preferenceFieldNames = map[string]bool{"email": true, "sms": true, "push": true}

func health(rw http.ResponseWriter, r *http.Request) {
	if err := models.Ping(); err != nil {
		writeErrResponse(rw, err, http.StatusServiceUnavailable)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

func jwks(rw http.ResponseWriter, r *http.Request) {
	jwk, err := authKeyPair.JWK()
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(key.ExportJWKAsJWKS(jwk))
}

// ---------------------------------------------------------------------------------//
// Accounts
// --------------------------------------------------------------------------------//

func createUser(rw http.ResponseWriter, r *http.Request) {
	data := models.User{}

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

	// ids & timestamps are never client supplied
	data.BaseModel = models.BaseModel{}

	for _, unique := range []struct{ field, value, name string }{
		{"email", strings.ToLower(strings.TrimSpace(data.Email)), "email"},
		{"phone_number", data.PhoneNumber, "phone number"},
	} {
		_, err = models.FindUserBy(unique.field, unique.value)
		if err == nil {
			writeResponse(rw, ResponsePayload{Errors: []string{fmt.Sprintf("an account with this %v already exists", unique.name)}}, http.StatusConflict)
			return
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			writeErrResponse(rw, err, http.StatusInternalServerError)
			return
		}
	}

	err = models.CreateUser(&data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	data.Password = ""
	writeResponse(rw, ResponsePayload{Success: true, Data: data}, http.StatusCreated)
}

func logIn(rw http.ResponseWriter, r *http.Request) {
	data := make(map[string]string)
	json.NewDecoder(r.Body).Decode(&data)

	user, err := models.FindUserWithPassword(data["email"])
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	if user == nil || !auth.CheckPasswordHash(data["password"], user.Password) {
		writeResponse(rw, ResponsePayload{Errors: []string{"email/password is invalid"}}, http.StatusUnauthorized)
		return
	}

	sessionID, err := sessionStore.Create(r.Context(), user.ID)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	claims := auth.NewTokenClaims(fmt.Sprint(user.ID), user.FirstName, user.LastName, user.Email)
	claims.TokenVersion = user.TokenVersion

	token, err := auth.EncodeJWT(claims, authKeyPair)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	setAuthCookie(rw, identity.SessionCookieName, sessionID, int(sessionTTL.Seconds()))
	setAuthCookie(rw, identity.TokenCookieName, token, int(auth.TokenLifetime.Seconds()))

	writeResponse(rw, ResponsePayload{Success: true, Data: map[string]string{"token": token}}, http.StatusOK)
}

func logOut(rw http.ResponseWriter, r *http.Request) {
	for _, name := range []string{identity.SessionCookieName, "__Secure-" + identity.SessionCookieName} {
		cookie, err := r.Cookie(name)
		if err != nil || cookie.Value == "" {
			continue
		}

		if err := sessionStore.Delete(r.Context(), cookie.Value); err != nil {
			writeErrResponse(rw, err, http.StatusInternalServerError)
			return
		}
	}

	setAuthCookie(rw, identity.SessionCookieName, "", -1)
	setAuthCookie(rw, identity.TokenCookieName, "", -1)

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

func findMe(rw http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(rw, r)
	if !ok {
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: user}, http.StatusOK)
}

func updateMe(rw http.ResponseWriter, r *http.Request) {
	var errs []string
	data := make(map[string]interface{})

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusBadRequest)
		return
	}

	removeUnknownFields(data, map[string]bool{"first_name": true, "last_name": true, "phone_number": true, "password": true})
	if len(data) <= 0 {
		writeResponse(rw, ResponsePayload{Errors: []string{"valid fields required"}}, http.StatusBadRequest)
		return
	}

	for field, tag := range map[string]string{"first_name": "required", "last_name": "required", "phone_number": "required,e164", "password": "required,password"} {
		raw, ok := data[field]
		if !ok {
			continue
		}

		// null or non-string values would bypass validation
		value, isString := raw.(string)
		if !isString || validate.Var(value, tag) != nil {
			errs = append(errs, fmt.Sprintf("'%v' is invalid", field))
		}
	}

	if len(errs) > 0 {
		writeResponse(rw, ResponsePayload{Errors: errs}, http.StatusBadRequest)
		return
	}

	user, ok := currentUser(rw, r)
	if !ok {
		return
	}

	if phoneNumber, ok := data["phone_number"]; ok {
		existing, err := models.FindUserBy("phone_number", phoneNumber)
		if err == nil && existing.ID != user.ID {
			writeResponse(rw, ResponsePayload{Errors: []string{"an account with this phone number already exists"}}, http.StatusConflict)
			return
		}

		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			writeErrResponse(rw, err, http.StatusInternalServerError)
			return
		}
	}

	err = user.Update(data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	// Issued tokens are revoked by the version bump in Update, sessions are dropped here
	if data["password"] != nil {
		if err := sessionStore.DeleteForUser(r.Context(), user.ID); err != nil {
			writeErrResponse(rw, err, http.StatusInternalServerError)
			return
		}
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

func deleteMe(rw http.ResponseWriter, r *http.Request) {
	userID := requestIdentity(r).UserID

	if err := sessionStore.DeleteForUser(r.Context(), userID); err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	if err := models.DeleteUser(userID); err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	setAuthCookie(rw, identity.SessionCookieName, "", -1)
	setAuthCookie(rw, identity.TokenCookieName, "", -1)

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Emergency contacts & preferences
// --------------------------------------------------------------------------------//

func findContacts(rw http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(rw, r)
	if !ok {
		return
	}

	contacts, err := user.ContactList()
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: map[string][]string{"contacts": contacts}}, http.StatusOK)
}

func updateContacts(rw http.ResponseWriter, r *http.Request) {
	data := struct {
		Contacts []string `json:"contacts"`
	}{}

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusBadRequest)
		return
	}

	contacts := utils.UniqueTrimmed(data.Contacts)
	if len(contacts) > models.MAX_EMERGENCY_CONTACTS {
		writeResponse(rw,
			ResponsePayload{Errors: []string{fmt.Sprintf("at most %v emergency contacts are allowed", models.MAX_EMERGENCY_CONTACTS)}},
			http.StatusBadRequest,
		)
		return
	}

	var errs []string
	for _, contact := range contacts {
		if validate.Var(contact, "contact") != nil {
			errs = append(errs, fmt.Sprintf("'%v' is not a valid email address or e164 phone number", contact))
		}
	}

	if len(errs) > 0 {
		writeResponse(rw, ResponsePayload{Errors: errs}, http.StatusBadRequest)
		return
	}

	user, ok := currentUser(rw, r)
	if !ok {
		return
	}

	err = user.UpdateContactList(contacts)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: map[string][]string{"contacts": contacts}}, http.StatusOK)
}

func findPreferences(rw http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(rw, r)
	if !ok {
		return
	}

	preference, err := user.Preference()
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: preference}, http.StatusOK)
}

func updatePreferences(rw http.ResponseWriter, r *http.Request) {
	data := make(map[string]interface{})

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusBadRequest)
		return
	}

	removeUnknownFields(data, preferenceFieldNames)
	if len(data) <= 0 {
		writeResponse(rw, ResponsePayload{Errors: []string{"valid fields required"}}, http.StatusBadRequest)
		return
	}

	var errs []string
	for field, value := range data {
		if _, ok := value.(bool); !ok {
			errs = append(errs, fmt.Sprintf("'%v' must be a boolean", field))
		}
	}

	if len(errs) > 0 {
		writeResponse(rw, ResponsePayload{Errors: errs}, http.StatusBadRequest)
		return
	}

	user, ok := currentUser(rw, r)
	if !ok {
		return
	}

	err = user.UpdatePreference(data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	preference, err := user.Preference()
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: preference}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Resource listings
// --------------------------------------------------------------------------------//

func findResources(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	resourceType := query.Get("type")
	if resourceType != "" && !models.ResourceTypeNameMap[resourceType] {
		writeResponse(rw, ResponsePayload{Errors: []string{fmt.Sprintf("unknown resource type '%v'", resourceType)}}, http.StatusBadRequest)
		return
	}

	page, err := queryInt(query.Get("page"), 1)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{"page must be a number"}}, http.StatusBadRequest)
		return
	}

	availableOnly, _ := strconv.ParseBool(query.Get("available"))
	filter := models.ResourceFilter{
		Type:          resourceType,
		City:          query.Get("city"),
		Query:         query.Get("q"),
		AvailableOnly: availableOnly,
	}

	resources, paging, err := models.FetchResources(filter, page)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{
		Success: true,
		Data:    map[string]interface{}{"resources": resources, "paging": paging},
	}, http.StatusOK)
}

func findResource(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resource, err := models.FindResource(vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeErrResponse(rw, err, http.StatusNotFound)
		return
	}

	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: resource}, http.StatusOK)
}

func createResource(rw http.ResponseWriter, r *http.Request) {
	// New listings are available unless the submitter says otherwise
	data := models.Resource{Available: true}

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

	data.ID = 0
	data.SubmittedBy = requestIdentity(r).UserID
	err = models.CreateResource(&data)
	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: data}, http.StatusCreated)
}

func verifyResource(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	err := models.VerifyResource(vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeErrResponse(rw, err, http.StatusNotFound)
		return
	}

	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// currentUser loads the user behind the request identity, writing an
// error response when that fails
func currentUser(rw http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, err := models.FindUserBy("id", requestIdentity(r).UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{"authentication required"}}, http.StatusUnauthorized)
		return nil, false
	}

	if err != nil {
		writeErrResponse(rw, err, http.StatusInternalServerError)
		return nil, false
	}

	return user, true
}

func setAuthCookie(rw http.ResponseWriter, name, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if secureCookies {
		cookie.Name = "__Secure-" + name
		cookie.Secure = true
	}

	http.SetCookie(rw, cookie)
}

func queryInt(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}
