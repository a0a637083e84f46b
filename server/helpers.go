package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/vitahq/vita/server/cron"
	"github.com/vitahq/vita/server/identity"
	"github.com/vitahq/vita/server/models"
	"github.com/vitahq/vita/utils"
)

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type RequestContextKey string

const identityContextKey = RequestContextKey("identity")

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func writeErrResponse(rw http.ResponseWriter, err error, statusCode int) {
	writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, statusCode)
}

func writeValidationErrResponse(rw http.ResponseWriter, err error) {
	writeResponse(rw, ResponsePayload{Errors: strings.Split(err.Error(), "\n")}, http.StatusBadRequest)
}

func removeUnknownFields(args map[string]interface{}, validFields map[string]bool) {
	for key := range args {
		if !validFields[key] {
			delete(args, key)
		}
	}
}

// requestIdentity returns the identity the 'protected' middleware attached to 'r'
func requestIdentity(r *http.Request) *identity.Identity {
	id, _ := r.Context().Value(identityContextKey).(*identity.Identity)
	return id
}

func RegisterValidators(validate *validator.Validate) error {
	err := validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		// if whitespace in password return false
		err := validate.Var(fl.Field().String(), "contains= ")
		if err == nil {
			return false
		}
		return len(fl.Field().String()) >= 8
	})
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("resource_type", func(fl validator.FieldLevel) bool {
		return models.ResourceTypeNameMap[fl.Field().String()]
	})
	if err != nil {
		return err
	}

	// emergency contacts are either an email address or an e164 phone number
	err = validate.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if strings.Contains(value, "@") {
			return validate.Var(value, "email") == nil
		}
		return validate.Var(value, "e164") == nil
	})
	if err != nil {
		return err
	}

	return nil
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Vita server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(scheduler *cron.Scheduler, server *http.Server, onShutdown func()) {
	// Stop all scheduled jobs before the db goes away
	scheduler.Stop()

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Vita server shutdown failed:%+s", err)
	}

	if err := models.Close(); err != nil {
		logg.Error(err)
	}

	if onShutdown != nil {
		onShutdown()
	}

	logg.Infof("Vita server stopped properly")
}

// configDirectory retrieves the directory to store vita data
// Or logs an error message and then calls os.Exit if it's unable to.
func configDirectory(devMode bool) string {
	// Use 'vita' folder in home directory for prod
	configFolderName := "vita"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err)

	return configDir
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
