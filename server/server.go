package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"github.com/vitahq/vita/server/assist"
	"github.com/vitahq/vita/server/auth/key"
	"github.com/vitahq/vita/server/cron"
	"github.com/vitahq/vita/server/gstorage"
	"github.com/vitahq/vita/server/identity"
	"github.com/vitahq/vita/server/logger"
	"github.com/vitahq/vita/server/mailer"
	"github.com/vitahq/vita/server/models"
	"github.com/vitahq/vita/server/session"
	"github.com/vitahq/vita/server/sos"
	"github.com/vitahq/vita/server/twilio"
	"github.com/vitahq/vita/shared"
)

const devKeyBits = 2048

var (
	logg     = logger.NewLogger()
	validate = validator.New()

	authKeyPair   *key.KeyPair
	sessionStore  session.Store
	sessionTTL    = session.DefaultTTL
	secureCookies bool
	identityChain identity.Chain
	sosDispatcher *sos.Dispatcher
	chatBot       = assist.NewBot(resourceFinder{})
)

func init() {
	if err := RegisterValidators(validate); err != nil {
		log.Panic(err)
	}
}

func Start(configValues *viper.Viper, devMode bool) {
	config, err := loadConfig(configValues)
	fatalOnError(err)

	logger.Configure(config.Log)

	authKeyPair, err = loadKeyPair(config.Vita.PrivateKeyPem, devMode)
	fatalOnError(err)

	configDir := configDirectory(devMode)

	scheduler, err := cron.NewCronScheduler(config.Vita.Cron.TimeZone)
	fatalOnError(err)

	var onShutdown func()
	storageConfig := config.Google.Storage
	if config.Database.Driver == "sqlite" && storageConfig.EnableSqliteBackupAndSync {
		dbFilePath, err := models.DbFilePath(configDir)
		fatalOnError(err)

		storage, err := gstorage.NewGStorage(
			context.Background(),
			config.Google.ApplicationCredentials,
			storageConfig.Bucket,
			storageConfig.Prefix,
		)
		fatalOnError(err)

		fatalOnError(restoreSqliteDb(storage, dbFilePath))
		fatalOnError(registerBackupJob(scheduler, backupSqliteDb(storage, dbFilePath), storageConfig.SqliteBackupSchedule))

		// Take one last backup once the db is closed
		onShutdown = func() {
			if err := scheduler.Perform(BACKUP_SQLITE_JOB); err != nil {
				logg.Error(err)
			}
			storage.Close()
		}
	}

	fatalOnError(models.AutoMigrate(config.Database, config.Sqlite, configDir))

	secureCookies = config.Vita.Session.SecureCookies
	if config.Vita.Session.TTLInMinutes > 0 {
		sessionTTL = time.Duration(config.Vita.Session.TTLInMinutes) * time.Minute
	}

	sessionStore, err = newSessionStore(config.Vita.Session.Backend, config.Redis, sessionTTL)
	fatalOnError(err)

	identityChain = identity.NewChain(sessionStore, authKeyPair)
	sosDispatcher = sos.NewDispatcher(twilio.NewClient(config.Twilio, devMode), mailer.New(config.Smtp, devMode))

	fatalOnError(registerJobs(scheduler, sessionStore))
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%v", config.Vita.Listener.Port),
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go serve(server)

	// Wait for an interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	cleanup(scheduler, server, onShutdown)
}

func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(contentTypeMiddleware)

	router.HandleFunc("/.well-known/jwks.json", jwks).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", health).Methods("GET")

	api.HandleFunc("/users", createUser).Methods("POST")
	api.HandleFunc("/login", logIn).Methods("POST")
	api.HandleFunc("/logout", logOut).Methods("POST")
	api.Handle("/me", protected(findMe)).Methods("GET")
	api.Handle("/me", protected(updateMe)).Methods("PUT")
	api.Handle("/me", protected(deleteMe)).Methods("DELETE")

	api.Handle("/contacts", protected(findContacts)).Methods("GET")
	api.Handle("/contacts", protected(updateContacts)).Methods("PUT")
	api.Handle("/preferences", protected(findPreferences)).Methods("GET")
	api.Handle("/preferences", protected(updatePreferences)).Methods("PUT")

	api.HandleFunc("/sos", triggerSOS).Methods("POST")

	api.HandleFunc("/resources", findResources).Methods("GET")
	api.Handle("/resources", protected(createResource)).Methods("POST")
	api.HandleFunc("/resources/{id:[0-9]+}", findResource).Methods("GET")
	api.Handle("/resources/{id:[0-9]+}/verify", protected(verifyResource)).Methods("PUT")

	api.HandleFunc("/chat", chat).Methods("POST")
	api.HandleFunc("/predict", predictCrisis).Methods("GET")
	api.HandleFunc("/triage", triage).Methods("POST")

	return router
}

func protected(handler http.HandlerFunc) http.Handler {
	return protectedRouteMiddleware(handler)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func loadConfig(configValues *viper.Viper) (*shared.ServerConfig, error) {
	config := shared.ServerConfig{}

	err := configValues.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("unable to decode server config: %v", err)
	}

	err = validate.Struct(config)
	if err != nil {
		return nil, fmt.Errorf("invalid server config: %v", err)
	}

	return &config, nil
}

// loadKeyPair parses the configured private key. In dev mode a throwaway key
// is generated when none is configured, so tokens don't survive a restart.
func loadKeyPair(privateKeyPem string, devMode bool) (*key.KeyPair, error) {
	if privateKeyPem != "" {
		return key.NewKeyPairFromRSAPrivateKeyPem(privateKeyPem)
	}

	if !devMode {
		return nil, errors.New("'vita.privateKeyPem' is required")
	}

	logg.Warn("No 'vita.privateKeyPem' configured, generating a temporary key")
	return key.GenerateKeyPair(devKeyBits)
}

func newSessionStore(backend string, redisConfig shared.RedisConfig, ttl time.Duration) (session.Store, error) {
	if backend != "redis" {
		return session.NewDBStore(ttl), nil
	}

	client, err := session.NewRedisClient(context.Background(), redisConfig)
	if err != nil {
		return nil, err
	}

	return session.NewRedisStore(client, ttl), nil
}
