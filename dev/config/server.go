package config

// SERVER_YML is the config used when the server is started with --dev
// and no dev/config/server.yml exists yet.
const SERVER_YML = `
vita:
  privateKeyPem: ""
  cron:
    timeZone: "UTC"
  listener:
    port: 3000
  session:
    backend: db
    ttlInMinutes: 240
    secureCookies: false

database:
  driver: sqlite

sqlite:
  passPhrase: passphrase

redis:
  addr: "localhost:6379"
  password:
  db: 0

google:
  storage:
    bucket: "vita"
    prefix: "vita-dev"
    sqliteBackupSchedule: "*/30 * * * *"
    enableSqliteBackupAndSync: false
  applicationCredentials:

twilio:
  accountSid:
  authToken:
  messagingServiceSid:

smtp:
  host:
  port: 587
  username:
  password:
  fromName: "Vita Alerts"
  fromAddress: "alerts@vita.local"

log:
  file:
`
