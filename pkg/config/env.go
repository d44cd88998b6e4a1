package config

const (
	// EnvPrefix namespaces every configuration variable.
	EnvPrefix = "VIVAMARKET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VIVAMARKET_DB_DSN"
	EnvDBHost = "VIVAMARKET_DB_HOST"
	EnvDBUser = "VIVAMARKET_DB_USER"
	EnvDBName = "VIVAMARKET_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
