package config

const (
	EnvPrefix = "FINDLUNCH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "FINDLUNCH_APP_ENV"
	EnvAppPort         = "FINDLUNCH_APP_PORT"
	EnvUpstreamBaseURL = "FINDLUNCH_UPSTREAM_BASE_URL"
)
