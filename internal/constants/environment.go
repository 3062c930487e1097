package constants

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)
