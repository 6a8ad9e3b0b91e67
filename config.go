package sitecms

import "github.com/goliatone/go-sitecms/internal/runtimeconfig"

var (
	ErrLocaleInvalid          = runtimeconfig.ErrLocaleInvalid
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrUploadsDirRequired     = runtimeconfig.ErrUploadsDirRequired
	ErrUploadsMaxBytesInvalid = runtimeconfig.ErrUploadsMaxBytesInvalid
	ErrAuthSecretTooShort     = runtimeconfig.ErrAuthSecretTooShort
	ErrAuthTokenTTLInvalid    = runtimeconfig.ErrAuthTokenTTLInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	LocaleConfig     = runtimeconfig.LocaleConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	HTTPConfig       = runtimeconfig.HTTPConfig
	UploadsConfig    = runtimeconfig.UploadsConfig
	AuthConfig       = runtimeconfig.AuthConfig
	ContactConfig    = runtimeconfig.ContactConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadFromEnv reads SITECMS_* variables over DefaultConfig. A nil environ
// reads the process environment.
func LoadFromEnv(environ map[string]string) (Config, error) {
	return runtimeconfig.LoadFromEnv(environ)
}
