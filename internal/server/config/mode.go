package config

import (
	"fmt"

	"github.com/philharmonia/harmony/internal/common"
)

// Mode is the resolved deployment environment.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Profile holds every setting that differs between deployment modes.
type Profile struct {
	SSLRedirect           bool
	TrustForwardedProto   bool
	SecureCookies         bool
	HSTSSeconds           int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	RequireSecretKey      bool
	RequireDBSSL          bool
	RemoteMedia           bool
}

var profiles = map[Mode]Profile{
	ModeDevelopment: {},
	ModeProduction: {
		SSLRedirect:           true,
		TrustForwardedProto:   true,
		SecureCookies:         true,
		HSTSSeconds:           31536000,
		HSTSIncludeSubdomains: true,
		HSTSPreload:           true,
		RequireSecretKey:      true,
		RequireDBSSL:          true,
		RemoteMedia:           true,
	},
}

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := profiles[m]; !ok {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidDeployMode, s)
	}
	return m, nil
}

// DetectMode returns production when the platform hostname is present.
func DetectMode(externalHostname string) Mode {
	if externalHostname != "" {
		return ModeProduction
	}
	return ModeDevelopment
}

// Profile returns the settings of m. Unknown modes get the development profile.
func (m Mode) Profile() Profile {
	return profiles[m]
}
