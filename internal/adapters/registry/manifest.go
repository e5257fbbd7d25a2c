package registry

import "go.trai.ch/dexmgr/internal/core/domain"

// Manifest represents the structure of the installed package manifest.
type Manifest struct {
	Users []UserDTO `yaml:"users"`
}

// UserDTO lists the packages installed for one user.
type UserDTO struct {
	ID       domain.UserID `yaml:"id"`
	Packages []PackageDTO  `yaml:"packages"`
}

// PackageDTO is one installed package. Enabled defaults to true.
type PackageDTO struct {
	domain.AppInfo `yaml:",inline"`
	Enabled        *bool `yaml:"enabled"`
}

func (p *PackageDTO) toDomain() domain.PackageInfo {
	enabled := p.Enabled == nil || *p.Enabled
	return domain.PackageInfo{AppInfo: p.AppInfo.Clone(), Enabled: enabled}
}
