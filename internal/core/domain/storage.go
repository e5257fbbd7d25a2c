package domain

// StorageFlags selects which private storage area of a package an operation targets.
type StorageFlags uint8

const (
	// StorageUnknown means the storage area could not be inferred.
	StorageUnknown StorageFlags = 0
	// StorageDE is device-encrypted storage, available before the user unlocks.
	StorageDE StorageFlags = 1 << 0
	// StorageCE is credential-encrypted storage, available after the user unlocks.
	StorageCE StorageFlags = 1 << 1
)

// String returns a short name for the storage flags.
func (f StorageFlags) String() string {
	switch f {
	case StorageDE:
		return "de"
	case StorageCE:
		return "ce"
	case StorageDE | StorageCE:
		return "de|ce"
	default:
		return "unknown"
	}
}
