package domain

// Permission is the notification capability state.
type Permission string

const (
	// PermissionUnavailable means no notification sender is configured.
	PermissionUnavailable Permission = "unavailable"
	PermissionDefault     Permission = "default"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
)

// ParsePermission maps a stored value to a Permission. Anything unknown is
// PermissionDefault.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

func (p Permission) Granted() bool {
	return p == PermissionGranted
}
