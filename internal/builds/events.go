package builds

import "context"

// Change describes a build mutation. Previous is zero when Created is set.
type Change struct {
	Previous SystemBuild
	Current  SystemBuild
	Created  bool
}

// Observer is notified after every successful build save.
type Observer interface {
	OnSystemBuildUpdated(ctx context.Context, change Change)
}
