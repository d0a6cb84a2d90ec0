//go:build !hook

package input

import (
	"codeberg.org/miketth/keylive/pkg/keylabel"
	"go.uber.org/zap"
)

const hookMissing = "built without the hook tag"

func hookSupported() (bool, string) {
	return false, hookMissing
}

func newHookMonitor(*keylabel.Mapper, *zap.SugaredLogger) Monitor {
	return unavailable{name: BackendHook, reason: hookMissing}
}
