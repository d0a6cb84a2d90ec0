//go:build !linux

package input

import (
	"fmt"
	"runtime"

	"codeberg.org/miketth/keylive/pkg/keylabel"
	"go.uber.org/zap"
)

func probeDevice(string) (string, string, error) {
	return "", "", fmt.Errorf("raw input devices are not supported on %s", runtime.GOOS)
}

func newDeviceMonitor(string, *keylabel.Mapper, *zap.SugaredLogger) Monitor {
	return unavailable{name: BackendDevice, reason: "unsupported platform"}
}
