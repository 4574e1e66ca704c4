//go:build linux

package ffi

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const lddProbeTimeout = 2 * time.Second

// detectLibc reports musl when either the ldd version banner or the process
// memory map mentions it. Anything inconclusive is glibc.
func detectLibc() Libc {
	if libc, ok := libcFromLdd(); ok {
		return libc
	}
	return libcFromMaps("/proc/self/maps")
}

func libcFromLdd() (Libc, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), lddProbeTimeout)
	defer cancel()

	// musl's ldd prints its banner to stderr and exits non-zero, so the error is ignored.
	out, _ := exec.CommandContext(ctx, "ldd", "--version").CombinedOutput()
	if len(out) == 0 {
		Logger().Debug("ldd probe produced no output")
		return "", false
	}
	return parseLddBanner(out)
}

func parseLddBanner(out []byte) (Libc, bool) {
	lower := bytes.ToLower(out)
	switch {
	case bytes.Contains(lower, []byte("musl")):
		return LibcMusl, true
	case bytes.Contains(lower, []byte("glibc")), bytes.Contains(lower, []byte("gnu libc")):
		return LibcGlibc, true
	}
	return "", false
}

func libcFromMaps(path string) Libc {
	f, err := os.Open(path)
	if err != nil {
		Logger().Debug("cannot read memory map, assuming glibc", zap.String("path", path), zap.Error(err))
		return LibcGlibc
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "musl") {
			return LibcMusl
		}
		if strings.Contains(line, "libc.so.6") {
			return LibcGlibc
		}
	}
	return LibcGlibc
}
