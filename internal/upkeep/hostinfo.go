package upkeep

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// hostBanner returns a one-line kernel and hostname summary for the session
// header.
func hostBanner() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "unknown host"
	}
	return fmt.Sprintf("%s %s %s (%s)",
		charsToString(uts.Nodename[:]),
		charsToString(uts.Sysname[:]),
		charsToString(uts.Release[:]),
		charsToString(uts.Machine[:]))
}

func charsToString(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

// freeSpace reports the bytes available to unprivileged users on the
// filesystem holding path.
func freeSpace(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}

func humanSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
