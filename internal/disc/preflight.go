package disc

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"discmux/internal/services"
)

// ioctlCDROMDriveStatus is the Linux ioctl number for CDROM_DRIVE_STATUS.
const ioctlCDROMDriveStatus = 0x5326

// DriveStatus represents the result of a CDROM_DRIVE_STATUS ioctl call.
type DriveStatus int

const (
	DriveStatusNoInfo   DriveStatus = 0
	DriveStatusNoDisc   DriveStatus = 1
	DriveStatusTrayOpen DriveStatus = 2
	DriveStatusNotReady DriveStatus = 3
	DriveStatusDiscOK   DriveStatus = 4
)

// String returns a human-readable label for the drive status.
func (s DriveStatus) String() string {
	switch s {
	case DriveStatusNoInfo:
		return "no_info"
	case DriveStatusNoDisc:
		return "no_disc"
	case DriveStatusTrayOpen:
		return "tray_open"
	case DriveStatusNotReady:
		return "not_ready"
	case DriveStatusDiscOK:
		return "disc_ok"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CheckDriveStatus queries the drive state using the CDROM_DRIVE_STATUS ioctl.
// Returns an error if the device cannot be opened or the ioctl fails.
func CheckDriveStatus(devicePath string) (DriveStatus, error) {
	devicePath = strings.TrimSpace(devicePath)
	if devicePath == "" {
		return DriveStatusNoInfo, fmt.Errorf("empty device path")
	}

	fd, err := unix.Open(devicePath, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return DriveStatusNoInfo, fmt.Errorf("open %s: %w", devicePath, err)
	}
	defer unix.Close(fd) //nolint:errcheck

	status, err := unix.IoctlRetInt(fd, ioctlCDROMDriveStatus)
	if err != nil {
		return DriveStatusNoInfo, fmt.Errorf("drive status ioctl on %s: %w", devicePath, err)
	}
	return DriveStatus(status), nil
}

// Preflight verifies the device node is readable and, when the status ioctl
// is supported, that the drive reports a usable disc. Drives that do not
// implement the ioctl pass the check; the geometry query will surface real
// failures.
func Preflight(devicePath string) error {
	devicePath = strings.TrimSpace(devicePath)
	if devicePath == "" {
		return services.Wrap(services.ErrPreflight, "preflight", "device", "no device configured", nil)
	}
	if err := unix.Access(devicePath, unix.R_OK); err != nil {
		return services.Wrap(services.ErrPreflight, "preflight", "access",
			fmt.Sprintf("device %s is not readable", devicePath), err)
	}

	status, err := CheckDriveStatus(devicePath)
	if err != nil {
		// Non-CDROM nodes (loop devices, test fixtures) reject the ioctl.
		return nil
	}
	switch status {
	case DriveStatusDiscOK, DriveStatusNoInfo:
		return nil
	default:
		return services.Wrap(services.ErrPreflight, "preflight", "drive status",
			fmt.Sprintf("drive %s reports %s", devicePath, status), nil)
	}
}
