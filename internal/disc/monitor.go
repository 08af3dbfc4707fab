package disc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"discmux/internal/logging"
	"discmux/internal/services"
)

// Monitor listens for udev netlink events so the workflow can block until a
// drive reports inserted media instead of polling the device node.
type Monitor struct {
	logger *slog.Logger
}

// NewMonitor creates a disc-insertion monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	return &Monitor{
		logger: logging.NewComponentLogger(logger, "disc-monitor"),
	}
}

// WaitForMedia blocks until a disc-insertion uevent arrives for the given
// device or the context is cancelled.
func (m *Monitor) WaitForMedia(ctx context.Context, device string) error {
	device = strings.TrimSpace(device)
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return services.Wrap(services.ErrPreflight, "disc-monitor", "netlink connect",
			"cannot listen for disc events; check netlink socket permissions", err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, mediaMatcher())
	defer close(quit)

	m.logger.Info("waiting for disc", logging.String("device", device))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case uevent := <-queue:
			devname := deviceName(uevent)
			if devname == "" || devname != device {
				m.logger.Debug("ignoring event for non-monitored device",
					logging.String("device", devname),
				)
				continue
			}
			m.logger.Info("disc media detected",
				logging.String("device", devname),
				logging.String("action", string(uevent.Action)),
			)
			return nil
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// mediaMatcher selects disc insertion events:
// SUBSYSTEM=block, ID_CDROM=1, ID_CDROM_MEDIA=1, ACTION=change|add.
func mediaMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

// deviceName extracts the device path from a uevent, falling back to the
// final DEVPATH segment when DEVNAME is absent.
func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}
