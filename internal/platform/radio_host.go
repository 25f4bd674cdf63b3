package platform

import (
	"net"

	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

// HostRadio is a Radio backed by the host operating system's network
// stack. Association is assumed to be managed by the OS, so Begin is a
// no-op and Connected reports whether a non-loopback interface address
// exists. It exists so the agent binary can run unmodified on a
// developer machine.
type HostRadio struct {
	began bool
}

var _ Radio = (*HostRadio)(nil)

// Begin implements Radio.
func (r *HostRadio) Begin(ssid string) error {
	r.began = true
	logger.Debugf("host radio: association delegated to OS (ssid %q ignored)", ssid)
	return nil
}

// EnableEnterprise implements Radio. The host OS already holds any
// enterprise credentials, so this only logs.
func (r *HostRadio) EnableEnterprise(identity, username, password string) error {
	logger.Debugf("host radio: enterprise identity %q handled by OS", identity)
	return nil
}

// Connected implements Radio.
func (r *HostRadio) Connected() bool {
	if !r.began {
		return false
	}
	return r.LocalAddr() != ""
}

// LocalAddr implements Radio. It returns the first non-loopback IPv4
// address, or "" when none exists.
func (r *HostRadio) LocalAddr() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}

// Disconnect implements Radio.
func (r *HostRadio) Disconnect() error {
	r.began = false
	return nil
}
