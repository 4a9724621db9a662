package netutil

import (
	"net"
	"strings"
)

// DisplayURL turns a listen address into a URL a user can open. Wildcard
// hosts are replaced by the first LAN address so phones on the same network
// can reach the form.
func DisplayURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil || port == "" {
		return ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = LANAddr()
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return "http://" + host + ":" + port
}

// LANAddr returns the first non-loopback unicast IPv4 address of an up
// interface, or "localhost".
func LANAddr() string {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, addr := range addrs {
			ip := extractIP(addr)
			if ip4 := ip.To4(); ip4 != nil && usable(ip4) {
				return ip4.String()
			}
		}
	}
	return "localhost"
}

func extractIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		s := addr.String()
		if i := strings.IndexByte(s, '/'); i >= 0 {
			s = s[:i]
		}
		return net.ParseIP(s)
	}
}

func usable(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsMulticast() || ip.IsUnspecified() {
		return false
	}
	return ip.IsGlobalUnicast()
}
