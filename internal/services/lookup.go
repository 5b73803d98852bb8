// Package services maps well-known ports to service names for display.
package services

// wellKnown maps ports to IANA-ish service names. Ports that carry
// different services over TCP and UDP are listed once under the name
// most users expect to see.
var wellKnown = map[uint16]string{
	20:    "ftp-data",
	21:    "ftp",
	22:    "ssh",
	23:    "telnet",
	25:    "smtp",
	53:    "dns",
	67:    "dhcp",
	68:    "dhcp",
	69:    "tftp",
	80:    "http",
	110:   "pop3",
	119:   "nntp",
	123:   "ntp",
	137:   "netbios-ns",
	138:   "netbios-dgm",
	139:   "netbios-ssn",
	143:   "imap",
	161:   "snmp",
	162:   "snmptrap",
	179:   "bgp",
	194:   "irc",
	443:   "https",
	445:   "smb",
	465:   "smtps",
	514:   "syslog",
	515:   "lpr",
	587:   "submission",
	636:   "ldaps",
	853:   "dns-tls",
	993:   "imaps",
	995:   "pop3s",
	1433:  "mssql",
	1521:  "oracle",
	1723:  "pptp",
	2049:  "nfs",
	3306:  "mysql",
	3389:  "rdp",
	5060:  "sip",
	5222:  "xmpp",
	5432:  "postgresql",
	5900:  "vnc",
	6379:  "redis",
	6443:  "k8s-api",
	8080:  "http-alt",
	8443:  "https-alt",
	9200:  "elasticsearch",
	27017: "mongodb",
}

// Name returns the service name for a port.
// Returns empty string if not found.
func Name(port uint16) string {
	return wellKnown[port]
}
