// Package resolver provides the hostname-to-address-set resolution primitive
// used by the wildcard detector and the resolution pipeline. Two backends are
// available: the system resolver (optionally tunnelled through a SOCKS5
// proxy) and a direct client that queries a specific nameserver.
package resolver
