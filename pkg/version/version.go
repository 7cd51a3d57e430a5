// Package version reports the build version, set at link time with
// -ldflags "-X github.com/LucasJalles/controle-vendas/pkg/version.version=v1.2.3".
package version

var version = "dev"

// Version returns the build version.
func Version() string {
	return version
}
