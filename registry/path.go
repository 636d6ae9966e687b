package registry

import "strings"

// Root is the top-level node every service lives under.
const Root = "/dubbo"

// Sub-nodes of a service node.
const (
	ProvidersNode     = "providers"
	ConsumersNode     = "consumers"
	RoutersNode       = "routers"
	ConfiguratorsNode = "configurators"
)

const separator = "/"

// ServicePath returns /dubbo/{service}. The name is not validated.
func ServicePath(service string) string {
	return Root + separator + service
}

// ProvidersPath returns /dubbo/{service}/providers.
func ProvidersPath(service string) string {
	return ServicePath(service) + separator + ProvidersNode
}

// ProviderPath returns the full path of one provider entry.
func ProviderPath(service, provider string) string {
	return ProvidersPath(service) + separator + provider
}

// parentPath returns the parent of an absolute node path; "/" for top-level nodes.
func parentPath(path string) string {
	i := strings.LastIndex(path, separator)
	if i <= 0 {
		return separator
	}
	return path[:i]
}
