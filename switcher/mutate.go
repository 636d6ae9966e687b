package switcher

import (
	"dubbo-switch/message"
	"dubbo-switch/registry"
	"github.com/juju/errors"
)

// SwitchServices makes the target's provider list of every selected service
// equal to the selected list: existing target providers are deleted, then
// every selected provider key is created verbatim. Services not in the
// selection are not touched.
//
// It returns how many services were fully switched. On error the current
// service may be half done; earlier ones stay switched.
func SwitchServices(selection message.Selection, target registry.Store) (int, error) {
	for i, sp := range selection {
		providersPath := registry.ProvidersPath(sp.ServiceName)
		for _, path := range []string{registry.Root, registry.ServicePath(sp.ServiceName), providersPath} {
			if err := CreateNode(target, path); err != nil {
				return i, errors.Trace(err)
			}
		}
		if err := deleteProviders(target, sp.ServiceName); err != nil {
			return i, errors.Trace(err)
		}
		for _, provider := range sp.Providers {
			if err := CreateNode(target, registry.ProviderPath(sp.ServiceName, provider)); err != nil {
				return i, errors.Trace(err)
			}
		}
	}
	return len(selection), nil
}

// ClearServices deletes every provider of each selected service. It returns
// how many services were fully cleared.
func ClearServices(selection message.Selection, target registry.Store) (int, error) {
	for i, sp := range selection {
		if err := deleteProviders(target, sp.ServiceName); err != nil {
			return i, errors.Trace(err)
		}
	}
	return len(selection), nil
}

// deleteProviders removes all children of the service's providers node as
// currently listed on store.
func deleteProviders(store registry.Store, service string) error {
	providers, err := store.Children(registry.ProvidersPath(service))
	if err != nil {
		return errors.Trace(err)
	}
	for _, provider := range providers {
		if err := DeleteNode(store, registry.ProviderPath(service, provider)); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// CreateNode creates path unless it already exists.
func CreateNode(store registry.Store, path string) error {
	ok, err := store.Exists(path)
	if err != nil {
		return errors.Trace(err)
	}
	if ok {
		return nil
	}
	return errors.Trace(store.Create(path))
}

// DeleteNode deletes path, whatever its version, if it exists.
func DeleteNode(store registry.Store, path string) error {
	ok, err := store.Exists(path)
	if err != nil {
		return errors.Trace(err)
	}
	if !ok {
		return nil
	}
	return errors.Trace(store.Delete(path))
}
