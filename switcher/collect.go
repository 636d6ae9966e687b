package switcher

import (
	"strings"

	"dubbo-switch/message"
	"dubbo-switch/registry"
	"github.com/juju/errors"
)

const applicationKey = "application="

// CollectAppServices walks /dubbo and selects every service with at least
// one provider of appName. Selected services keep their full provider list.
//
// A missing root gives an empty selection. A service without a providers
// node fails the whole collection.
func CollectAppServices(store registry.Store, appName string) (message.Selection, error) {
	ok, err := store.Exists(registry.Root)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !ok {
		return message.Selection{}, nil
	}

	services, err := store.Children(registry.Root)
	if err != nil {
		return nil, errors.Trace(err)
	}

	selection := message.Selection{}
	for _, service := range services {
		providers, err := store.Children(registry.ProvidersPath(service))
		if err != nil {
			return nil, errors.Trace(err)
		}
		matched, err := anyProviderOf(providers, appName)
		if err != nil {
			return nil, errors.Annotatef(err, "service %s", service)
		}
		if matched {
			selection = append(selection, message.ServiceProviders{
				ServiceName: service,
				Providers:   providers,
			})
		}
	}
	return selection, nil
}

func anyProviderOf(providers []string, appName string) (bool, error) {
	for _, provider := range providers {
		ok, err := MatchesApplication(provider, appName)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// MatchesApplication reports whether the decoded provider key contains
// "application=<appName>". This is a plain substring test, so "foo" also
// matches application=foobar or any other parameter ending in application=foo.
func MatchesApplication(provider, appName string) (bool, error) {
	decoded, err := message.DecodeProvider(provider)
	if err != nil {
		return false, errors.Annotatef(err, "decoding provider %q", provider)
	}
	return strings.Contains(decoded, applicationKey+appName), nil
}
