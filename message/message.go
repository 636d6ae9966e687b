// Package message defines the data passed between the switcher and its callers.
package message

import "net/url"

// Result is the outcome of a public switcher operation.
//
//   - On success: Success is true and Message is a short confirmation.
//   - On failure: Message names the endpoint or carries the underlying error text.
type Result struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

func Succeeded(msg string) Result {
	return Result{Success: true, Message: msg}
}

func Failed(msg string) Result {
	return Result{Success: false, Message: msg}
}

// ServiceProviders is one selected service with its complete provider list.
// Provider keys are kept exactly as stored, still URL-encoded.
type ServiceProviders struct {
	ServiceName string   `json:"service" yaml:"service"`
	Providers   []string `json:"providers" yaml:"providers"`
}

// DecodeProvider decodes a stored provider key into its provider URL.
// '+' decodes to a space.
func DecodeProvider(key string) (string, error) {
	return url.QueryUnescape(key)
}

// Selection is the result of a collection pass, in registry listing order.
type Selection []ServiceProviders

// Services returns the selected service names.
func (s Selection) Services() []string {
	names := make([]string, 0, len(s))
	for _, sp := range s {
		names = append(names, sp.ServiceName)
	}
	return names
}

// ProviderCount is the total number of provider entries in the selection.
func (s Selection) ProviderCount() int {
	n := 0
	for _, sp := range s {
		n += len(sp.Providers)
	}
	return n
}
