package registry

import (
	"reflect"
	"testing"
	"time"

	"github.com/juju/errors"
)

func TestPaths(t *testing.T) {
	svc := "com.example.Foo:1.0.0"
	if got := ServicePath(svc); got != "/dubbo/com.example.Foo:1.0.0" {
		t.Fatalf("ServicePath = %s", got)
	}
	if got := ProvidersPath(svc); got != "/dubbo/com.example.Foo:1.0.0/providers" {
		t.Fatalf("ProvidersPath = %s", got)
	}
	if got := ProviderPath(svc, "dubbo%3A%2F%2F10.0.0.1"); got != "/dubbo/com.example.Foo:1.0.0/providers/dubbo%3A%2F%2F10.0.0.1" {
		t.Fatalf("ProviderPath = %s", got)
	}
	if got := parentPath(Root); got != "/" {
		t.Fatalf("parentPath(%s) = %s", Root, got)
	}
	if got := parentPath(ProvidersPath("Foo")); got != "/dubbo/Foo" {
		t.Fatalf("parentPath = %s", got)
	}
}

func TestSplitEndpoint(t *testing.T) {
	got := splitEndpoint(" zk1:2181, zk2:2181,,zk3:2181 ")
	want := []string{"zk1:2181", "zk2:2181", "zk3:2181"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expect %v, got %v", want, got)
	}
	if len(splitEndpoint("")) != 0 {
		t.Fatal("expect no addresses for empty endpoint")
	}
}

func TestNewDialer(t *testing.T) {
	for _, backend := range []string{"", "zk", BackendZooKeeper, BackendEtcd, BackendMemory} {
		if _, err := NewDialer(backend, time.Second, nil); err != nil {
			t.Fatalf("backend %q: %v", backend, err)
		}
	}
	_, err := NewDialer("consul", time.Second, nil)
	if !errors.Is(err, errors.NotValid) {
		t.Fatalf("expect NotValid for unknown backend, got %v", err)
	}
}

func TestImmediateChildren(t *testing.T) {
	keys := []string{
		"/dubbo/A",
		"/dubbo/A/providers",
		"/dubbo/A/providers/p1",
		"/dubbo/B",
		"/dubbo/B/consumers",
	}
	got := immediateChildren("/dubbo/", keys)
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("expect [A B], got %v", got)
	}

	got = immediateChildren("/dubbo/A/providers/", keys)
	if !reflect.DeepEqual(got, []string{"p1"}) {
		t.Fatalf("expect [p1], got %v", got)
	}

	got = immediateChildren("/dubbo/C/", keys)
	if got == nil || len(got) != 0 {
		t.Fatalf("expect empty non-nil slice, got %#v", got)
	}
}
